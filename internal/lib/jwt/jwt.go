package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Payload is the user identity embedded in every access token.
type Payload struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// Claims is the full token body: issued-at and expiry plus the payload.
type Claims struct {
	Payload Payload `json:"payload"`
	jwt.RegisteredClaims
}

// Manager signs and verifies access tokens with a single HMAC secret.
// All state is read-only after construction.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Generate issues a signed token for the given payload. Expiry is exactly
// issued-at plus the configured lifetime.
func (m *Manager) Generate(payload Payload) (string, error) {
	const op = "jwt.Generate"

	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Payload: payload,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// Verify checks the token's signature, expiry and claim shape and returns
// its claims. Any failure, including a malformed, expired or timestamp-less
// token, yields ErrInvalidToken.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	const op = "jwt.Verify"

	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%s: unexpected signing method", op)
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if !parsed.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	// Both timestamps are part of the token contract; a signed token
	// missing either never came from Generate.
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims, nil
}
