// Package authjwt guards protected routes: it extracts the bearer token
// from the Authorization header, verifies it, and stores the decoded
// claims in the request context.
package authjwt

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aksumer/aksumer-api/internal/lib/api/apierror"
	"github.com/aksumer/aksumer-api/internal/lib/api/response"
	"github.com/aksumer/aksumer-api/internal/lib/jwt"
	sl "github.com/aksumer/aksumer-api/internal/lib/logger"
)

type claimsKey struct{}

func New(log *slog.Logger, tokens *jwt.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Err(w, r, apierror.MissingToken())
				return
			}

			// The scheme is case-insensitive per RFC 7235.
			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				log.Warn("unparseable authorization header")
				response.Err(w, r, apierror.WrongTokenFormat())
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				log.Warn("token verification failed", sl.Err(err))
				response.Err(w, r, apierror.InvalidToken())
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims stored by the middleware.
func ClaimsFromContext(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*jwt.Claims)
	return claims, ok
}
