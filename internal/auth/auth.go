package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aksumer/aksumer-api/internal/lib/jwt"
	sl "github.com/aksumer/aksumer-api/internal/lib/logger"
	"github.com/aksumer/aksumer-api/internal/models"
	"github.com/aksumer/aksumer-api/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

type Auth struct {
	log         *slog.Logger
	usrSaver    UserSaver
	usrProvider UserProvider
	tokens      *jwt.Manager
}

type UserSaver interface {
	SaveUser(ctx context.Context, username, email string, passHash []byte) (uid uint64, err error)
}

type UserProvider interface {
	UserByEmail(ctx context.Context, email string) (models.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
}

func New(
	log *slog.Logger,
	userSaver UserSaver,
	userProvider UserProvider,
	tokens *jwt.Manager,
) *Auth {
	return &Auth{
		log:         log,
		usrSaver:    userSaver,
		usrProvider: userProvider,
		tokens:      tokens,
	}
}

// RegisterNewUser hashes the password and stores a new user row.
//
// The email-existence check and the insert are two round-trips; the unique
// constraint on email closes the gap between them, so the loser of a
// concurrent registration gets ErrEmailTaken rather than a duplicate row.
func (a *Auth) RegisterNewUser(
	ctx context.Context,
	username string,
	email string,
	pass string,
) (uint64, error) {
	const op = "auth.RegisterNewUser"

	log := a.log.With(slog.String("op", op))

	taken, err := a.usrProvider.EmailTaken(ctx, email)
	if err != nil {
		log.Error("failed to check email existence", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		log.Warn("email already registered")
		return 0, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := a.usrSaver.SaveUser(ctx, username, email, passHash)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("email registered concurrently")
			return 0, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		log.Error("failed to save user", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.Uint64("uid", id))

	return id, nil
}

// Login verifies the credentials and issues an access token. An unknown
// email and a wrong password are indistinguishable to the caller.
func (a *Auth) Login(
	ctx context.Context,
	email string,
	password string,
) (string, error) {
	const op = "auth.Login"

	log := a.log.With(slog.String("op", op))

	user, err := a.usrProvider.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found")
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		log.Error("failed to get user", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := a.tokens.Generate(jwt.Payload{
		ID:       user.ID,
		Username: user.Username,
	})
	if err != nil {
		log.Error("failed to generate access token", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, ErrTokenGeneration)
	}

	log.Info("user logged in successfully", slog.Uint64("uid", user.ID))

	return token, nil
}
