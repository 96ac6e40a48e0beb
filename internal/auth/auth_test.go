package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aksumer/aksumer-api/internal/lib/jwt"
	"github.com/aksumer/aksumer-api/internal/models"
	"github.com/aksumer/aksumer-api/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeStorage struct {
	users   map[string]models.User
	nextID  uint64
	saveErr error
	findErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{users: map[string]models.User{}}
}

func (f *fakeStorage) SaveUser(_ context.Context, username, email string, passHash []byte) (uint64, error) {
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	if _, ok := f.users[email]; ok {
		return 0, storage.ErrUserExists
	}

	f.nextID++
	f.users[email] = models.User{
		ID:       f.nextID,
		Username: username,
		Email:    email,
		PassHash: passHash,
	}

	return f.nextID, nil
}

func (f *fakeStorage) UserByEmail(_ context.Context, email string) (models.User, error) {
	if f.findErr != nil {
		return models.User{}, f.findErr
	}

	u, ok := f.users[email]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}

	return u, nil
}

func (f *fakeStorage) EmailTaken(_ context.Context, email string) (bool, error) {
	if f.findErr != nil {
		return false, f.findErr
	}

	_, ok := f.users[email]
	return ok, nil
}

func newTestAuth(store *fakeStorage) (*Auth, *jwt.Manager) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := jwt.NewManager("test-secret", time.Hour)

	return New(log, store, store, tokens), tokens
}

func TestRegisterNewUser_HashesPassword(t *testing.T) {
	store := newFakeStorage()
	svc, _ := newTestAuth(store)

	id, err := svc.RegisterNewUser(context.Background(), "tester", "a@b.cd", "longenough")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	saved := store.users["a@b.cd"]
	assert.NotEqual(t, "longenough", string(saved.PassHash))
	assert.NoError(t, bcrypt.CompareHashAndPassword(saved.PassHash, []byte("longenough")))
}

func TestRegisterNewUser_DuplicateEmail(t *testing.T) {
	store := newFakeStorage()
	svc, _ := newTestAuth(store)

	_, err := svc.RegisterNewUser(context.Background(), "tester", "a@b.cd", "longenough")
	require.NoError(t, err)

	_, err = svc.RegisterNewUser(context.Background(), "other", "a@b.cd", "longenough")
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Len(t, store.users, 1)
}

func TestRegisterNewUser_RaceLoserGetsEmailTaken(t *testing.T) {
	// The existence check passes, but the insert hits the unique
	// constraint because another request won the race.
	store := newFakeStorage()
	store.saveErr = storage.ErrUserExists
	svc, _ := newTestAuth(store)

	_, err := svc.RegisterNewUser(context.Background(), "tester", "a@b.cd", "longenough")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_Success(t *testing.T) {
	store := newFakeStorage()
	svc, tokens := newTestAuth(store)

	id, err := svc.RegisterNewUser(context.Background(), "tester", "a@b.cd", "longenough")
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "a@b.cd", "longenough")
	require.NoError(t, err)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Payload.ID)
	assert.Equal(t, "tester", claims.Payload.Username)
}

func TestLogin_UnknownEmail(t *testing.T) {
	store := newFakeStorage()
	svc, _ := newTestAuth(store)

	_, err := svc.Login(context.Background(), "nobody@b.cd", "longenough")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	store := newFakeStorage()
	svc, _ := newTestAuth(store)

	_, err := svc.RegisterNewUser(context.Background(), "tester", "a@b.cd", "longenough")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "a@b.cd", "wrongwrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_StorageFailureIsNotCredentialsError(t *testing.T) {
	store := newFakeStorage()
	store.findErr = errors.New("connection refused")
	svc, _ := newTestAuth(store)

	_, err := svc.Login(context.Background(), "a@b.cd", "longenough")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
