package register_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aksumer/aksumer-api/internal/auth"
	"github.com/aksumer/aksumer-api/internal/http_server/handlers/register"
	"github.com/aksumer/aksumer-api/internal/lib/jwt"
	"github.com/aksumer/aksumer-api/internal/models"
	"github.com/aksumer/aksumer-api/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	users map[string]models.User
	calls int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{users: map[string]models.User{}}
}

func (f *fakeStorage) SaveUser(_ context.Context, username, email string, passHash []byte) (uint64, error) {
	f.calls++
	if _, ok := f.users[email]; ok {
		return 0, storage.ErrUserExists
	}

	id := uint64(len(f.users) + 1)
	f.users[email] = models.User{ID: id, Username: username, Email: email, PassHash: passHash}
	return id, nil
}

func (f *fakeStorage) UserByEmail(_ context.Context, email string) (models.User, error) {
	f.calls++
	u, ok := f.users[email]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeStorage) EmailTaken(_ context.Context, email string) (bool, error) {
	f.calls++
	_, ok := f.users[email]
	return ok, nil
}

type fakePublisher struct {
	events []models.RegistrationEvent
}

func (f *fakePublisher) PublishRegistration(_ context.Context, event models.RegistrationEvent) error {
	f.events = append(f.events, event)
	return nil
}

type envelope struct {
	Code    uint16          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newHandler(store *fakeStorage, publisher register.EventPublisher) http.HandlerFunc {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := jwt.NewManager("test-secret", time.Hour)

	return register.New(log, auth.New(log, store, store, tokens), publisher)
}

func post(h http.HandlerFunc, body string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestRegister_Success(t *testing.T) {
	store := newFakeStorage()
	publisher := &fakePublisher{}
	h := newHandler(store, publisher)

	rec, env := post(h, `{"username":"tester","email":"a@b.cd","password":"longenough"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint16(0), env.Code)

	var data register.Data
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, uint64(1), data.NewID)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, uint64(1), publisher.events[0].UserID)
	assert.Equal(t, "a@b.cd", publisher.events[0].Email)
	assert.Equal(t, "tester", publisher.events[0].Username)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := newFakeStorage()
	h := newHandler(store, nil)

	rec, _ := post(h, `{"username":"tester","email":"a@b.cd","password":"longenough"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := post(h, `{"username":"other","email":"a@b.cd","password":"longenough"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, uint16(4001), env.Code)
	assert.Equal(t, "email already registered: a@b.cd", env.Message)
	assert.Len(t, store.users, 1)
}

func TestRegister_MalformedEmailRejectedBeforeStorage(t *testing.T) {
	store := newFakeStorage()
	h := newHandler(store, nil)

	rec, env := post(h, `{"username":"tester","email":"not-an-email","password":"longenough"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, uint16(1006), env.Code)
	assert.Zero(t, store.calls)
}

func TestRegister_MalformedJSON(t *testing.T) {
	h := newHandler(newFakeStorage(), nil)

	rec, env := post(h, `{"username":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, uint16(1003), env.Code)
}

func TestRegister_MissingField(t *testing.T) {
	h := newHandler(newFakeStorage(), nil)

	rec, env := post(h, `{"username":"tester","password":"longenough"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, uint16(1005), env.Code)
	assert.Equal(t, "missing parameter: email", env.Message)
}

func TestRegister_NilPublisher(t *testing.T) {
	h := newHandler(newFakeStorage(), nil)

	rec, env := post(h, `{"username":"tester","email":"a@b.cd","password":"longenough"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint16(0), env.Code)
}
