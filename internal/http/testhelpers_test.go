package httpx

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmelnyk/contacts-api/config"
	"github.com/vmelnyk/contacts-api/internal/auth"
	"github.com/vmelnyk/contacts-api/internal/domain/model"
	"github.com/vmelnyk/contacts-api/internal/mocks"
	"github.com/vmelnyk/contacts-api/internal/service"
)

// testEnv bundles the mocks behind a fully wired router.
type testEnv struct {
	Users    *mocks.MockUserRepository
	Contacts *mocks.MockContactRepository
	Tokens   *auth.TokenService
	Handler  http.Handler
}

// memoryCacheStore is a map-backed core.CacheRepository for router tests.
type memoryCacheStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func (m *memoryCacheStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *memoryCacheStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[key], nil
}

func (m *memoryCacheStore) SetTTL(_ context.Context, key string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok, nil
}

func (m *memoryCacheStore) Health(_ context.Context) error { return nil }

type nopAvatarStore struct{}

func (nopAvatarStore) Upload(_ context.Context, body io.Reader, publicID string) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	return "https://img.example.com/" + publicID, nil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	users := mocks.NewMockUserRepository(ctrl)
	contacts := mocks.NewMockContactRepository(ctrl)
	tokens := auth.NewTokenService(config.JWTConfig{
		Secret:            "test-secret",
		Algorithm:         config.JWTAlgorithmHS256,
		ExpirationSeconds: 3600,
	})

	identity := service.MustNewIdentityService(service.IdentityServiceOptions{
		Tokens: tokens,
		Users:  users,
		Cache: service.NewIdentityCache(service.IdentityCacheOptions{
			Cache: &memoryCacheStore{entries: make(map[string][]byte)},
		}),
	})

	handler := NewRouter(RouterServices{
		Auth: service.MustNewAuthService(service.AuthServiceOptions{
			Users:   users,
			Tokens:  tokens,
			BaseURL: "http://localhost:8080",
		}),
		Users: service.MustNewUserService(service.UserServiceOptions{
			Users:   users,
			Avatars: nopAvatarStore{},
		}),
		Contacts: service.MustNewContactService(service.ContactServiceOptions{Repo: contacts}),
		Identity: identity,
	})

	return &testEnv{Users: users, Contacts: contacts, Tokens: tokens, Handler: handler}
}

// authedUser is the account behind authorize. Resolution goes through an
// empty cache, so tests expect one FindByUsername per first request.
func authedUser() *model.User {
	return &model.User{
		ID:        7,
		Username:  "alice",
		Email:     "alice@example.com",
		Confirmed: true,
	}
}

// authorize adds a valid bearer token and the matching lookup
// expectation for a single request.
func (e *testEnv) authorize(t *testing.T, r *http.Request) {
	t.Helper()
	token, err := e.Tokens.IssueSessionToken("alice", 0)
	require.NoError(t, err)
	r.Header.Set("Authorization", "Bearer "+token)
	e.Users.EXPECT().
		FindByUsername(gomock.Any(), "alice").
		Return(authedUser(), nil)
}

func (e *testEnv) do(r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.Handler.ServeHTTP(w, r)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func detailOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[map[string]string](t, w)["detail"]
}
