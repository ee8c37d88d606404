package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmelnyk/contacts-api/config"
	"github.com/vmelnyk/contacts-api/internal/auth"
	"github.com/vmelnyk/contacts-api/internal/data"
	"github.com/vmelnyk/contacts-api/internal/domain/model"
	"github.com/vmelnyk/contacts-api/internal/mocks"
)

// fakeCacheStore is an in-memory core.CacheRepository. Setting fail makes
// every operation error, simulating an unreachable store.
type fakeCacheStore struct {
	mu      sync.Mutex
	entries map[string][]byte
	fail    error
}

func newFakeCacheStore() *fakeCacheStore {
	return &fakeCacheStore{entries: make(map[string][]byte)}
}

func (f *fakeCacheStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.entries[key] = value
	return nil
}

func (f *fakeCacheStore) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	return f.entries[key], nil
}

func (f *fakeCacheStore) SetTTL(_ context.Context, key string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return false, f.fail
	}
	_, ok := f.entries[key]
	return ok, nil
}

func (f *fakeCacheStore) Health(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fail
}

func (f *fakeCacheStore) put(t *testing.T, username string, snapshot model.IdentitySnapshot) {
	t.Helper()
	raw, err := json.Marshal(snapshot)
	require.NoError(t, err)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[identityKeyPrefix+username] = raw
}

func (f *fakeCacheStore) snapshot(t *testing.T, username string) *model.IdentitySnapshot {
	t.Helper()
	f.mu.Lock()
	raw := f.entries[identityKeyPrefix+username]
	f.mu.Unlock()
	if raw == nil {
		return nil
	}
	var s model.IdentitySnapshot
	require.NoError(t, json.Unmarshal(raw, &s))
	return &s
}

func testTokenService() *auth.TokenService {
	return auth.NewTokenService(config.JWTConfig{
		Secret:            "test-secret",
		Algorithm:         config.JWTAlgorithmHS256,
		ExpirationSeconds: 3600,
	})
}

func newIdentityService(t *testing.T, store *fakeCacheStore) (*mocks.MockUserRepository, *IdentityService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	users := mocks.NewMockUserRepository(ctrl)
	svc := MustNewIdentityService(IdentityServiceOptions{
		Tokens: testTokenService(),
		Users:  users,
		Cache:  NewIdentityCache(IdentityCacheOptions{Cache: store}),
	})

	return users, svc
}

func sessionToken(t *testing.T, username string) string {
	t.Helper()
	token, err := testTokenService().IssueSessionToken(username, 0)
	require.NoError(t, err)
	return token
}

func testUser() *model.User {
	return &model.User{
		ID:        7,
		Username:  "alice",
		Email:     "alice@example.com",
		Confirmed: true,
	}
}

func TestIdentityService_Resolve_InvalidToken(t *testing.T) {
	t.Parallel()
	_, svc := newIdentityService(t, newFakeCacheStore())

	user, err := svc.Resolve(context.Background(), "not-a-token")
	require.ErrorIs(t, err, ErrCouldNotValidate)
	require.Nil(t, user)
}

func TestIdentityService_Resolve_MissPopulatesCache(t *testing.T) {
	t.Parallel()
	store := newFakeCacheStore()
	users, svc := newIdentityService(t, store)

	users.EXPECT().
		FindByUsername(gomock.Any(), "alice").
		Return(testUser(), nil)

	resolved, err := svc.Resolve(context.Background(), sessionToken(t, "alice"))
	require.NoError(t, err)
	require.Equal(t, int64(7), resolved.ID)

	cached := store.snapshot(t, "alice")
	require.NotNil(t, cached)
	require.Equal(t, int64(7), cached.ID)
	require.Equal(t, "alice@example.com", cached.Email)
}

func TestIdentityService_Resolve_HitUsesOnlyTheIDLookup(t *testing.T) {
	t.Parallel()
	store := newFakeCacheStore()
	store.put(t, "alice", model.IdentitySnapshot{ID: 7, Username: "alice"})
	users, svc := newIdentityService(t, store)

	// No FindByUsername expectation: a cache hit must resolve through
	// the id lookup alone.
	users.EXPECT().
		FindByID(gomock.Any(), int64(7)).
		Return(testUser(), nil)

	resolved, err := svc.Resolve(context.Background(), sessionToken(t, "alice"))
	require.NoError(t, err)
	require.Equal(t, "alice", resolved.Username)
}

func TestIdentityService_Resolve_HitReflectsCurrentRow(t *testing.T) {
	t.Parallel()
	store := newFakeCacheStore()
	store.put(t, "alice", model.IdentitySnapshot{ID: 7, Username: "alice"})
	users, svc := newIdentityService(t, store)

	// The row confirmed after the snapshot was cached. The resolved
	// user must carry the current flag, not the snapshot's view.
	current := testUser()
	current.Confirmed = true
	users.EXPECT().
		FindByID(gomock.Any(), int64(7)).
		Return(current, nil)

	resolved, err := svc.Resolve(context.Background(), sessionToken(t, "alice"))
	require.NoError(t, err)
	require.True(t, resolved.Confirmed)
}

func TestIdentityService_Resolve_StaleSnapshotFallsBack(t *testing.T) {
	t.Parallel()
	store := newFakeCacheStore()
	store.put(t, "alice", model.IdentitySnapshot{ID: 404, Username: "alice"})
	users, svc := newIdentityService(t, store)

	users.EXPECT().
		FindByID(gomock.Any(), int64(404)).
		Return(nil, data.ErrUserNotFound)
	users.EXPECT().
		FindByUsername(gomock.Any(), "alice").
		Return(testUser(), nil)

	resolved, err := svc.Resolve(context.Background(), sessionToken(t, "alice"))
	require.NoError(t, err)
	require.Equal(t, int64(7), resolved.ID)

	// The stale entry is replaced by a fresh snapshot.
	cached := store.snapshot(t, "alice")
	require.NotNil(t, cached)
	require.Equal(t, int64(7), cached.ID)
}

func TestIdentityService_Resolve_CacheDownStillResolves(t *testing.T) {
	t.Parallel()
	store := newFakeCacheStore()
	store.fail = errors.New("connection refused")
	users, svc := newIdentityService(t, store)

	users.EXPECT().
		FindByUsername(gomock.Any(), "alice").
		Return(testUser(), nil)

	resolved, err := svc.Resolve(context.Background(), sessionToken(t, "alice"))
	require.NoError(t, err)
	require.Equal(t, int64(7), resolved.ID)
}

func TestIdentityService_Resolve_UnknownSubject(t *testing.T) {
	t.Parallel()
	users, svc := newIdentityService(t, newFakeCacheStore())

	users.EXPECT().
		FindByUsername(gomock.Any(), "ghost").
		Return(nil, data.ErrUserNotFound)

	user, err := svc.Resolve(context.Background(), sessionToken(t, "ghost"))
	require.ErrorIs(t, err, ErrCouldNotValidate)
	require.Nil(t, user)
}

func TestIdentityService_Resolve_PersistenceFaultPropagates(t *testing.T) {
	t.Parallel()
	store := newFakeCacheStore()
	store.put(t, "alice", model.IdentitySnapshot{ID: 7, Username: "alice"})
	users, svc := newIdentityService(t, store)

	dbErr := errors.New("connection reset by peer")
	users.EXPECT().
		FindByID(gomock.Any(), int64(7)).
		Return(nil, dbErr)

	user, err := svc.Resolve(context.Background(), sessionToken(t, "alice"))
	require.ErrorIs(t, err, dbErr)
	require.NotErrorIs(t, err, ErrCouldNotValidate)
	require.Nil(t, user)
}
