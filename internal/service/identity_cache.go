package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/vmelnyk/contacts-api/internal/core"
	"github.com/vmelnyk/contacts-api/internal/domain/model"
)

const identityKeyPrefix = "identity:"

// IdentityCacheOptions bundles dependencies for NewIdentityCache.
type IdentityCacheOptions struct {
	Cache     core.CacheRepository // Required: key-value store
	TTL       time.Duration        // Snapshot lifetime; defaults to 900s
	OpTimeout time.Duration        // Per-call bound; defaults to 250ms
	Logger    *slog.Logger         // Optional: structured logger
}

// IdentityCache maps a session principal to a denormalized identity
// snapshot with a bounded lifetime. It is purely an optimization layer:
// every fault, timeout, or undecodable entry degrades to a miss, so
// removing the cache changes latency and persistence load, never
// correctness.
type IdentityCache struct {
	cache     core.CacheRepository
	ttl       time.Duration
	opTimeout time.Duration
	logger    *slog.Logger
}

const (
	defaultSnapshotTTL    = 900 * time.Second
	defaultCacheOpTimeout = 250 * time.Millisecond
)

// NewIdentityCache constructs an IdentityCache.
func NewIdentityCache(opts IdentityCacheOptions) *IdentityCache {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}
	opTimeout := opts.OpTimeout
	if opTimeout <= 0 {
		opTimeout = defaultCacheOpTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentityCache{
		cache:     opts.Cache,
		ttl:       ttl,
		opTimeout: opTimeout,
		logger:    logger.With("component", "identity_cache"),
	}
}

// Get returns the cached snapshot for a username, or nil on a miss, a
// store fault, or an undecodable entry. Faults are observed in logs and
// never propagated; a degraded cache must not take the identity path
// down with it.
func (c *IdentityCache) Get(ctx context.Context, username string) *model.IdentitySnapshot {
	opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	raw, err := c.cache.Get(opCtx, identityKeyPrefix+username)
	if err != nil {
		c.logger.WarnContext(ctx, "identity cache read failed", "error", err)
		return nil
	}
	if raw == nil {
		return nil
	}

	var snapshot model.IdentitySnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		c.logger.WarnContext(ctx, "identity cache entry undecodable", "username", username, "error", err)
		return nil
	}
	if snapshot.ID == 0 {
		// An entry without an identifier cannot drive the id lookup.
		return nil
	}

	return &snapshot
}

// Put stores a fresh snapshot, best-effort. Write failures are logged
// and swallowed for the same availability reason as reads.
func (c *IdentityCache) Put(ctx context.Context, snapshot model.IdentitySnapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		c.logger.WarnContext(ctx, "identity snapshot marshal failed", "error", err)
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	key := identityKeyPrefix + snapshot.Username
	if err := c.cache.Set(opCtx, key, data, 0); err != nil {
		c.logger.WarnContext(ctx, "identity cache write failed", "username", snapshot.Username, "error", err)
		return
	}
	if _, err := c.cache.SetTTL(opCtx, key, c.ttl); err != nil {
		c.logger.WarnContext(ctx, "identity cache expire failed", "username", snapshot.Username, "error", err)
	}
}
