// Package cache provides a TTL key-value cache over a persistent backing
// store. Expiry is lazy: entries are checked on read, never swept. Stale rows
// stay in the backing table until overwritten, which is acceptable because
// the table is bounded by key cardinality, not time.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ahmedayman96/solana-nansen-bot/internal/ports"
)

// Cache wraps a CacheStore with TTL semantics. Backing-store errors are
// degraded to a miss so callers never block on cache I/O.
type Cache struct {
	store ports.CacheStore
	now   func() time.Time
}

// New creates a Cache over the given backing store.
func New(store ports.CacheStore) *Cache {
	return &Cache{store: store, now: time.Now}
}

// NewWithClock creates a Cache with an injected clock, for tests.
func NewWithClock(store ports.CacheStore, now func() time.Time) *Cache {
	return &Cache{store: store, now: now}
}

// Get unmarshals the cached value for key into out and reports whether a
// live entry existed. Expired and unseen keys are indistinguishable to the
// caller, both return false.
func (c *Cache) Get(ctx context.Context, key string, out any) bool {
	raw, expiry, ok, err := c.store.Get(ctx, key)
	if err != nil {
		slog.Warn("cache: read failed, treating as miss", "key", key, "err", err)
		return false
	}
	if !ok || !c.now().Before(expiry) {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		slog.Warn("cache: corrupt entry, treating as miss", "key", key, "err", err)
		return false
	}
	return true
}

// Set stores value under key for ttl. Any existing entry is overwritten.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		slog.Warn("cache: marshal failed, skipping write", "key", key, "err", err)
		return
	}
	if err := c.store.Set(ctx, key, raw, c.now().Add(ttl)); err != nil {
		slog.Warn("cache: write failed", "key", key, "err", err)
	}
}
