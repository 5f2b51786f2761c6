package ports

import (
	"context"
	"time"
)

// CacheStore is the backing key-value table for the TTL cache.
// Values are opaque serialized payloads. Set overwrites unconditionally.
type CacheStore interface {
	// Get returns the stored value and its expiry. ok is false when the key
	// has never been written. Expiry enforcement is the caller's job.
	Get(ctx context.Context, key string) (value []byte, expiry time.Time, ok bool, err error)

	Set(ctx context.Context, key string, value []byte, expiry time.Time) error
}
