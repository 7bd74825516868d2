package cache

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidTTL is returned by a Backend when asked to store an entry
// with a non-positive TTL.
var ErrInvalidTTL = errors.New("cache: ttl must be positive")

// Backend is a key-value store with per-entry expiry.
type Backend interface {
	// Get returns the bytes stored under key. A missing or expired key
	// yields found == false and a nil error.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores value under key, replacing any previous entry. The entry
	// expires after ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// DeletePrefix removes every entry whose key starts with prefix and
	// returns the number of entries removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)

	// Close releases the resources held by the backend.
	Close() error
}
