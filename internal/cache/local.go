package cache

import (
	"context"
	"strings"
	"time"

	"github.com/viccon/sturdyc"
)

// LocalConfig sizes a LocalBackend.
type LocalConfig struct {
	// Capacity is the maximum number of entries held across all shards.
	Capacity int
	// NumShards splits the cache to reduce lock contention.
	NumShards int
	// MaxTTL caps the lifetime of any entry.
	MaxTTL time.Duration
	// EvictionPercentage is the share of a full shard evicted to make room.
	EvictionPercentage int
}

// DefaultLocalConfig returns the configuration used when none is supplied.
func DefaultLocalConfig() LocalConfig {
	return LocalConfig{
		Capacity:           10000,
		NumShards:          256,
		MaxTTL:             time.Hour,
		EvictionPercentage: 10,
	}
}

// Validate checks if the configuration values are valid.
func (c LocalConfig) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.MaxTTL <= 0 {
		return &ConfigError{Field: "MaxTTL", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "cache config error in field " + e.Field + ": " + e.Message
}

// localEntry carries its own deadline because sturdyc applies a single TTL
// to the whole client.
type localEntry struct {
	value     []byte
	expiresAt time.Time
}

// LocalBackend is an in-process Backend built on a sturdyc client.
// It is safe for concurrent use.
type LocalBackend struct {
	client *sturdyc.Client[localEntry]
	maxTTL time.Duration
	now    func() time.Time
}

var _ Backend = (*LocalBackend)(nil)

// NewLocalBackend creates a LocalBackend. Entries live for the TTL given to
// Set, capped at cfg.MaxTTL.
func NewLocalBackend(cfg LocalConfig) (*LocalBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[localEntry](
		cfg.Capacity,
		cfg.NumShards,
		cfg.MaxTTL,
		cfg.EvictionPercentage,
	)

	return &LocalBackend{client: client, maxTTL: cfg.MaxTTL, now: time.Now}, nil
}

// Get implements Backend.
func (b *LocalBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	entry, ok := b.client.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !b.now().Before(entry.expiresAt) {
		b.client.Delete(key)
		return nil, false, nil
	}
	return append([]byte(nil), entry.value...), true, nil
}

// Set implements Backend.
func (b *LocalBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	if ttl > b.maxTTL {
		ttl = b.maxTTL
	}
	b.client.Set(key, localEntry{
		value:     append([]byte(nil), value...),
		expiresAt: b.now().Add(ttl),
	})
	return nil
}

// DeletePrefix implements Backend.
func (b *LocalBackend) DeletePrefix(_ context.Context, prefix string) (int, error) {
	removed := 0
	for _, key := range b.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			b.client.Delete(key)
			removed++
		}
	}
	return removed, nil
}

// Close implements Backend. The sturdyc client holds no external resources.
func (b *LocalBackend) Close() error {
	return nil
}
