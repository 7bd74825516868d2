package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"reflect"
	"time"

	"github.com/phrazzld/usertask-api/internal/platform/logger"
	"github.com/phrazzld/usertask-api/internal/redact"
)

// Service caches structured values as JSON text on top of a Backend.
// It never returns an error: backend and serialization failures are logged
// and treated as a miss or a skipped write.
type Service struct {
	backend    Backend
	defaultTTL time.Duration
	logger     *slog.Logger
}

// NewService creates a Service. defaultTTL is used whenever Put is called
// with a non-positive TTL.
func NewService(backend Backend, defaultTTL time.Duration, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		backend:    backend,
		defaultTTL: defaultTTL,
		logger:     log.With("component", "cache_service"),
	}
}

// Backend returns the backend the service writes to.
func (s *Service) Backend() Backend {
	return s.backend
}

// Put serializes value to JSON and stores it under key for ttl, returning
// the serialized bytes. Nil values, including typed nil pointers, slices and
// maps, are ignored and yield nil. A failed backend write still returns the
// payload; a value that cannot be serialized yields nil.
func (s *Service) Put(ctx context.Context, key string, value any, ttl time.Duration) []byte {
	if isNil(value) {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	payload, err := json.Marshal(value)
	if err != nil {
		log.Error("failed to serialize cache value",
			"cache_key", key,
			"error", redact.Error(err))
		return nil
	}

	if err := s.backend.Set(ctx, key, payload, ttl); err != nil {
		log.Error("failed to store cache entry",
			"cache_key", key,
			"error", redact.Error(err))
	}
	return payload
}

// Get returns the JSON text stored under key, or "" when the key is
// absent, expired or unreadable.
func (s *Service) Get(ctx context.Context, key string) string {
	payload, found, err := s.backend.Get(ctx, key)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to read cache entry",
			"cache_key", key,
			"error", redact.Error(err))
		return ""
	}
	if !found {
		return ""
	}
	return string(payload)
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}
