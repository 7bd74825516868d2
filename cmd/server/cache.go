package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/usertask-api/internal/cache"
	"github.com/phrazzld/usertask-api/internal/config"
	"github.com/phrazzld/usertask-api/internal/redact"
)

// setupCacheBackend creates the cache backend selected by cfg.Backend.
func setupCacheBackend(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (cache.Backend, error) {
	switch cfg.Backend {
	case "redis":
		backend, err := cache.NewRedisBackend(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %s", redact.Error(err))
		}
		logger.Info("Redis cache backend initialized")
		return backend, nil

	case "memory":
		backend, err := cache.NewLocalBackend(cache.LocalConfig{
			Capacity:           cfg.Local.Capacity,
			NumShards:          cfg.Local.NumShards,
			MaxTTL:             cfg.Local.MaxTTL,
			EvictionPercentage: cfg.Local.EvictionPercentage,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create local cache: %w", err)
		}
		logger.Info("In-process cache backend initialized",
			"capacity", cfg.Local.Capacity,
			"max_ttl", cfg.Local.MaxTTL)
		return backend, nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
