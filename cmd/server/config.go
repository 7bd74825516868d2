package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/usertask-api/internal/config"
)

// loadAppConfig loads the application configuration from environment variables or config file.
// Returns the loaded config and any loading error.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Log basic configuration details after successful loading
	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"cache_backend", cfg.Cache.Backend,
		"timezone", cfg.Tasks.Timezone)

	if cfg.Database.SeedFile != "" {
		slog.Debug("Seed configuration", "seed_file", cfg.Database.SeedFile)
	}

	return cfg, nil
}
