package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/usertask-api/internal/platform/postgres"
)

// runMigrations executes a goose migration command against db.
func runMigrations(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	switch command {
	case "up":
		if err := postgres.Migrate(ctx, db, logger); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	case "status":
		if err := postgres.MigrationStatus(ctx, db, logger); err != nil {
			return fmt.Errorf("migration status failed: %w", err)
		}
	case "version":
		version, err := postgres.MigrationVersion(ctx, db, logger)
		if err != nil {
			return fmt.Errorf("migration version failed: %w", err)
		}
		logger.Info("Current migration version", slog.Int64("version", version))
	default:
		return fmt.Errorf("unknown migration command %q: want up, status or version", command)
	}

	return nil
}
