package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/usertask-api/internal/api"
	"github.com/phrazzld/usertask-api/internal/cache"
	"github.com/phrazzld/usertask-api/internal/config"
	"github.com/phrazzld/usertask-api/internal/events"
	"github.com/phrazzld/usertask-api/internal/platform/postgres"
	"github.com/phrazzld/usertask-api/internal/redact"
	"github.com/phrazzld/usertask-api/internal/seed"
	"github.com/phrazzld/usertask-api/internal/service"
	"github.com/phrazzld/usertask-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore store.UserStore
	taskStore store.TaskStore

	cacheBackend cache.Backend
	cacheService *cache.Service

	taskService  service.TaskService
	eventEmitter *events.InMemoryEventEmitter
}

// newApplication creates a new application instance backed by PostgreSQL.
// It accepts core dependencies like configuration, logger, and database
// connection that must be established before application initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	backend, err := setupCacheBackend(ctx, cfg.Cache, logger)
	if err != nil {
		return nil, err
	}

	app := &application{
		config:       cfg,
		logger:       logger,
		db:           db,
		userStore:    postgres.NewPostgresUserStore(db, logger),
		taskStore:    postgres.NewPostgresTaskStore(db, logger),
		cacheBackend: backend,
	}

	if err := app.initServices(); err != nil {
		_ = backend.Close()
		return nil, err
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// initServices builds the services on top of the stores and cache backend.
func (app *application) initServices() error {
	app.cacheService = cache.NewService(app.cacheBackend, app.config.Cache.DefaultTTL, app.logger)
	app.eventEmitter = events.NewInMemoryEventEmitter(app.logger)

	if app.config.Cache.InvalidateOnWrite {
		app.eventEmitter.RegisterHandler(
			cache.NewInvalidator(app.cacheBackend, app.logger, api.TaskRoutePrefix),
			events.TypeTaskChanged)
	}

	taskService, err := service.NewTaskService(
		app.taskStore,
		app.eventEmitter,
		app.logger,
		service.WithLocation(app.config.Tasks.Location()),
	)
	if err != nil {
		return fmt.Errorf("failed to create task service: %w", err)
	}
	app.taskService = taskService

	return nil
}

// seed loads the configured seed file. Failures are logged and do not stop
// the server.
func (app *application) seed(ctx context.Context) {
	path := app.config.Database.SeedFile
	if path == "" {
		return
	}

	users, err := seed.LoadFile(path)
	if err != nil {
		app.logger.Error("Failed to load seed data", "error", redact.Error(err))
		return
	}

	apply := func(ctx context.Context, us store.UserStore, ts store.TaskStore) error {
		_, err := seed.Apply(ctx, us, ts, users)
		return err
	}

	if app.db != nil {
		err = store.RunInTransaction(ctx, app.db, func(ctx context.Context, tx *sql.Tx) error {
			return apply(ctx, app.userStore.WithTx(tx), app.taskStore.WithTx(tx))
		})
	} else {
		err = apply(ctx, app.userStore, app.taskStore)
	}
	if err != nil {
		app.logger.Error("Failed to seed database", "error", redact.Error(err))
	}
}

// Run serves HTTP until ctx is canceled, then releases the application's
// resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.cacheBackend != nil {
		if err := app.cacheBackend.Close(); err != nil {
			app.logger.Error("Error closing cache backend", "error", redact.Error(err))
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", redact.Error(err))
		}
	}

	app.logger.Info("Application shutdown completed")
}
