package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasklist/internal/api"
	"github.com/phrazzld/tasklist/internal/config"
	"github.com/phrazzld/tasklist/internal/platform/memory"
	"github.com/phrazzld/tasklist/internal/platform/migrations"
	"github.com/phrazzld/tasklist/internal/platform/postgres"
	"github.com/phrazzld/tasklist/internal/service"
	"github.com/phrazzld/tasklist/internal/service/auth"
	"github.com/phrazzld/tasklist/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil for the memory driver.
	db *sql.DB

	userStore store.UserStore
	taskStore store.TaskStore
	pinger    store.Pinger

	sessionStore auth.SessionStore
	sessions     *auth.SessionManager

	userService service.UserService
	taskService service.TaskService

	renderer *api.Renderer
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	if err := app.setupStores(ctx); err != nil {
		return nil, err
	}

	var err error
	app.sessionStore = auth.NewMemorySessionStore()
	app.sessions, err = auth.NewSessionManager(cfg.Auth, app.sessionStore, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to initialize session manager: %w", err)
	}
	logger.Info("session manager initialized",
		"session_lifetime_minutes", cfg.Auth.SessionLifetimeMinutes)

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	app.userService, err = service.NewUserService(app.userStore, hasher, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to initialize user service: %w", err)
	}

	app.taskService, err = service.NewTaskService(app.taskStore, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to initialize task service: %w", err)
	}

	app.renderer, err = api.NewRenderer(logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return app, nil
}

// setupStores connects the configured storage backend.
func (app *application) setupStores(ctx context.Context) error {
	switch app.config.Database.Driver {
	case config.DriverPostgres:
		db, err := setupAppDatabase(ctx, app.config, app.logger)
		if err != nil {
			return err
		}
		app.db = db

		if app.config.Database.AutoMigrate {
			if err := migrations.Run(ctx, db, "up", app.logger); err != nil {
				app.cleanup()
				return fmt.Errorf("failed to apply migrations: %w", err)
			}
		}

		taskStore := postgres.NewPostgresTaskStore(db, app.logger)
		app.userStore = postgres.NewPostgresUserStore(db, app.logger)
		app.taskStore = taskStore
		app.pinger = taskStore

	case config.DriverMemory:
		app.logger.Warn("using in-memory storage, data is lost on restart")
		userStore := memory.NewUserStore(app.logger)
		taskStore := memory.NewTaskStore(userStore, app.logger)
		app.userStore = userStore
		app.taskStore = taskStore
		app.pinger = taskStore

	default:
		return fmt.Errorf("unsupported database driver %q", app.config.Database.Driver)
	}

	return nil
}

// cleanup releases the session table and the database pool.
func (app *application) cleanup() {
	if app.sessionStore != nil {
		if err := app.sessionStore.Close(); err != nil {
			app.logger.Error("failed to close session store", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
		app.db = nil
	}
}
