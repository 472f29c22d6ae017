// Package main implements the entry point for the task list web server.
//
// Usage:
//
//	server                 start the HTTP server
//	server -migrate up     apply pending migrations and exit
//	server -migrate status show migration status and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/phrazzld/tasklist/internal/config"
	"github.com/phrazzld/tasklist/internal/platform/logger"
	"github.com/phrazzld/tasklist/internal/platform/migrations"
	"github.com/phrazzld/tasklist/internal/redact"
)

// ErrMigrationsNeedPostgres is returned when -migrate is used with the
// memory driver.
var ErrMigrationsNeedPostgres = errors.New("migrations require database.driver=postgres")

func main() {
	migrateCmd := flag.String("migrate", "",
		fmt.Sprintf("run a migration command (%s) and exit", strings.Join(migrations.Commands, ", ")))
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *migrateCmd); err != nil {
		slog.Error("server exited with error", "error", redact.Error(err))
		stop()
		os.Exit(1)
	}
}

// run loads configuration and either executes a migration command or
// serves HTTP until ctx is cancelled.
func run(ctx context.Context, migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	redact.SetSessionCookieName(cfg.Auth.CookieName)

	log.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"environment", cfg.Server.Environment,
		"database_driver", cfg.Database.Driver)

	if cfg.Auth.UsingInsecureDefault {
		log.Warn("SESSION SECRET NOT SET: using the built-in development secret, sessions are forgeable",
			"env_var", "TASKLIST_AUTH_SESSION_SECRET")
	}

	if migrateCmd != "" {
		return runMigrations(ctx, cfg, log, migrateCmd)
	}

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	return app.startHTTPServer(ctx, app.setupRouter())
}

// runMigrations opens the database and executes a single goose command.
func runMigrations(ctx context.Context, cfg *config.Config, log *slog.Logger, command string) error {
	if cfg.Database.Driver != config.DriverPostgres {
		return ErrMigrationsNeedPostgres
	}

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("failed to close database", "error", closeErr)
		}
	}()

	return migrations.Run(ctx, db, command, log)
}

// setupAppLogger configures and initializes the application logger based on config settings.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return l, nil
}
