// Package main implements the entry point for the FAQ generation API
// server, which authenticates shops and runs bulk FAQ generation jobs
// against their product catalogs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/phrazzld/faqgen-api/internal/config"
	"github.com/phrazzld/faqgen-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command (up|down|status) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// run carries the real main logic so that every exit path releases
// resources through defers before the process terminates.
func run(migrateCmd string) error {
	// Load .env if present; real deployments set environment variables
	// directly and have no .env file.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("error closing database connection", "error", err)
		}
	}()

	ctx := context.Background()

	// An explicit migration command runs and exits without starting the
	// server. Normal startup applies pending migrations itself.
	if migrateCmd != "" {
		return runMigrations(ctx, db, migrateCmd)
	}
	if err := runMigrations(ctx, db, "up"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
