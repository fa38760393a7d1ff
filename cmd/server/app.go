package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/faqgen-api/internal/config"
	"github.com/phrazzld/faqgen-api/internal/platform/gemini"
	"github.com/phrazzld/faqgen-api/internal/platform/postgres"
	"github.com/phrazzld/faqgen-api/internal/service"
	"github.com/phrazzld/faqgen-api/internal/service/auth"
	"github.com/phrazzld/faqgen-api/internal/store"
	"github.com/phrazzld/faqgen-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	shopStore         store.ShopStore
	productStore      store.ProductStore
	faqStore          store.FAQStore
	subscriptionStore store.SubscriptionStore
	jobStore          store.JobStore
	activityLogStore  store.ActivityLogStore

	// Service interfaces
	jwtService         auth.JWTService
	passwordVerifier   auth.PasswordVerifier
	entitlementService service.EntitlementService
	faqService         service.FAQService
	bulkService        service.BulkService

	// Background job handling
	runner *task.Runner
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger,
// and database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.shopStore = postgres.NewPostgresShopStore(db, logger)
	app.productStore = postgres.NewPostgresProductStore(db, logger)
	app.faqStore = postgres.NewPostgresFAQStore(db, logger)
	app.subscriptionStore = postgres.NewPostgresSubscriptionStore(db, logger)
	app.jobStore = postgres.NewPostgresJobStore(db, logger)
	app.activityLogStore = postgres.NewPostgresActivityLogStore(db, logger)

	generator, err := gemini.NewGeminiFAQGenerator(
		ctx,
		logger.With("component", "faq_generator"),
		cfg.LLM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize FAQ generator: %w", err)
	}
	logger.Info("FAQ generator initialized", "model", cfg.LLM.ModelName)

	app.entitlementService, err = service.NewEntitlementService(
		app.subscriptionStore,
		cfg.Bulk.DefaultMaxQuestions,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create entitlement service: %w", err)
	}

	app.faqService, err = service.NewFAQService(generator, app.faqStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create FAQ service: %w", err)
	}

	executor, err := task.NewBulkGenerationJob(
		app.jobStore,
		app.productStore,
		app.activityLogStore,
		app.faqService,
		app.entitlementService,
		time.Duration(cfg.Bulk.ItemDelayMs)*time.Millisecond,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bulk job executor: %w", err)
	}

	app.runner = task.NewRunner(app.jobStore, executor, task.RunnerConfig{
		WorkerCount: cfg.Bulk.WorkerCount,
		QueueSize:   cfg.Bulk.QueueSize,
	}, logger)
	if err := app.runner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start job runner: %w", err)
	}

	app.bulkService, err = service.NewBulkService(
		app.jobStore,
		app.productStore,
		app.activityLogStore,
		app.entitlementService,
		app.runner,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bulk service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources. The runner
// stops first so that in-flight jobs record their interruption while the
// database connection is still alive.
func (app *application) cleanup() {
	if app.runner != nil {
		app.runner.Stop()
	}

	app.logger.Info("application shutdown completed")
}
