package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/ledger/internal/dashboard/controller"
	httpapi "github.com/aussiebroadwan/ledger/internal/dashboard/http"
	"github.com/aussiebroadwan/ledger/internal/dashboard/service"
	"github.com/aussiebroadwan/ledger/internal/dashboard/store"
	"github.com/aussiebroadwan/ledger/internal/dashboard/store/drivers/postgres"
	"github.com/aussiebroadwan/ledger/internal/dashboard/store/drivers/sqlite"
	"github.com/aussiebroadwan/ledger/internal/dashboard/view"
	"github.com/aussiebroadwan/ledger/pkg/metricsx"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the dashboard service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	identity *Identity
	metrics  *metricsx.Metrics

	// Services
	clientService *service.ClientService
	taskService   *service.TaskService
	pages         *controller.Registry
	sweeper       *controller.Sweeper

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "ledger-dashboard",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metricsx.New(),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	identity, err := InitIdentity(context.Background(), app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize identity: %w", err)
	}
	app.identity = identity

	app.initServices()
	if err := app.initHTTP(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.sweeper.Start()
	if app.identity.Fetcher != nil {
		app.identity.Fetcher.Start()
	}

	app.logger.Info("dashboard starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store", app.cfg.StoreDriver,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down dashboard...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.sweeper.Stop()
	if app.identity.Fetcher != nil {
		app.identity.Fetcher.Stop()
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("dashboard stopped")
	return nil
}

// initDatabase opens the configured store driver and applies migrations
func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.StoreDriver {
	case "sqlite":
		host := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
		db, err = sqlite.NewStore(host)
	case "postgres":
		if app.cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
		db, err = postgres.NewStore(app.cfg.DatabaseURL,
			postgres.WithMaxConns(app.cfg.PGMaxConns),
			postgres.WithMinConns(app.cfg.PGMinConns),
			postgres.WithConnectTimeout(app.cfg.PGConnectTimeout),
			postgres.WithLogger(app.logger),
			postgres.WithLogQueries(app.cfg.LogLevel == "debug"),
		)
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", app.cfg.StoreDriver)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.StoreDriver)
	return nil
}

// initServices initializes the services and page sessions
func (app *Application) initServices() {
	app.clientService = &service.ClientService{
		Store:   app.db,
		Metrics: app.metrics,
	}
	app.taskService = &service.TaskService{Store: app.db}

	app.pages = &controller.Registry{
		Clients:        app.clientService,
		Tasks:          app.taskService,
		OnboardingBase: app.cfg.OnboardingBaseURL,
		Metrics:        app.metrics,
	}
	app.sweeper = controller.NewSweeper(
		app.pages,
		app.logger,
		app.cfg.SessionSweepInterval,
		app.cfg.SessionIdleTimeout,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	renderer, err := view.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	router := httpapi.NewRouter(
		app.identity.Keys,
		app.identity.Verifier,
		BuildVersion,
		app.db,
		app.metrics,
		app.logger,
	)

	router.ClientService = app.clientService
	router.TaskService = app.taskService
	router.Pages = app.pages
	router.Renderer = renderer
	router.OnboardingBase = app.cfg.OnboardingBaseURL
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
