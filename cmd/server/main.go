package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lifesim-bank/internal/api"
	"github.com/lifesim-bank/internal/audit"
	"github.com/lifesim-bank/internal/banking"
	"github.com/lifesim-bank/internal/config"
	"github.com/lifesim-bank/internal/data/mongo"
	"github.com/lifesim-bank/internal/data/postgres"
	"github.com/lifesim-bank/internal/insights"
	"github.com/lifesim-bank/internal/localize"
	"github.com/lifesim-bank/internal/logger"
	"github.com/lifesim-bank/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("server")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting bank server",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	if err := persistence.RunMigrations(cfg.Postgres.URL, cfg.Postgres.MigrationsPath); err != nil {
		log.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	ledgerRepo := postgres.NewLedgerRepository(log, postgresDB)
	settingsRepo := postgres.NewSettingsRepository(log, postgresDB)
	auditStore := mongo.NewAuditRepository(log, mongoDB.Database())

	// Initialize supporting components
	recorder := audit.NewRecorder(log, auditStore, cfg.Application.Env, cfg.Audit.Retention)
	localizer := localize.New(log, cfg.Display.Timezone)

	// Initialize services
	bootstrapService := banking.NewBootstrapService(log, postgresDB, accountRepo, settingsRepo)
	transferService := banking.NewTransferService(log, postgresDB, accountRepo, ledgerRepo, recorder)
	lifecycleService := banking.NewLifecycleService(log, postgresDB, accountRepo, ledgerRepo, settingsRepo, recorder)
	settingsService := banking.NewSettingsService(log, postgresDB, settingsRepo, recorder)
	ledgerService := banking.NewLedgerService(log, accountRepo, ledgerRepo, settingsRepo)
	insightsService := insights.NewService(log, accountRepo, ledgerRepo, localizer)

	// Initialize REST server
	server := api.NewServer(log, cfg, api.Services{
		Bootstrap: bootstrapService,
		Ledger:    ledgerService,
		Transfers: transferService,
		Lifecycle: lifecycleService,
		Settings:  settingsService,
		Insights:  insightsService,
		Localizer: localizer,
	})
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Close MongoDB connection
	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("Bank server shutdown with errors", "error", serverErr)
		os.Exit(1)
	}
	log.Info("Bank server shutdown completed successfully")
}
