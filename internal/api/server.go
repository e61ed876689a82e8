package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lifesim-bank/internal/api/handler"
	"github.com/lifesim-bank/internal/banking"
	"github.com/lifesim-bank/internal/config"
	"github.com/lifesim-bank/internal/insights"
	"github.com/lifesim-bank/internal/localize"
)

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger // For structured logging
	httpServer *http.Server // Underlying HTTP server
	httpRouter *gin.Engine  // Gin router instance
}

// Services bundles everything the HTTP layer exposes.
type Services struct {
	Bootstrap banking.BootstrapService
	Ledger    banking.LedgerService
	Transfers banking.TransferService
	Lifecycle banking.LifecycleService
	Settings  banking.SettingsService
	Insights  insights.Service
	Localizer *localize.Localizer
}

// NewServer creates and configures a new HTTP server with the given services
func NewServer(log *slog.Logger, cfg *config.Config, services Services) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	bankHandler := handler.NewBankHandler(log, services.Bootstrap, services.Ledger, services.Transfers, services.Localizer)
	lifecycleHandler := handler.NewLifecycleHandler(log, services.Bootstrap, services.Lifecycle)
	settingsHandler := handler.NewSettingsHandler(log, services.Bootstrap, services.Settings)
	insightsHandler := handler.NewInsightsHandler(log, services.Bootstrap, services.Settings, services.Insights)

	setupRouter(log, httpRouter, bankHandler, lifecycleHandler, settingsHandler, insightsHandler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server with a timeout
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.httpServer.WriteTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}

	return nil
}
