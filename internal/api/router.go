package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lifesim-bank/internal/api/handler"
	"github.com/lifesim-bank/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	bankHandler *handler.BankHandler,
	lifecycleHandler *handler.LifecycleHandler,
	settingsHandler *handler.SettingsHandler,
	insightsHandler *handler.InsightsHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		bank := v1.Group("/bank")
		{
			bank.GET("/state", bankHandler.State)
			bank.GET("/transactions", bankHandler.Transactions)

			// Money movement
			bank.POST("/transfer", bankHandler.Transfer)
			bank.POST("/deposit", bankHandler.Deposit)
			bank.POST("/withdraw", bankHandler.Withdraw)

			// Account lifecycle
			bank.POST("/accounts/open", lifecycleHandler.OpenAccounts)
			bank.POST("/accounts/close", lifecycleHandler.CloseAccounts)

			// Policy
			bank.GET("/settings", settingsHandler.Get)
			bank.PUT("/settings", settingsHandler.Update)

			// Projections and due cards
			bank.GET("/insights", insightsHandler.Get)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
