package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/lifesim-bank/internal/banking"
	"github.com/lifesim-bank/internal/insights"
)

// InsightsHandler handles HTTP requests for projections and due cards
type InsightsHandler struct {
	bootstrap banking.BootstrapService
	settings  banking.SettingsService
	insights  insights.Service
	logger    *slog.Logger
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(logger *slog.Logger, bootstrap banking.BootstrapService, settings banking.SettingsService, insightsSvc insights.Service) *InsightsHandler {
	return &InsightsHandler{
		bootstrap: bootstrap,
		settings:  settings,
		insights:  insightsSvc,
		logger:    logger,
	}
}

// Get returns balance histories, interest projections, and minimum
// balance due cards for every open deposit account
func (h *InsightsHandler) Get(c *gin.Context) {
	if !ensureDefaults(c, h.bootstrap, h.logger) {
		return
	}

	settings, err := h.settings.Current(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load settings", "error", err)
		respondServiceError(c, err)
		return
	}

	overview, err := h.insights.AccountProjections(c.Request.Context(), settings)
	if err != nil {
		h.logger.Error("Failed to build projections", "error", err)
		respondServiceError(c, err)
		return
	}

	cards, err := h.insights.DueCards(c.Request.Context(), settings)
	if err != nil {
		h.logger.Error("Failed to build due cards", "error", err)
		respondServiceError(c, err)
		return
	}

	RespondOK(c, mapInsightsToResponse(overview, cards))
}
