package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/lifesim-bank/internal/banking"
	"github.com/lifesim-bank/pkg/money"
)

// LifecycleHandler handles HTTP requests for opening and closing accounts
type LifecycleHandler struct {
	bootstrap banking.BootstrapService
	lifecycle banking.LifecycleService
	logger    *slog.Logger
}

// NewLifecycleHandler creates a new lifecycle handler
func NewLifecycleHandler(logger *slog.Logger, bootstrap banking.BootstrapService, lifecycle banking.LifecycleService) *LifecycleHandler {
	return &LifecycleHandler{
		bootstrap: bootstrap,
		lifecycle: lifecycle,
		logger:    logger,
	}
}

// OpenAccounts opens one or more deposit accounts funded from cash
func (h *LifecycleHandler) OpenAccounts(c *gin.Context) {
	var req OpenAccountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	requests := make(map[string]decimal.Decimal, len(req.Accounts))
	for slug, selection := range req.Accounts {
		deposit, err := money.Parse(selection.Deposit.String())
		if err != nil {
			h.logger.Warn("Unparseable opening deposit", "account", slug, "raw", selection.Deposit.String(), "error", err)
			RespondBadRequest(c, "Enter a valid opening deposit.")
			return
		}
		requests[slug] = deposit
	}

	if !ensureDefaults(c, h.bootstrap, h.logger) {
		return
	}

	message, err := h.lifecycle.OpenAccounts(c.Request.Context(), requests)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	RespondOK(c, MessageResponse{Message: message})
}

// CloseAccounts closes the targeted accounts and sweeps their balances to cash
func (h *LifecycleHandler) CloseAccounts(c *gin.Context) {
	var req CloseAccountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if !ensureDefaults(c, h.bootstrap, h.logger) {
		return
	}

	message, err := h.lifecycle.CloseAccounts(c.Request.Context(), req.Target)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	RespondOK(c, MessageResponse{Message: message})
}
