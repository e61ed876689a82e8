package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/lifesim-bank/internal/banking"
	"github.com/lifesim-bank/pkg/money"
)

// SettingsHandler handles HTTP requests for the bank policy
type SettingsHandler struct {
	bootstrap banking.BootstrapService
	settings  banking.SettingsService
	logger    *slog.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(logger *slog.Logger, bootstrap banking.BootstrapService, settings banking.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		bootstrap: bootstrap,
		settings:  settings,
		logger:    logger,
	}
}

// Get returns the current bank policy
func (h *SettingsHandler) Get(c *gin.Context) {
	if !ensureDefaults(c, h.bootstrap, h.logger) {
		return
	}

	settings, err := h.settings.Current(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load settings", "error", err)
		respondServiceError(c, err)
		return
	}

	RespondOK(c, mapSettingsToResponse(settings))
}

// Update replaces the editable policy fields, all or nothing
func (h *SettingsHandler) Update(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	update, err := mapSettingsUpdate(req)
	if err != nil {
		h.logger.Warn("Unparseable settings value", "error", err)
		RespondBadRequest(c, "Enter valid numeric values for every policy field.")
		return
	}

	if !ensureDefaults(c, h.bootstrap, h.logger) {
		return
	}

	settings, err := h.settings.Update(c.Request.Context(), update)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	RespondOK(c, mapSettingsToResponse(settings))
}

// mapSettingsUpdate parses every numeric field of the request. The rate
// keeps three decimals, everything else is money.
func mapSettingsUpdate(req UpdateSettingsRequest) (banking.SettingsUpdate, error) {
	update := banking.SettingsUpdate{
		BankName:          req.BankName,
		CheckingAnchorDay: req.CheckingAnchorDay,
		SavingsAnchorDay:  req.SavingsAnchorDay,
	}

	rate, err := money.ParseRate(req.SavingsInterestRate.String())
	if err != nil {
		return banking.SettingsUpdate{}, err
	}
	update.SavingsInterestRate = rate

	fields := []struct {
		raw  json.Number
		dest *decimal.Decimal
	}{
		{req.StandardFee, &update.StandardFee},
		{req.CheckingMinimumBalance, &update.CheckingMinimumBalance},
		{req.CheckingMinimumFee, &update.CheckingMinimumFee},
		{req.CheckingOpeningDeposit, &update.CheckingOpeningDeposit},
		{req.SavingsMinimumBalance, &update.SavingsMinimumBalance},
		{req.SavingsMinimumFee, &update.SavingsMinimumFee},
		{req.SavingsOpeningDeposit, &update.SavingsOpeningDeposit},
		{req.BankClosureFee, &update.BankClosureFee},
		{req.CheckingClosureFee, &update.CheckingClosureFee},
		{req.SavingsClosureFee, &update.SavingsClosureFee},
	}
	for _, field := range fields {
		value, err := money.Parse(field.raw.String())
		if err != nil {
			return banking.SettingsUpdate{}, err
		}
		*field.dest = value
	}

	return update, nil
}
