package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/lifesim-bank/internal/banking"
	"github.com/lifesim-bank/internal/localize"
	"github.com/lifesim-bank/pkg/money"
)

// BankHandler handles HTTP requests for bank state and money movement
type BankHandler struct {
	bootstrap banking.BootstrapService
	ledger    banking.LedgerService
	transfers banking.TransferService
	localizer *localize.Localizer
	logger    *slog.Logger
}

// NewBankHandler creates a new bank handler
func NewBankHandler(logger *slog.Logger, bootstrap banking.BootstrapService, ledgerSvc banking.LedgerService, transfers banking.TransferService, localizer *localize.Localizer) *BankHandler {
	return &BankHandler{
		bootstrap: bootstrap,
		ledger:    ledgerSvc,
		transfers: transfers,
		localizer: localizer,
		logger:    logger,
	}
}

// State returns every open account, the recent ledger, and the bank name
func (h *BankHandler) State(c *gin.Context) {
	if !h.ensureDefaults(c) {
		return
	}

	state, err := h.ledger.State(c.Request.Context(), 20)
	if err != nil {
		h.logger.Error("Failed to load bank state", "error", err)
		respondServiceError(c, err)
		return
	}

	response := StateResponse{
		BankName:     state.Settings.BankName,
		Accounts:     make([]AccountResponse, 0, len(state.Accounts)),
		Transactions: make([]TransactionResponse, 0, len(state.Recent)),
	}
	for _, acc := range state.Accounts {
		response.Accounts = append(response.Accounts, mapAccountToResponse(acc, h.localizer))
	}
	for _, entry := range state.Recent {
		response.Transactions = append(response.Transactions, mapEntryToResponse(entry, h.localizer))
	}

	RespondOK(c, response)
}

// Transactions returns one page of the ledger, newest first
func (h *BankHandler) Transactions(c *gin.Context) {
	var params TransactionListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.logger.Error("Invalid query parameters", "error", err)
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	if !h.ensureDefaults(c) {
		return
	}

	page, err := h.ledger.Transactions(c.Request.Context(), params.Page, params.PerPage, params.IncludeCash)
	if err != nil {
		h.logger.Error("Failed to list transactions", "error", err)
		respondServiceError(c, err)
		return
	}

	items := make([]TransactionResponse, 0, len(page.Items))
	for _, entry := range page.Items {
		items = append(items, mapEntryToResponse(entry, h.localizer))
	}

	RespondWithPaginatedData(c, http.StatusOK, items, page.Page, page.PerPage, page.TotalPages, page.Total)
}

// Transfer moves funds between two deposit accounts
func (h *BankHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	amount, ok := h.parseAmount(c, req.Amount)
	if !ok {
		return
	}
	if !h.ensureDefaults(c) {
		return
	}

	message, err := h.transfers.Transfer(c.Request.Context(), req.Source, req.Destination, amount)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	RespondOK(c, MessageResponse{Message: message})
}

// Deposit moves cash into a deposit account
func (h *BankHandler) Deposit(c *gin.Context) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	amount, ok := h.parseAmount(c, req.Amount)
	if !ok {
		return
	}
	if !h.ensureDefaults(c) {
		return
	}

	message, err := h.transfers.Deposit(c.Request.Context(), req.Destination, amount)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	RespondOK(c, MessageResponse{Message: message})
}

// Withdraw moves account funds into cash
func (h *BankHandler) Withdraw(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	amount, ok := h.parseAmount(c, req.Amount)
	if !ok {
		return
	}
	if !h.ensureDefaults(c) {
		return
	}

	message, err := h.transfers.Withdraw(c.Request.Context(), req.Source, amount)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	RespondOK(c, MessageResponse{Message: message})
}

func (h *BankHandler) parseAmount(c *gin.Context, raw json.Number) (decimal.Decimal, bool) {
	amount, err := money.Parse(raw.String())
	if err != nil {
		h.logger.Warn("Unparseable amount", "raw", raw.String(), "error", err)
		RespondBadRequest(c, "Enter a valid amount.")
		return decimal.Decimal{}, false
	}
	return amount, true
}

func (h *BankHandler) ensureDefaults(c *gin.Context) bool {
	return ensureDefaults(c, h.bootstrap, h.logger)
}
