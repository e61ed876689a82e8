package handler

import "encoding/json"

// Monetary values cross this boundary twice: once as a display string
// ("$1,234.56") and once as a plain number quantized to two decimals.

// AccountResponse represents an account in API responses
type AccountResponse struct {
	Slug           string  `json:"slug"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Balance        float64 `json:"balance"`
	BalanceDisplay string  `json:"balance_display"`
	Closed         bool    `json:"closed"`
	CreatedAt      string  `json:"created_at"`
}

// TransactionResponse represents a ledger entry in API responses
type TransactionResponse struct {
	ID            string  `json:"id"`
	Account       string  `json:"account"`
	AccountName   string  `json:"account_name"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Direction     string  `json:"direction"`
	Amount        float64 `json:"amount"`
	AmountDisplay string  `json:"amount_display"`
	Timestamp     string  `json:"timestamp"`
}

// SettingsResponse represents the bank policy in API responses
type SettingsResponse struct {
	BankName            string  `json:"bank_name"`
	StandardFee         float64 `json:"standard_fee"`
	SavingsInterestRate float64 `json:"savings_interest_rate"`

	CheckingMinimumBalance float64 `json:"checking_minimum_balance"`
	CheckingMinimumFee     float64 `json:"checking_minimum_fee"`
	CheckingAnchorDay      int     `json:"checking_anchor_day"`
	CheckingOpeningDeposit float64 `json:"checking_opening_deposit"`

	SavingsMinimumBalance float64 `json:"savings_minimum_balance"`
	SavingsMinimumFee     float64 `json:"savings_minimum_fee"`
	SavingsAnchorDay      int     `json:"savings_anchor_day"`
	SavingsOpeningDeposit float64 `json:"savings_opening_deposit"`

	BankClosureFee     float64 `json:"bank_closure_fee"`
	CheckingClosureFee float64 `json:"checking_closure_fee"`
	SavingsClosureFee  float64 `json:"savings_closure_fee"`
}

// StateResponse is the aggregate snapshot behind the transfer interface
type StateResponse struct {
	BankName     string                `json:"bank_name"`
	Accounts     []AccountResponse     `json:"accounts"`
	Transactions []TransactionResponse `json:"transactions"`
}

// MessageResponse carries a user-facing confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// TransferRequest represents a request to move money between two accounts
type TransferRequest struct {
	Source      string      `json:"source" binding:"required"`
	Destination string      `json:"destination" binding:"required"`
	Amount      json.Number `json:"amount" binding:"required"`
}

// DepositRequest represents a request to move cash into an account
type DepositRequest struct {
	Destination string      `json:"destination" binding:"required"`
	Amount      json.Number `json:"amount" binding:"required"`
}

// WithdrawRequest represents a request to move account funds into cash
type WithdrawRequest struct {
	Source string      `json:"source" binding:"required"`
	Amount json.Number `json:"amount" binding:"required"`
}

// OpenAccountsRequest represents a batch account opening request
type OpenAccountsRequest struct {
	Accounts map[string]OpenAccountSelection `json:"accounts" binding:"required"`
}

// OpenAccountSelection carries the opening deposit for one account type
type OpenAccountSelection struct {
	Deposit json.Number `json:"deposit"`
}

// CloseAccountsRequest represents a closure request
type CloseAccountsRequest struct {
	Target string `json:"target" binding:"required"`
}

// UpdateSettingsRequest represents a full policy update
type UpdateSettingsRequest struct {
	BankName            string      `json:"bank_name"`
	StandardFee         json.Number `json:"standard_fee"`
	SavingsInterestRate json.Number `json:"savings_interest_rate"`

	CheckingMinimumBalance json.Number `json:"checking_minimum_balance"`
	CheckingMinimumFee     json.Number `json:"checking_minimum_fee"`
	CheckingAnchorDay      int         `json:"checking_anchor_day"`
	CheckingOpeningDeposit json.Number `json:"checking_opening_deposit"`

	SavingsMinimumBalance json.Number `json:"savings_minimum_balance"`
	SavingsMinimumFee     json.Number `json:"savings_minimum_fee"`
	SavingsAnchorDay      int         `json:"savings_anchor_day"`
	SavingsOpeningDeposit json.Number `json:"savings_opening_deposit"`

	BankClosureFee     json.Number `json:"bank_closure_fee"`
	CheckingClosureFee json.Number `json:"checking_closure_fee"`
	SavingsClosureFee  json.Number `json:"savings_closure_fee"`
}

// PointResponse is one timestamped value in a series
type PointResponse struct {
	At    string  `json:"at"`
	Value float64 `json:"value"`
}

// ProjectionResponse holds one derived series per cadence
type ProjectionResponse struct {
	Daily   []PointResponse `json:"daily"`
	Monthly []PointResponse `json:"monthly"`
	Yearly  []PointResponse `json:"yearly"`
}

// AccountInsightsResponse pairs one account with its derived series
type AccountInsightsResponse struct {
	Slug               string             `json:"slug"`
	Name               string             `json:"name"`
	History            []PointResponse    `json:"history"`
	Interest           ProjectionResponse `json:"interest"`
	CyclePayout        float64            `json:"cycle_payout"`
	CyclePayoutDisplay string             `json:"cycle_payout_display"`
	CycleDays          int                `json:"cycle_days"`
	NextAnchor         string             `json:"next_anchor"`
	AnchorDay          int                `json:"anchor_day"`
	AnchorDayTag       string             `json:"anchor_day_tag"`
}

// DueCardResponse summarizes one account's minimum balance standing
type DueCardResponse struct {
	Slug           string  `json:"slug"`
	Name           string  `json:"name"`
	Balance        float64 `json:"balance"`
	BalanceDisplay string  `json:"balance_display"`
	MinimumBalance float64 `json:"minimum_balance"`
	Shortfall      float64 `json:"shortfall"`
	FeeDue         float64 `json:"fee_due"`
	Status         string  `json:"status"`
	DueDate        string  `json:"due_date"`
	DueDateDisplay string  `json:"due_date_display"`
	Message        string  `json:"message"`
}

// InsightsResponse is the full insights payload
type InsightsResponse struct {
	Accounts []AccountInsightsResponse `json:"accounts"`
	Combined []PointResponse           `json:"combined"`
	DueCards []DueCardResponse         `json:"due_cards"`
}

// TransactionListParams represents query parameters for the ledger page
type TransactionListParams struct {
	Page        int  `form:"page,default=1"`
	PerPage     int  `form:"per_page,default=10"`
	IncludeCash bool `form:"include_cash,default=false"`
}
