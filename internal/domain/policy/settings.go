// Package policy holds the bank's persisted configuration: fees, minimum
// balances, anchor days, opening deposits, and closure fees. Exactly one
// settings row exists; it is created with defaults on first access.
package policy

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings is the singleton policy record consulted by the lifecycle,
// transfer, and insights engines.
type Settings struct {
	BankName            string          `json:"bank_name"`
	StandardFee         decimal.Decimal `json:"standard_fee"`
	SavingsInterestRate decimal.Decimal `json:"savings_interest_rate"` // percentage, 3dp

	CheckingMinimumBalance decimal.Decimal `json:"checking_minimum_balance"`
	CheckingMinimumFee     decimal.Decimal `json:"checking_minimum_fee"`
	CheckingAnchorDay      int             `json:"checking_anchor_day"` // 1-31, clamped to month length
	CheckingOpeningDeposit decimal.Decimal `json:"checking_opening_deposit"`

	SavingsMinimumBalance decimal.Decimal `json:"savings_minimum_balance"`
	SavingsMinimumFee     decimal.Decimal `json:"savings_minimum_fee"`
	SavingsAnchorDay      int             `json:"savings_anchor_day"`
	SavingsOpeningDeposit decimal.Decimal `json:"savings_opening_deposit"`

	BankClosureFee     decimal.Decimal `json:"bank_closure_fee"`
	CheckingClosureFee decimal.Decimal `json:"checking_closure_fee"`
	SavingsClosureFee  decimal.Decimal `json:"savings_closure_fee"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Defaults returns the hard-coded policy used to bootstrap the singleton.
func Defaults() *Settings {
	now := time.Now().UTC()
	return &Settings{
		BankName:            "Lifesim Bank",
		StandardFee:         decimal.RequireFromString("12.00"),
		SavingsInterestRate: decimal.RequireFromString("2.000"),

		CheckingMinimumBalance: decimal.RequireFromString("1500.00"),
		CheckingMinimumFee:     decimal.RequireFromString("12.00"),
		CheckingAnchorDay:      25,
		CheckingOpeningDeposit: decimal.RequireFromString("100.00"),

		SavingsMinimumBalance: decimal.RequireFromString("500.00"),
		SavingsMinimumFee:     decimal.RequireFromString("5.00"),
		SavingsAnchorDay:      1,
		SavingsOpeningDeposit: decimal.RequireFromString("50.00"),

		BankClosureFee:     decimal.RequireFromString("25.00"),
		CheckingClosureFee: decimal.RequireFromString("10.00"),
		SavingsClosureFee:  decimal.RequireFromString("10.00"),

		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Backfill fills fields a newly introduced settings column would leave at
// their zero value, without disturbing fields already set. Reports whether
// anything changed.
func (s *Settings) Backfill() bool {
	defaults := Defaults()
	changed := false

	if s.BankName == "" {
		s.BankName = defaults.BankName
		changed = true
	}
	if s.CheckingAnchorDay < 1 || s.CheckingAnchorDay > 31 {
		s.CheckingAnchorDay = defaults.CheckingAnchorDay
		changed = true
	}
	if s.SavingsAnchorDay < 1 || s.SavingsAnchorDay > 31 {
		s.SavingsAnchorDay = defaults.SavingsAnchorDay
		changed = true
	}

	if changed {
		s.UpdatedAt = time.Now().UTC()
	}
	return changed
}
