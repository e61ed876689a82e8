package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lifesim-bank/pkg/money"
)

// Well-known account slugs. The cash account is the player's off-ledger
// reservoir: it is created once, seeded, and never closed.
const (
	SlugCash     = "hand"
	SlugChecking = "checking"
	SlugSavings  = "savings"
)

// Common errors
var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrEmptyName     = errors.New("account name cannot be empty")
)

// Account represents a single bank account tracked by the player.
// The balance invariant is balance >= 0 at all times; every balance change
// happens inside a store transaction together with its ledger entries.
type Account struct {
	ID        uuid.UUID       `json:"id"`
	Slug      string          `json:"slug"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Balance   decimal.Decimal `json:"balance"`
	Closed    bool            `json:"closed"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// New creates an open account with a quantized opening balance.
func New(slug, name, category string, openingBalance decimal.Decimal) (*Account, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if openingBalance.IsNegative() {
		return nil, ErrInvalidAmount
	}

	now := time.Now().UTC()
	return &Account{
		ID:        uuid.New(),
		Slug:      slug,
		Name:      name,
		Category:  category,
		Balance:   money.Quantize(openingBalance),
		Closed:    false,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Credit adds the amount to the balance.
func (a *Account) Credit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	a.Balance = money.Quantize(a.Balance.Add(amount))
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Debit subtracts the amount from the balance, refusing overdrafts.
func (a *Account) Debit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if a.Balance.LessThan(amount) {
		return ErrInsufficientFunds{AccountName: a.Name, Available: a.Balance}
	}

	a.Balance = money.Quantize(a.Balance.Sub(amount))
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// IsCash reports whether this is the off-ledger cash reservoir.
func (a *Account) IsCash() bool {
	return a.Slug == SlugCash
}
