package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lifesim-bank/pkg/money"
)

// Direction tags which way money moved for the owning account.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// Valid reports whether the direction is one of the two allowed values.
func (d Direction) Valid() bool {
	return d == DirectionCredit || d == DirectionDebit
}

// Common errors
var (
	ErrInvalidDirection = errors.New("direction must be credit or debit")
	ErrInvalidAmount    = errors.New("ledger amount must be positive")
)

// Entry is one immutable record of money moving into or out of a single
// account. Amounts are always positive magnitudes; the sign is carried by
// the direction. Entries are never updated or deleted.
type Entry struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   uuid.UUID       `json:"account_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Direction   Direction       `json:"direction"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`

	// Populated by read queries joining the owning account; never written.
	AccountSlug string `json:"account_slug,omitempty"`
	AccountName string `json:"account_name,omitempty"`
}

// NewEntry validates and builds a ledger entry. The amount is quantized
// before the positivity check so that sub-cent noise cannot sneak through.
func NewEntry(accountID uuid.UUID, name, description string, direction Direction, amount decimal.Decimal) (*Entry, error) {
	if !direction.Valid() {
		return nil, ErrInvalidDirection
	}

	quantized := money.Quantize(amount)
	if !quantized.IsPositive() {
		return nil, ErrInvalidAmount
	}

	return &Entry{
		ID:          uuid.New(),
		AccountID:   accountID,
		Name:        name,
		Description: description,
		Direction:   direction,
		Amount:      quantized,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Signed returns the amount with direction applied: positive for credits,
// negative for debits.
func (e *Entry) Signed() decimal.Decimal {
	if e.Direction == DirectionDebit {
		return e.Amount.Neg()
	}
	return e.Amount
}
