package account

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/lifesim-bank/pkg/money"
)

// Repository defines account persistence operations
type Repository interface {
	Create(ctx context.Context, account *Account) error

	// GetBySlug retrieves an account by its slug. Closed accounts are
	// invisible unless includeClosed is set.
	GetBySlug(ctx context.Context, slug string, includeClosed bool) (*Account, error)

	// List returns accounts ordered by creation time.
	List(ctx context.Context, includeClosed bool) ([]*Account, error)

	// Update persists balance, name, category, and closed-flag changes.
	Update(ctx context.Context, account *Account) error

	WithTx(tx pgx.Tx) Repository
}

// ErrAccountNotFound indicates a missing (or closed and filtered) account
type ErrAccountNotFound struct {
	Slug string
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.Slug
}

// Is matches any ErrAccountNotFound when the target carries no slug.
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	return t.Slug == "" || t.Slug == e.Slug
}

// ErrDuplicateAccount indicates slug uniqueness violation
type ErrDuplicateAccount struct {
	Slug string
}

func (e ErrDuplicateAccount) Error() string {
	return "account already exists: " + e.Slug
}

// ErrAccountClosed indicates an operation against a closed account
type ErrAccountClosed struct {
	Slug string
}

func (e ErrAccountClosed) Error() string {
	return "account is closed: " + e.Slug
}

// ErrInsufficientFunds indicates a debit exceeding the available balance.
// The message always carries the available balance.
type ErrInsufficientFunds struct {
	AccountName string
	Available   decimal.Decimal
}

func (e ErrInsufficientFunds) Error() string {
	return e.AccountName + " only has " + money.Format(e.Available) + " available"
}

// Is matches any ErrInsufficientFunds regardless of account or balance.
func (e ErrInsufficientFunds) Is(target error) bool {
	_, ok := target.(ErrInsufficientFunds)
	return ok
}
