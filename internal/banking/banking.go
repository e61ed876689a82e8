// Package banking implements the bank's mutating engines: bootstrap,
// transfers, account lifecycle, settings updates, and ledger reads. Every
// multi-step mutation validates fully before touching the store and runs
// inside a single database transaction.
package banking

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// componentBanking tags every audit event emitted by this package.
const componentBanking = "Banking"

// lowCashThreshold is the liquidity floor below which a warning event is
// emitted after any operation that touches cash.
var lowCashThreshold = decimal.RequireFromString("150")

// TxRunner runs a function inside one database transaction, rolling back
// when the function returns an error.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// ValidationError aggregates every user-facing validation failure for one
// request. When present, nothing was applied.
type ValidationError struct {
	Messages []string
}

func (e ValidationError) Error() string {
	return strings.Join(e.Messages, " ")
}

// Is matches any ValidationError regardless of its messages.
func (e ValidationError) Is(target error) bool {
	_, ok := target.(ValidationError)
	return ok
}

// PersistenceError wraps a storage failure after a full rollback. Callers
// get a generic message; the cause stays available via Unwrap for logs.
type PersistenceError struct {
	Op  string
	Err error
}

func (e PersistenceError) Error() string {
	return "Unable to complete the " + e.Op + " at this time."
}

func (e PersistenceError) Unwrap() error {
	return e.Err
}

// Is matches any PersistenceError regardless of operation or cause.
func (e PersistenceError) Is(target error) bool {
	_, ok := target.(PersistenceError)
	return ok
}

// ErrAlreadyOpen indicates an open request against an account that is
// already open.
type ErrAlreadyOpen struct {
	Name string
}

func (e ErrAlreadyOpen) Error() string {
	return e.Name + " is already open."
}

// ErrAlreadyClosed indicates a close request when no targeted account is
// open. It is a no-op, not a failure of the store.
type ErrAlreadyClosed struct {
	Target string
}

func (e ErrAlreadyClosed) Error() string {
	if e.Target == CloseTargetAll {
		return "All accounts are already closed."
	}
	return openConfigs[e.Target].Name + " is already closed."
}

// Is matches any ErrAlreadyClosed regardless of target.
func (e ErrAlreadyClosed) Is(target error) bool {
	_, ok := target.(ErrAlreadyClosed)
	return ok
}
