package banking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/lifesim-bank/internal/domain/account"
	"github.com/lifesim-bank/internal/domain/audit"
	"github.com/lifesim-bank/internal/domain/ledger"
	"github.com/lifesim-bank/pkg/money"
)

// TransferService moves money between accounts. All three operations keep
// the conservation invariant: the sum of the two balances is unchanged.
type TransferService interface {
	// Transfer moves amount from the source account to the destination
	// account. Returns a user-facing confirmation message.
	Transfer(ctx context.Context, sourceSlug, destSlug string, amount decimal.Decimal) (string, error)

	// Deposit moves amount from cash into the destination account.
	Deposit(ctx context.Context, destSlug string, amount decimal.Decimal) (string, error)

	// Withdraw moves amount from the source account into cash.
	Withdraw(ctx context.Context, sourceSlug string, amount decimal.Decimal) (string, error)
}

type transferService struct {
	db       TxRunner
	accounts account.Repository
	ledger   ledger.Repository
	recorder audit.Recorder
	logger   *slog.Logger
}

// NewTransferService creates a new transfer service
func NewTransferService(logger *slog.Logger, db TxRunner, accounts account.Repository, entries ledger.Repository, recorder audit.Recorder) TransferService {
	return &transferService{
		db:       db,
		accounts: accounts,
		ledger:   entries,
		recorder: recorder,
		logger:   logger,
	}
}

func (s *transferService) Transfer(ctx context.Context, sourceSlug, destSlug string, amount decimal.Decimal) (string, error) {
	return s.move(ctx, "transfer-move", "transfer", sourceSlug, destSlug, amount)
}

func (s *transferService) Deposit(ctx context.Context, destSlug string, amount decimal.Decimal) (string, error) {
	return s.move(ctx, "deposit", "deposit", account.SlugCash, destSlug, amount)
}

func (s *transferService) Withdraw(ctx context.Context, sourceSlug string, amount decimal.Decimal) (string, error) {
	return s.move(ctx, "withdraw", "withdrawal", sourceSlug, account.SlugCash, amount)
}

// move is the shared engine behind Transfer, Deposit, and Withdraw.
// action tags audit events; opName names the operation in failure messages.
func (s *transferService) move(ctx context.Context, action, opName, sourceSlug, destSlug string, amount decimal.Decimal) (string, error) {
	amount = money.Quantize(amount)

	if !amount.IsPositive() {
		s.reject(ctx, action, audit.LevelWarn, "Transfer amount must be greater than zero.")
		return "", ValidationError{Messages: []string{"Transfer amount must be greater than zero."}}
	}
	if sourceSlug == "" || destSlug == "" {
		s.reject(ctx, action, audit.LevelError, "Select both a source and destination account.")
		return "", ValidationError{Messages: []string{"Select both a source and destination account."}}
	}
	if sourceSlug == destSlug {
		s.reject(ctx, action, audit.LevelWarn, "Choose two different accounts.")
		return "", ValidationError{Messages: []string{"Choose two different accounts."}}
	}

	var message string
	err := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		accounts := s.accounts.WithTx(tx)
		entries := s.ledger.WithTx(tx)

		source, err := accounts.GetBySlug(ctx, sourceSlug, false)
		if err != nil {
			return err
		}
		dest, err := accounts.GetBySlug(ctx, destSlug, false)
		if err != nil {
			return err
		}

		if source.Balance.LessThan(amount) {
			return account.ErrInsufficientFunds{AccountName: source.Name, Available: source.Balance}
		}

		if err := source.Debit(amount); err != nil {
			return err
		}
		if err := dest.Credit(amount); err != nil {
			return err
		}

		moveEntries, err := transferEntries(source, dest, amount)
		if err != nil {
			return err
		}
		for _, entry := range moveEntries {
			if err := entries.Create(ctx, entry); err != nil {
				return err
			}
		}

		if err := accounts.Update(ctx, source); err != nil {
			return err
		}
		if err := accounts.Update(ctx, dest); err != nil {
			return err
		}

		message = moveMessage(source, dest, amount)
		return nil
	})
	if err != nil {
		var notFound account.ErrAccountNotFound
		var insufficient account.ErrInsufficientFunds
		switch {
		case errors.As(err, &notFound):
			s.reject(ctx, action, audit.LevelError, "Select valid accounts for the "+opName+".")
			return "", err
		case errors.As(err, &insufficient):
			s.reject(ctx, action, audit.LevelWarn, insufficient.Error())
			return "", err
		default:
			s.logger.Error("Transfer operation failed", "action", action, "error", err)
			s.recorder.Record(ctx, audit.Event{
				Component:        componentBanking,
				Action:           action,
				Level:            audit.LevelError,
				Result:           audit.ResultError,
				Title:            "Transfer failed",
				UserSummary:      "The " + opName + " could not be saved. Try again shortly.",
				TechnicalDetails: fmt.Sprintf("banking.%s encountered %v", action, err),
			})
			return "", PersistenceError{Op: opName, Err: err}
		}
	}

	s.recorder.Record(ctx, audit.Event{
		Component:        componentBanking,
		Action:           action,
		Level:            audit.LevelInfo,
		Result:           audit.ResultSuccess,
		Title:            "Transfer completed",
		UserSummary:      message,
		TechnicalDetails: fmt.Sprintf("banking.%s updated account balances and recorded ledger entries.", action),
	})

	checkCashHealth(ctx, s.accounts, s.recorder)
	return message, nil
}

func (s *transferService) reject(ctx context.Context, action string, level audit.Level, summary string) {
	s.recorder.Record(ctx, audit.Event{
		Component:        componentBanking,
		Action:           action,
		Level:            level,
		Result:           audit.ResultError,
		Title:            "Transfer rejected",
		UserSummary:      summary,
		TechnicalDetails: fmt.Sprintf("banking.%s rejected the request before any mutation.", action),
	})
}

// transferEntries builds the ledger rows for one transfer. The cash
// account never receives a row of its own here; cash movements stay
// implicit so the ledger only shows the named accounts.
func transferEntries(source, dest *account.Account, amount decimal.Decimal) ([]*ledger.Entry, error) {
	description := fmt.Sprintf("Funds moved from %s to %s", source.Name, dest.Name)
	var result []*ledger.Entry

	if !source.IsCash() {
		name := "Account Transfer"
		desc := description
		if dest.IsCash() {
			name = "Cash Withdrawal"
			desc = fmt.Sprintf("Funds moved from %s to cash", source.Name)
		}
		entry, err := ledger.NewEntry(source.ID, name, desc, ledger.DirectionDebit, amount)
		if err != nil {
			return nil, err
		}
		result = append(result, entry)
	}

	if !dest.IsCash() {
		name := "Account Transfer"
		desc := description
		if source.IsCash() {
			name = "Cash Allocation"
			desc = fmt.Sprintf("Wallet deposit into %s", dest.Name)
		}
		entry, err := ledger.NewEntry(dest.ID, name, desc, ledger.DirectionCredit, amount)
		if err != nil {
			return nil, err
		}
		result = append(result, entry)
	}

	return result, nil
}

func moveMessage(source, dest *account.Account, amount decimal.Decimal) string {
	display := money.Format(amount)
	switch {
	case source.IsCash():
		return fmt.Sprintf("Transferred %s from Cash to %s.", display, dest.Name)
	case dest.IsCash():
		return fmt.Sprintf("Moved %s from %s to Cash.", display, source.Name)
	default:
		return fmt.Sprintf("Moved %s from %s to %s.", display, source.Name, dest.Name)
	}
}

// checkCashHealth emits a warning event when liquid cash drops below the
// healthy threshold. Shared by every engine that moves cash.
func checkCashHealth(ctx context.Context, accounts account.Repository, recorder audit.Recorder) {
	cash, err := accounts.GetBySlug(ctx, account.SlugCash, true)
	if err != nil || cash == nil {
		return
	}
	if cash.Balance.GreaterThanOrEqual(lowCashThreshold) {
		return
	}

	recorder.Record(ctx, audit.Event{
		Component:        componentBanking,
		Action:           "cash-check",
		Level:            audit.LevelWarn,
		Result:           audit.ResultWarn,
		Title:            "Cash balance trending low",
		UserSummary:      "Cash balance fell below $150. Consider moving funds from checking or savings.",
		TechnicalDetails: "banking.cash_monitor detected low liquidity in cash reserves.",
	})
}
