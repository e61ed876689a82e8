package banking

import (
	"context"
	"log/slog"

	"github.com/lifesim-bank/internal/domain/account"
	"github.com/lifesim-bank/internal/domain/ledger"
	"github.com/lifesim-bank/internal/domain/policy"
)

// BankState is the snapshot backing the transfer interface: every open
// account with its balance, the recent ledger, and the active policy.
type BankState struct {
	Accounts []*account.Account
	Recent   []*ledger.Entry
	Settings *policy.Settings
}

// LedgerService exposes the read side of the ledger and the aggregate
// bank state.
type LedgerService interface {
	// State returns open accounts, the newest limit ledger entries, and
	// the current settings.
	State(ctx context.Context, limit int) (*BankState, error)

	// RecentTransactions returns the newest entries first, capped at limit.
	RecentTransactions(ctx context.Context, limit int, includeCash bool) ([]*ledger.Entry, error)

	// Transactions returns one page of the ledger. perPage is clamped to
	// at least 1 and page into [1, totalPages].
	Transactions(ctx context.Context, page, perPage int, includeCash bool) (*ledger.Page, error)
}

type ledgerService struct {
	accounts account.Repository
	ledger   ledger.Repository
	settings policy.Repository
	logger   *slog.Logger
}

// NewLedgerService creates a new ledger read service
func NewLedgerService(logger *slog.Logger, accounts account.Repository, entries ledger.Repository, settings policy.Repository) LedgerService {
	return &ledgerService{
		accounts: accounts,
		ledger:   entries,
		settings: settings,
		logger:   logger,
	}
}

func (s *ledgerService) State(ctx context.Context, limit int) (*BankState, error) {
	if limit < 1 {
		limit = 20
	}

	accounts, err := s.accounts.List(ctx, false)
	if err != nil {
		return nil, PersistenceError{Op: "state lookup", Err: err}
	}

	recent, err := s.ledger.Recent(ctx, limit, false)
	if err != nil {
		return nil, PersistenceError{Op: "state lookup", Err: err}
	}

	current, err := s.settings.Get(ctx)
	if err != nil {
		return nil, PersistenceError{Op: "state lookup", Err: err}
	}

	return &BankState{
		Accounts: accounts,
		Recent:   recent,
		Settings: current,
	}, nil
}

func (s *ledgerService) RecentTransactions(ctx context.Context, limit int, includeCash bool) ([]*ledger.Entry, error) {
	if limit < 1 {
		limit = 20
	}

	entries, err := s.ledger.Recent(ctx, limit, includeCash)
	if err != nil {
		return nil, PersistenceError{Op: "transaction lookup", Err: err}
	}
	return entries, nil
}

func (s *ledgerService) Transactions(ctx context.Context, page, perPage int, includeCash bool) (*ledger.Page, error) {
	if perPage < 1 {
		perPage = 1
	}

	total, err := s.ledger.Count(ctx, includeCash)
	if err != nil {
		return nil, PersistenceError{Op: "transaction lookup", Err: err}
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	offset := (page - 1) * perPage
	items, err := s.ledger.List(ctx, perPage, offset, includeCash)
	if err != nil {
		return nil, PersistenceError{Op: "transaction lookup", Err: err}
	}

	return &ledger.Page{
		Items:      items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}
