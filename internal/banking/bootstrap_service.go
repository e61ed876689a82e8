package banking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/lifesim-bank/internal/domain/account"
	"github.com/lifesim-bank/internal/domain/policy"
)

// The cash reservoir as seeded on first run.
const (
	cashName     = "Cash"
	cashCategory = "Liquid Cash"
)

var cashSeedBalance = decimal.RequireFromString("280.50")

// BootstrapService guarantees the bank's invariant rows exist
type BootstrapService interface {
	// EnsureDefaults idempotently creates the cash account and the
	// settings singleton, and backfills newly introduced settings
	// fields. Safe to call on every request.
	EnsureDefaults(ctx context.Context) error
}

type bootstrapService struct {
	db       TxRunner
	accounts account.Repository
	settings policy.Repository
	logger   *slog.Logger
}

// NewBootstrapService creates a new bootstrap service
func NewBootstrapService(logger *slog.Logger, db TxRunner, accounts account.Repository, settings policy.Repository) BootstrapService {
	return &bootstrapService{
		db:       db,
		accounts: accounts,
		settings: settings,
		logger:   logger,
	}
}

func (s *bootstrapService) EnsureDefaults(ctx context.Context) error {
	err := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		accounts := s.accounts.WithTx(tx)
		settings := s.settings.WithTx(tx)

		_, err := accounts.GetBySlug(ctx, account.SlugCash, true)
		if err != nil {
			if !errors.Is(err, account.ErrAccountNotFound{}) {
				return err
			}

			cash, err := account.New(account.SlugCash, cashName, cashCategory, cashSeedBalance)
			if err != nil {
				return err
			}
			if err := accounts.Create(ctx, cash); err != nil {
				// Lost a race against a concurrent bootstrap; the row exists.
				if errors.Is(err, account.ErrDuplicateAccount{Slug: account.SlugCash}) {
					return nil
				}
				return err
			}
			s.logger.Info("Seeded cash account", "balance", cashSeedBalance.String())
		}

		current, err := settings.Get(ctx)
		if err != nil {
			return err
		}
		if current == nil {
			if err := settings.Create(ctx, policy.Defaults()); err != nil {
				return err
			}
			s.logger.Info("Created default bank settings")
			return nil
		}
		if current.Backfill() {
			current.UpdatedAt = time.Now().UTC()
			if err := settings.Update(ctx, current); err != nil {
				return err
			}
			s.logger.Info("Backfilled bank settings")
		}

		return nil
	})
	if err != nil {
		s.logger.Error("Failed to ensure bank defaults", "error", err)
		return fmt.Errorf("failed to ensure bank defaults: %w", err)
	}

	return nil
}
