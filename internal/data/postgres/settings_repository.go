package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/lifesim-bank/internal/domain/policy"
	"github.com/lifesim-bank/internal/platform/persistence"
)

// The settings table is a singleton; every row operation pins this id.
const settingsRowID = 1

// SettingsRepository implements the policy.Repository interface for PostgreSQL
type SettingsRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewSettingsRepository creates a new PostgreSQL settings repository
func NewSettingsRepository(logger *slog.Logger, db *persistence.PostgresDB) policy.Repository {
	return &SettingsRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *SettingsRepository) WithTx(tx pgx.Tx) policy.Repository {
	return &SettingsRepository{
		querier: tx,
		logger:  r.logger,
	}
}

const settingsColumns = `
		bank_name, standard_fee, savings_interest_rate,
		checking_minimum_balance, checking_minimum_fee, checking_anchor_day, checking_opening_deposit,
		savings_minimum_balance, savings_minimum_fee, savings_anchor_day, savings_opening_deposit,
		bank_closure_fee, checking_closure_fee, savings_closure_fee,
		created_at, updated_at
`

// Get returns the settings singleton, or nil when it has not been created.
func (r *SettingsRepository) Get(ctx context.Context) (*policy.Settings, error) {
	query := `SELECT ` + settingsColumns + ` FROM bank_settings WHERE id = $1`

	var s policy.Settings
	err := r.querier.QueryRow(ctx, query, settingsRowID).Scan(
		&s.BankName,
		&s.StandardFee,
		&s.SavingsInterestRate,
		&s.CheckingMinimumBalance,
		&s.CheckingMinimumFee,
		&s.CheckingAnchorDay,
		&s.CheckingOpeningDeposit,
		&s.SavingsMinimumBalance,
		&s.SavingsMinimumFee,
		&s.SavingsAnchorDay,
		&s.SavingsOpeningDeposit,
		&s.BankClosureFee,
		&s.CheckingClosureFee,
		&s.SavingsClosureFee,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Absent settings are created by the bootstrap
		}
		r.logger.Error("Failed to get bank settings", "error", err)
		return nil, fmt.Errorf("failed to get bank settings: %w", err)
	}

	return &s, nil
}

// Create inserts the settings singleton.
func (r *SettingsRepository) Create(ctx context.Context, s *policy.Settings) error {
	query := `
		INSERT INTO bank_settings (id, ` + settingsColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.querier.Exec(ctx, query,
		settingsRowID,
		s.BankName,
		s.StandardFee,
		s.SavingsInterestRate,
		s.CheckingMinimumBalance,
		s.CheckingMinimumFee,
		s.CheckingAnchorDay,
		s.CheckingOpeningDeposit,
		s.SavingsMinimumBalance,
		s.SavingsMinimumFee,
		s.SavingsAnchorDay,
		s.SavingsOpeningDeposit,
		s.BankClosureFee,
		s.CheckingClosureFee,
		s.SavingsClosureFee,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create bank settings", "error", err)
		return fmt.Errorf("failed to create bank settings: %w", err)
	}

	return nil
}

// Update persists the full settings row.
func (r *SettingsRepository) Update(ctx context.Context, s *policy.Settings) error {
	query := `
		UPDATE bank_settings
		SET bank_name = $1, standard_fee = $2, savings_interest_rate = $3,
		    checking_minimum_balance = $4, checking_minimum_fee = $5, checking_anchor_day = $6, checking_opening_deposit = $7,
		    savings_minimum_balance = $8, savings_minimum_fee = $9, savings_anchor_day = $10, savings_opening_deposit = $11,
		    bank_closure_fee = $12, checking_closure_fee = $13, savings_closure_fee = $14,
		    updated_at = $15
		WHERE id = $16
	`

	result, err := r.querier.Exec(ctx, query,
		s.BankName,
		s.StandardFee,
		s.SavingsInterestRate,
		s.CheckingMinimumBalance,
		s.CheckingMinimumFee,
		s.CheckingAnchorDay,
		s.CheckingOpeningDeposit,
		s.SavingsMinimumBalance,
		s.SavingsMinimumFee,
		s.SavingsAnchorDay,
		s.SavingsOpeningDeposit,
		s.BankClosureFee,
		s.CheckingClosureFee,
		s.SavingsClosureFee,
		s.UpdatedAt,
		settingsRowID,
	)
	if err != nil {
		r.logger.Error("Failed to update bank settings", "error", err)
		return fmt.Errorf("failed to update bank settings: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("bank settings row missing during update")
	}

	return nil
}
