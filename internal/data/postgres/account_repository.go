// Package postgres provides PostgreSQL implementations of the domain
// repositories. It handles all database operations while maintaining
// transaction safety and proper error handling for the banking core.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lifesim-bank/internal/domain/account"
	"github.com/lifesim-bank/internal/platform/persistence"
)

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic
// operations across multiple repository calls.
func (r *AccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new account. A slug uniqueness violation surfaces as
// ErrDuplicateAccount.
func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (id, slug, name, category, balance, closed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.querier.Exec(ctx, query,
		acc.ID,
		acc.Slug,
		acc.Name,
		acc.Category,
		acc.Balance,
		acc.Closed,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return account.ErrDuplicateAccount{Slug: acc.Slug}
		}
		r.logger.Error("Failed to create account", "slug", acc.Slug, "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetBySlug retrieves an account by its slug, filtering closed accounts
// unless includeClosed is set.
func (r *AccountRepository) GetBySlug(ctx context.Context, slug string, includeClosed bool) (*account.Account, error) {
	query := `
		SELECT id, slug, name, category, balance, closed, created_at, updated_at
		FROM accounts
		WHERE slug = $1 AND ($2 OR NOT closed)
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, slug, includeClosed).Scan(
		&acc.ID,
		&acc.Slug,
		&acc.Name,
		&acc.Category,
		&acc.Balance,
		&acc.Closed,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{Slug: slug}
		}
		r.logger.Error("Failed to get account", "slug", slug, "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &acc, nil
}

// List returns accounts ordered by creation time.
func (r *AccountRepository) List(ctx context.Context, includeClosed bool) ([]*account.Account, error) {
	query := `
		SELECT id, slug, name, category, balance, closed, created_at, updated_at
		FROM accounts
		WHERE $1 OR NOT closed
		ORDER BY created_at ASC
	`

	rows, err := r.querier.Query(ctx, query, includeClosed)
	if err != nil {
		r.logger.Error("Failed to list accounts", "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		var acc account.Account
		if err := rows.Scan(
			&acc.ID,
			&acc.Slug,
			&acc.Name,
			&acc.Category,
			&acc.Balance,
			&acc.Closed,
			&acc.CreatedAt,
			&acc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}

	return accounts, nil
}

// Update persists balance, name, category, and closed-flag changes.
func (r *AccountRepository) Update(ctx context.Context, acc *account.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, category = $2, balance = $3, closed = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := r.querier.Exec(ctx, query,
		acc.Name,
		acc.Category,
		acc.Balance,
		acc.Closed,
		acc.UpdatedAt,
		acc.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update account", "slug", acc.Slug, "error", err)
		return fmt.Errorf("failed to update account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{Slug: acc.Slug}
	}

	return nil
}
