package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lifesim-bank/internal/domain/account"
	"github.com/lifesim-bank/internal/domain/ledger"
	"github.com/lifesim-bank/internal/platform/persistence"
)

// LedgerRepository implements the ledger.Repository interface for PostgreSQL.
// Reads join the owning account so entries carry a display name, and the
// cash reservoir's rows can be filtered out of ledger views.
type LedgerRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewLedgerRepository creates a new PostgreSQL ledger repository
func NewLedgerRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &LedgerRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *LedgerRepository) WithTx(tx pgx.Tx) ledger.Repository {
	return &LedgerRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create appends one immutable ledger entry.
func (r *LedgerRepository) Create(ctx context.Context, entry *ledger.Entry) error {
	if !entry.Direction.Valid() {
		return ledger.ErrInvalidDirection
	}
	if !entry.Amount.IsPositive() {
		return ledger.ErrInvalidAmount
	}

	query := `
		INSERT INTO bank_transactions (id, account_id, name, description, direction, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query,
		entry.ID,
		entry.AccountID,
		entry.Name,
		entry.Description,
		string(entry.Direction),
		entry.Amount,
		entry.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create ledger entry", "account_id", entry.AccountID.String(), "error", err)
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}

	return nil
}

const entrySelect = `
		SELECT t.id, t.account_id, t.name, t.description, t.direction, t.amount, t.created_at,
		       a.slug, a.name
		FROM bank_transactions t
		JOIN accounts a ON a.id = t.account_id
`

// Recent returns the newest entries first, capped at limit.
func (r *LedgerRepository) Recent(ctx context.Context, limit int, includeCash bool) ([]*ledger.Entry, error) {
	query := entrySelect + `
		WHERE $1 OR a.slug <> $2
		ORDER BY t.created_at DESC
		LIMIT $3
	`

	rows, err := r.querier.Query(ctx, query, includeCash, account.SlugCash, limit)
	if err != nil {
		r.logger.Error("Failed to fetch recent ledger entries", "error", err)
		return nil, fmt.Errorf("failed to fetch recent ledger entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// List returns a newest-first window of entries for pagination.
func (r *LedgerRepository) List(ctx context.Context, limit, offset int, includeCash bool) ([]*ledger.Entry, error) {
	query := entrySelect + `
		WHERE $1 OR a.slug <> $2
		ORDER BY t.created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.querier.Query(ctx, query, includeCash, account.SlugCash, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list ledger entries", "error", err)
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Count returns the total number of entries visible to List.
func (r *LedgerRepository) Count(ctx context.Context, includeCash bool) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM bank_transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE $1 OR a.slug <> $2
	`

	var total int64
	if err := r.querier.QueryRow(ctx, query, includeCash, account.SlugCash).Scan(&total); err != nil {
		r.logger.Error("Failed to count ledger entries", "error", err)
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}

	return total, nil
}

// ListByAccount returns every entry for one account, oldest first.
func (r *LedgerRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*ledger.Entry, error) {
	query := entrySelect + `
		WHERE t.account_id = $1
		ORDER BY t.created_at ASC
	`

	rows, err := r.querier.Query(ctx, query, accountID)
	if err != nil {
		r.logger.Error("Failed to list account ledger entries", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to list account ledger entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]*ledger.Entry, error) {
	var entries []*ledger.Entry
	for rows.Next() {
		var entry ledger.Entry
		var direction string
		if err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.Name,
			&entry.Description,
			&direction,
			&entry.Amount,
			&entry.CreatedAt,
			&entry.AccountSlug,
			&entry.AccountName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entry.Direction = ledger.Direction(direction)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger entries: %w", err)
	}

	return entries, nil
}
