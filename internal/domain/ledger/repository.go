package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository manages ledger entry persistence. Entries are append-only:
// there is no update or delete.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error

	// Recent returns the newest entries first, capped at limit. The cash
	// account's rows are excluded unless includeCash is set, since cash is
	// the unlogged reservoir in ledger displays.
	Recent(ctx context.Context, limit int, includeCash bool) ([]*Entry, error)

	// List returns a newest-first window of entries for pagination.
	List(ctx context.Context, limit, offset int, includeCash bool) ([]*Entry, error)

	// Count returns the total number of entries visible to List.
	Count(ctx context.Context, includeCash bool) (int64, error)

	// ListByAccount returns every entry for one account, oldest first,
	// for balance-history reconstruction.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*Entry, error)

	WithTx(tx pgx.Tx) Repository
}

// Page is one window of the paginated ledger.
type Page struct {
	Items      []*Entry
	Total      int64
	Page       int
	PerPage    int
	TotalPages int
}
