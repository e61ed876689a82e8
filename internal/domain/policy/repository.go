package policy

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository manages the settings singleton
type Repository interface {
	// Get returns the settings row, or nil when none exists yet.
	Get(ctx context.Context) (*Settings, error)

	Create(ctx context.Context, settings *Settings) error

	Update(ctx context.Context, settings *Settings) error

	WithTx(tx pgx.Tx) Repository
}
