package insights

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifesim-bank/internal/domain/account"
	"github.com/lifesim-bank/internal/domain/ledger"
	"github.com/lifesim-bank/internal/domain/policy"
	"github.com/lifesim-bank/internal/localize"
)

type stubAccounts struct {
	accounts []*account.Account
}

func (s *stubAccounts) Create(ctx context.Context, acc *account.Account) error { return nil }
func (s *stubAccounts) GetBySlug(ctx context.Context, slug string, includeClosed bool) (*account.Account, error) {
	for _, acc := range s.accounts {
		if acc.Slug == slug {
			return acc, nil
		}
	}
	return nil, account.ErrAccountNotFound{Slug: slug}
}
func (s *stubAccounts) List(ctx context.Context, includeClosed bool) ([]*account.Account, error) {
	return s.accounts, nil
}
func (s *stubAccounts) Update(ctx context.Context, acc *account.Account) error { return nil }
func (s *stubAccounts) WithTx(tx pgx.Tx) account.Repository                    { return s }

type stubLedger struct {
	byAccount map[uuid.UUID][]*ledger.Entry
}

func (s *stubLedger) Create(ctx context.Context, entry *ledger.Entry) error { return nil }
func (s *stubLedger) Recent(ctx context.Context, limit int, includeCash bool) ([]*ledger.Entry, error) {
	return nil, nil
}
func (s *stubLedger) List(ctx context.Context, limit, offset int, includeCash bool) ([]*ledger.Entry, error) {
	return nil, nil
}
func (s *stubLedger) Count(ctx context.Context, includeCash bool) (int64, error) { return 0, nil }
func (s *stubLedger) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*ledger.Entry, error) {
	return s.byAccount[accountID], nil
}
func (s *stubLedger) WithTx(tx pgx.Tx) ledger.Repository { return s }

func entryAt(accountID uuid.UUID, direction ledger.Direction, amount string, at time.Time) *ledger.Entry {
	return &ledger.Entry{
		ID:        uuid.New(),
		AccountID: accountID,
		Name:      "Account Transfer",
		Direction: direction,
		Amount:    decimal.RequireFromString(amount),
		CreatedAt: at,
	}
}

func newService(accounts *stubAccounts, entries *stubLedger, today time.Time) *service {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return &service{
		accounts:  accounts,
		ledger:    entries,
		localizer: localize.New(logger, "UTC"),
		logger:    logger,
		now:       func() time.Time { return today },
	}
}

func TestService_BalanceHistory(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	t1 := created.Add(24 * time.Hour)
	t2 := created.Add(48 * time.Hour)
	updated := created.Add(72 * time.Hour)

	acc := &account.Account{
		ID:        uuid.New(),
		Slug:      account.SlugChecking,
		Name:      "Checking Account",
		Balance:   decimal.RequireFromString("80.00"),
		CreatedAt: created,
		UpdatedAt: updated,
	}
	entries := &stubLedger{byAccount: map[uuid.UUID][]*ledger.Entry{
		acc.ID: {
			entryAt(acc.ID, ledger.DirectionCredit, "100.00", t1),
			entryAt(acc.ID, ledger.DirectionDebit, "20.00", t2),
		},
	}}

	svc := newService(&stubAccounts{accounts: []*account.Account{acc}}, entries, updated)

	series, err := svc.BalanceHistory(ctx, acc)
	require.NoError(t, err)
	require.Len(t, series, 4)

	// Starting balance derived from current minus net change: 80 - 80 = 0.
	assert.Equal(t, created, series[0].At)
	assert.True(t, series[0].Value.IsZero())
	assert.True(t, series[1].Value.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, series[2].Value.Equal(decimal.RequireFromString("80.00")))

	// Final point pinned to the account's last update.
	assert.Equal(t, updated, series[3].At)
	assert.True(t, series[3].Value.Equal(decimal.RequireFromString("80.00")))

	t.Run("no entries yields a flat series", func(t *testing.T) {
		bare := &account.Account{
			ID:        uuid.New(),
			Slug:      account.SlugSavings,
			Balance:   decimal.RequireFromString("50.00"),
			CreatedAt: created,
			UpdatedAt: created,
		}
		series, err := svc.BalanceHistory(ctx, bare)
		require.NoError(t, err)
		require.Len(t, series, 1)
		assert.True(t, series[0].Value.Equal(decimal.RequireFromString("50.00")))
	})
}

func TestService_DueCards(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC)
	settings := policy.Defaults()

	cash := &account.Account{ID: uuid.New(), Slug: account.SlugCash, Name: "Cash", Balance: decimal.RequireFromString("280.50")}
	checking := &account.Account{ID: uuid.New(), Slug: account.SlugChecking, Name: "Checking Account", Balance: decimal.RequireFromString("900.00")}
	savings := &account.Account{ID: uuid.New(), Slug: account.SlugSavings, Name: "Savings Account", Balance: decimal.RequireFromString("800.00")}

	svc := newService(&stubAccounts{accounts: []*account.Account{cash, checking, savings}}, &stubLedger{}, today)

	cards, err := svc.DueCards(ctx, settings)
	require.NoError(t, err)
	require.Len(t, cards, 2)

	// Checking is 600 short of the 1500 minimum; fee due at the April 25 anchor.
	assert.Equal(t, StatusFeeDue, cards[0].Status)
	assert.True(t, cards[0].Shortfall.Equal(decimal.RequireFromString("600.00")))
	assert.True(t, cards[0].FeeDue.Equal(decimal.RequireFromString("12.00")))
	assert.Equal(t, time.Date(2026, time.April, 25, 0, 0, 0, 0, time.UTC), cards[0].DueDate)
	assert.Equal(t, "Apr 25, 2026", cards[0].DueDateDisplay)

	// Savings exceeds its 500 minimum; next review at the May 1 anchor.
	assert.Equal(t, StatusSufficient, cards[1].Status)
	assert.True(t, cards[1].Shortfall.IsZero())
	assert.True(t, cards[1].FeeDue.IsZero())
	assert.Equal(t, time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC), cards[1].DueDate)
}

func TestService_AccountProjections(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC)
	settings := policy.Defaults()
	created := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	cash := &account.Account{ID: uuid.New(), Slug: account.SlugCash, Name: "Cash", Balance: decimal.RequireFromString("280.50"), CreatedAt: created, UpdatedAt: created}
	savings := &account.Account{ID: uuid.New(), Slug: account.SlugSavings, Name: "Savings Account", Balance: decimal.RequireFromString("1000.00"), CreatedAt: created, UpdatedAt: created}

	svc := newService(&stubAccounts{accounts: []*account.Account{cash, savings}}, &stubLedger{}, today)

	overview, err := svc.AccountProjections(ctx, settings)
	require.NoError(t, err)
	require.Len(t, overview.Accounts, 1)

	projection := overview.Accounts[0]
	assert.Equal(t, account.SlugSavings, projection.Slug)
	assert.Equal(t, 1, projection.AnchorDay)
	assert.Equal(t, "1st", projection.AnchorDayTag)
	assert.Equal(t, time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC), projection.NextAnchor)
	assert.False(t, projection.CyclePayout.IsNegative())
	require.NotEmpty(t, projection.History)
	assert.NotEmpty(t, overview.Combined)
}
