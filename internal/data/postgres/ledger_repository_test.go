package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifesim-bank/internal/domain/account"
	"github.com/lifesim-bank/internal/domain/ledger"
)

var entryColumns = []string{"id", "account_id", "name", "description", "direction", "amount", "created_at", "slug", "account_name"}

func testEntry() *ledger.Entry {
	return &ledger.Entry{
		ID:          uuid.New(),
		AccountID:   uuid.New(),
		Name:        "Cash Withdrawal",
		Description: "Withdrawal from Checking Account",
		Direction:   ledger.DirectionDebit,
		Amount:      decimal.NewFromFloat(50.00),
		CreatedAt:   time.Now().UTC(),
		AccountSlug: account.SlugChecking,
		AccountName: "Checking Account",
	}
}

func addEntryRow(rows *pgxmock.Rows, e *ledger.Entry) *pgxmock.Rows {
	return rows.AddRow(e.ID, e.AccountID, e.Name, e.Description, string(e.Direction), e.Amount, e.CreatedAt, e.AccountSlug, e.AccountName)
}

func TestLedgerRepository_Create(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &LedgerRepository{querier: mock, logger: logger}
	entry := testEntry()

	query := `
		INSERT INTO bank_transactions \(id, account_id, name, description, direction, amount, created_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7\)
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(entry.ID, entry.AccountID, entry.Name, entry.Description, string(entry.Direction), entry.Amount, entry.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Create(ctx, entry)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid direction", func(t *testing.T) {
		bad := testEntry()
		bad.Direction = ledger.Direction("sideways")

		err := repo.Create(ctx, bad)
		assert.ErrorIs(t, err, ledger.ErrInvalidDirection)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-positive amount", func(t *testing.T) {
		bad := testEntry()
		bad.Amount = decimal.Zero

		err := repo.Create(ctx, bad)
		assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(entry.ID, entry.AccountID, entry.Name, entry.Description, string(entry.Direction), entry.Amount, entry.CreatedAt).
			WillReturnError(expectedErr)

		err := repo.Create(ctx, entry)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create ledger entry")
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerRepository_Recent(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &LedgerRepository{querier: mock, logger: logger}
	entry := testEntry()

	query := `
		SELECT t\.id, t\.account_id, t\.name, t\.description, t\.direction, t\.amount, t\.created_at,
		       a\.slug, a\.name
		FROM bank_transactions t
		JOIN accounts a ON a\.id = t\.account_id

		WHERE \$1 OR a\.slug <> \$2
		ORDER BY t\.created_at DESC
		LIMIT \$3
	`

	t.Run("success", func(t *testing.T) {
		rows := addEntryRow(pgxmock.NewRows(entryColumns), entry)
		mock.ExpectQuery(query).WithArgs(false, account.SlugCash, 5).WillReturnRows(rows)

		entries, err := repo.Recent(ctx, 5, false)
		assert.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, entry, entries[0])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectQuery(query).WithArgs(false, account.SlugCash, 5).WillReturnError(expectedErr)

		entries, err := repo.Recent(ctx, 5, false)
		assert.Error(t, err)
		assert.Nil(t, entries)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerRepository_List(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &LedgerRepository{querier: mock, logger: logger}
	entry := testEntry()

	query := `
		SELECT t\.id, t\.account_id, t\.name, t\.description, t\.direction, t\.amount, t\.created_at,
		       a\.slug, a\.name
		FROM bank_transactions t
		JOIN accounts a ON a\.id = t\.account_id

		WHERE \$1 OR a\.slug <> \$2
		ORDER BY t\.created_at DESC
		LIMIT \$3 OFFSET \$4
	`

	t.Run("success", func(t *testing.T) {
		rows := addEntryRow(pgxmock.NewRows(entryColumns), entry)
		mock.ExpectQuery(query).WithArgs(true, account.SlugCash, 20, 40).WillReturnRows(rows)

		entries, err := repo.List(ctx, 20, 40, true)
		assert.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, entry, entries[0])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectQuery(query).WithArgs(true, account.SlugCash, 20, 40).WillReturnError(expectedErr)

		entries, err := repo.List(ctx, 20, 40, true)
		assert.Error(t, err)
		assert.Nil(t, entries)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerRepository_Count(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &LedgerRepository{querier: mock, logger: logger}

	query := `
		SELECT COUNT\(\*\)
		FROM bank_transactions t
		JOIN accounts a ON a\.id = t\.account_id
		WHERE \$1 OR a\.slug <> \$2
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"count"}).AddRow(int64(42))
		mock.ExpectQuery(query).WithArgs(false, account.SlugCash).WillReturnRows(rows)

		total, err := repo.Count(ctx, false)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectQuery(query).WithArgs(false, account.SlugCash).WillReturnError(expectedErr)

		total, err := repo.Count(ctx, false)
		assert.Error(t, err)
		assert.Zero(t, total)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerRepository_ListByAccount(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &LedgerRepository{querier: mock, logger: logger}
	entry := testEntry()

	query := `
		SELECT t\.id, t\.account_id, t\.name, t\.description, t\.direction, t\.amount, t\.created_at,
		       a\.slug, a\.name
		FROM bank_transactions t
		JOIN accounts a ON a\.id = t\.account_id

		WHERE t\.account_id = \$1
		ORDER BY t\.created_at ASC
	`

	t.Run("success", func(t *testing.T) {
		rows := addEntryRow(pgxmock.NewRows(entryColumns), entry)
		mock.ExpectQuery(query).WithArgs(entry.AccountID).WillReturnRows(rows)

		entries, err := repo.ListByAccount(ctx, entry.AccountID)
		assert.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, entry, entries[0])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectQuery(query).WithArgs(entry.AccountID).WillReturnError(expectedErr)

		entries, err := repo.ListByAccount(ctx, entry.AccountID)
		assert.Error(t, err)
		assert.Nil(t, entries)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
