package banking

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/lifesim-bank/internal/domain/account"
	"github.com/lifesim-bank/internal/domain/audit"
	"github.com/lifesim-bank/internal/domain/ledger"
	"github.com/lifesim-bank/internal/domain/policy"
)

// In-memory fakes modeling the store's transactional behavior: reads hand
// out copies, writes land on Update/Create, and the test runner restores a
// snapshot when the transaction function fails.

type memStore struct {
	accounts []*account.Account
	entries  []*ledger.Entry
	settings *policy.Settings
}

func (s *memStore) clone() *memStore {
	copied := &memStore{}
	for _, acc := range s.accounts {
		dup := *acc
		copied.accounts = append(copied.accounts, &dup)
	}
	for _, entry := range s.entries {
		dup := *entry
		copied.entries = append(copied.entries, &dup)
	}
	if s.settings != nil {
		dup := *s.settings
		copied.settings = &dup
	}
	return copied
}

func (s *memStore) restore(from *memStore) {
	s.accounts = from.accounts
	s.entries = from.entries
	s.settings = from.settings
}

func (s *memStore) accountByID(id uuid.UUID) *account.Account {
	for _, acc := range s.accounts {
		if acc.ID == id {
			return acc
		}
	}
	return nil
}

type memTxRunner struct {
	store *memStore
}

func (r *memTxRunner) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	snapshot := r.store.clone()
	if err := fn(nil); err != nil {
		r.store.restore(snapshot)
		return err
	}
	return nil
}

type memAccounts struct {
	store       *memStore
	failUpdates bool
}

func (m *memAccounts) Create(ctx context.Context, acc *account.Account) error {
	for _, existing := range m.store.accounts {
		if existing.Slug == acc.Slug {
			return account.ErrDuplicateAccount{Slug: acc.Slug}
		}
	}
	dup := *acc
	m.store.accounts = append(m.store.accounts, &dup)
	return nil
}

func (m *memAccounts) GetBySlug(ctx context.Context, slug string, includeClosed bool) (*account.Account, error) {
	for _, acc := range m.store.accounts {
		if acc.Slug != slug {
			continue
		}
		if acc.Closed && !includeClosed {
			return nil, account.ErrAccountNotFound{Slug: slug}
		}
		dup := *acc
		return &dup, nil
	}
	return nil, account.ErrAccountNotFound{Slug: slug}
}

func (m *memAccounts) List(ctx context.Context, includeClosed bool) ([]*account.Account, error) {
	var result []*account.Account
	for _, acc := range m.store.accounts {
		if acc.Closed && !includeClosed {
			continue
		}
		dup := *acc
		result = append(result, &dup)
	}
	return result, nil
}

func (m *memAccounts) Update(ctx context.Context, acc *account.Account) error {
	if m.failUpdates {
		return errors.New("simulated storage failure")
	}
	stored := m.store.accountByID(acc.ID)
	if stored == nil {
		return account.ErrAccountNotFound{Slug: acc.Slug}
	}
	*stored = *acc
	return nil
}

func (m *memAccounts) WithTx(tx pgx.Tx) account.Repository { return m }

type memLedger struct {
	store *memStore
}

func (m *memLedger) isCashEntry(entry *ledger.Entry) bool {
	acc := m.store.accountByID(entry.AccountID)
	return acc != nil && acc.Slug == account.SlugCash
}

func (m *memLedger) Create(ctx context.Context, entry *ledger.Entry) error {
	dup := *entry
	m.store.entries = append(m.store.entries, &dup)
	return nil
}

func (m *memLedger) visible(includeCash bool) []*ledger.Entry {
	var result []*ledger.Entry
	for i := len(m.store.entries) - 1; i >= 0; i-- {
		entry := m.store.entries[i]
		if !includeCash && m.isCashEntry(entry) {
			continue
		}
		dup := *entry
		result = append(result, &dup)
	}
	return result
}

func (m *memLedger) Recent(ctx context.Context, limit int, includeCash bool) ([]*ledger.Entry, error) {
	entries := m.visible(includeCash)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *memLedger) List(ctx context.Context, limit, offset int, includeCash bool) ([]*ledger.Entry, error) {
	entries := m.visible(includeCash)
	if offset >= len(entries) {
		return nil, nil
	}
	entries = entries[offset:]
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *memLedger) Count(ctx context.Context, includeCash bool) (int64, error) {
	return int64(len(m.visible(includeCash))), nil
}

func (m *memLedger) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*ledger.Entry, error) {
	var result []*ledger.Entry
	for _, entry := range m.store.entries {
		if entry.AccountID == accountID {
			dup := *entry
			result = append(result, &dup)
		}
	}
	return result, nil
}

func (m *memLedger) WithTx(tx pgx.Tx) ledger.Repository { return m }

type memSettings struct {
	store *memStore
}

func (m *memSettings) Get(ctx context.Context) (*policy.Settings, error) {
	if m.store.settings == nil {
		return nil, nil
	}
	dup := *m.store.settings
	return &dup, nil
}

func (m *memSettings) Create(ctx context.Context, s *policy.Settings) error {
	dup := *s
	m.store.settings = &dup
	return nil
}

func (m *memSettings) Update(ctx context.Context, s *policy.Settings) error {
	dup := *s
	m.store.settings = &dup
	return nil
}

func (m *memSettings) WithTx(tx pgx.Tx) policy.Repository { return m }

type captureRecorder struct {
	events []audit.Event
}

func (r *captureRecorder) Record(ctx context.Context, event audit.Event) {
	r.events = append(r.events, event)
}

func (r *captureRecorder) byAction(action string) []audit.Event {
	var result []audit.Event
	for _, event := range r.events {
		if event.Action == action {
			result = append(result, event)
		}
	}
	return result
}

// harness wires every service against one shared in-memory store.
type harness struct {
	store    *memStore
	accounts *memAccounts
	ledger   *memLedger
	settings *memSettings
	recorder *captureRecorder

	bootstrap BootstrapService
	transfers TransferService
	lifecycle LifecycleService
	policies  SettingsService
	reads     LedgerService
}

func newHarness() *harness {
	store := &memStore{settings: policy.Defaults()}
	accounts := &memAccounts{store: store}
	entries := &memLedger{store: store}
	settings := &memSettings{store: store}
	recorder := &captureRecorder{}
	runner := &memTxRunner{store: store}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	return &harness{
		store:     store,
		accounts:  accounts,
		ledger:    entries,
		settings:  settings,
		recorder:  recorder,
		bootstrap: NewBootstrapService(logger, runner, accounts, settings),
		transfers: NewTransferService(logger, runner, accounts, entries, recorder),
		lifecycle: NewLifecycleService(logger, runner, accounts, entries, settings, recorder),
		policies:  NewSettingsService(logger, runner, settings, recorder),
		reads:     NewLedgerService(logger, accounts, entries, settings),
	}
}

func (h *harness) seedAccount(slug, name, category, balance string) *account.Account {
	acc, err := account.New(slug, name, category, decimal.RequireFromString(balance))
	if err != nil {
		panic(err)
	}
	h.store.accounts = append(h.store.accounts, acc)
	return acc
}

func (h *harness) balance(slug string) decimal.Decimal {
	for _, acc := range h.store.accounts {
		if acc.Slug == slug {
			return acc.Balance
		}
	}
	return decimal.Zero
}
