package insights

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lifesim-bank/internal/domain/account"
	"github.com/lifesim-bank/internal/domain/ledger"
	"github.com/lifesim-bank/internal/domain/policy"
	"github.com/lifesim-bank/internal/localize"
	"github.com/lifesim-bank/pkg/calendar"
	"github.com/lifesim-bank/pkg/money"
)

// Due card statuses.
const (
	StatusFeeDue     = "fee-due"
	StatusSufficient = "sufficient"
)

// DueCard summarizes one account's standing against its minimum balance
// requirement ahead of the next anchor date.
type DueCard struct {
	Slug           string          `json:"slug"`
	Name           string          `json:"name"`
	Balance        decimal.Decimal `json:"balance"`
	MinimumBalance decimal.Decimal `json:"minimum_balance"`
	Shortfall      decimal.Decimal `json:"shortfall"`
	FeeDue         decimal.Decimal `json:"fee_due"`
	Status         string          `json:"status"`
	DueDate        time.Time       `json:"due_date"`
	DueDateDisplay string          `json:"due_date_display"`
	Message        string          `json:"message"`
}

// Service computes insight views over accounts and their ledgers.
type Service interface {
	// BalanceHistory reconstructs an account's balance series by
	// replaying its ledger oldest-first.
	BalanceHistory(ctx context.Context, acc *account.Account) ([]Point, error)

	// AccountProjections builds per-account interest projections and a
	// combined deposit balance series for every open deposit account.
	AccountProjections(ctx context.Context, settings *policy.Settings) (*Overview, error)

	// DueCards evaluates every open deposit account against its minimum
	// balance policy.
	DueCards(ctx context.Context, settings *policy.Settings) ([]DueCard, error)
}

// AccountProjection pairs one account with its derived series.
type AccountProjection struct {
	Slug         string          `json:"slug"`
	Name         string          `json:"name"`
	History      []Point         `json:"history"`
	Interest     Projection      `json:"interest"`
	CyclePayout  decimal.Decimal `json:"cycle_payout"`
	CycleDays    int             `json:"cycle_days"`
	NextAnchor   time.Time       `json:"next_anchor"`
	AnchorDay    int             `json:"anchor_day"`
	AnchorDayTag string          `json:"anchor_day_tag"`
}

// Overview is the full insights payload.
type Overview struct {
	Accounts []AccountProjection `json:"accounts"`
	Combined []Point             `json:"combined"`
}

type service struct {
	accounts  account.Repository
	ledger    ledger.Repository
	localizer *localize.Localizer
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a new insights service
func NewService(logger *slog.Logger, accounts account.Repository, entries ledger.Repository, localizer *localize.Localizer) Service {
	return &service{
		accounts:  accounts,
		ledger:    entries,
		localizer: localizer,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) BalanceHistory(ctx context.Context, acc *account.Account) ([]Point, error) {
	entries, err := s.ledger.ListByAccount(ctx, acc.ID)
	if err != nil {
		return nil, err
	}

	net := decimal.Zero
	for _, entry := range entries {
		net = net.Add(entry.Signed())
	}
	start := money.Quantize(acc.Balance.Sub(net))

	series := []Point{{At: acc.CreatedAt.UTC(), Value: start}}
	running := start
	for _, entry := range entries {
		running = money.Quantize(running.Add(entry.Signed()))
		series = append(series, Point{At: entry.CreatedAt.UTC(), Value: running})
	}

	last := series[len(series)-1]
	if acc.UpdatedAt.UTC().After(last.At) {
		series = append(series, Point{At: acc.UpdatedAt.UTC(), Value: money.Quantize(acc.Balance)})
	} else {
		series[len(series)-1].Value = money.Quantize(acc.Balance)
	}

	return series, nil
}

// anchorDayFor returns the policy anchor day for a deposit account type.
func anchorDayFor(slug string, settings *policy.Settings) int {
	if slug == account.SlugSavings {
		return settings.SavingsAnchorDay
	}
	return settings.CheckingAnchorDay
}

func (s *service) AccountProjections(ctx context.Context, settings *policy.Settings) (*Overview, error) {
	accounts, err := s.accounts.List(ctx, false)
	if err != nil {
		return nil, err
	}
	today := s.now()

	overview := &Overview{}
	var combined []Point
	for _, acc := range accounts {
		if acc.IsCash() {
			continue
		}

		history, err := s.BalanceHistory(ctx, acc)
		if err != nil {
			return nil, err
		}

		rate := decimal.Zero
		if acc.Slug == account.SlugSavings {
			rate = settings.SavingsInterestRate
		}

		anchorDay := anchorDayFor(acc.Slug, settings)
		projection := AccountProjection{
			Slug:         acc.Slug,
			Name:         acc.Name,
			History:      history,
			Interest:     ProjectInterest(history, rate),
			CyclePayout:  EstimateCyclePayout(acc.Balance, rate, anchorDay, today),
			CycleDays:    calendar.CycleDays(anchorDay, today),
			NextAnchor:   calendar.NextAnchor(anchorDay, today),
			AnchorDay:    anchorDay,
			AnchorDayTag: calendar.Ordinal(anchorDay),
		}
		overview.Accounts = append(overview.Accounts, projection)
		combined = Combine(combined, history)
	}
	overview.Combined = combined

	return overview, nil
}

func (s *service) DueCards(ctx context.Context, settings *policy.Settings) ([]DueCard, error) {
	accounts, err := s.accounts.List(ctx, false)
	if err != nil {
		return nil, err
	}
	today := s.now()

	var cards []DueCard
	for _, acc := range accounts {
		if acc.IsCash() {
			continue
		}

		minimum := settings.CheckingMinimumBalance
		fee := settings.CheckingMinimumFee
		if acc.Slug == account.SlugSavings {
			minimum = settings.SavingsMinimumBalance
			fee = settings.SavingsMinimumFee
		}
		minimum = money.Quantize(minimum)
		fee = money.Quantize(fee)

		anchorDay := anchorDayFor(acc.Slug, settings)
		due := calendar.NextAnchor(anchorDay, today)

		card := DueCard{
			Slug:           acc.Slug,
			Name:           acc.Name,
			Balance:        money.Quantize(acc.Balance),
			MinimumBalance: minimum,
			DueDate:        due,
			DueDateDisplay: s.localizer.FormatDate(due),
		}

		shortfall := minimum.Sub(acc.Balance)
		if shortfall.IsPositive() {
			card.Shortfall = money.Quantize(shortfall)
			card.FeeDue = fee
			card.Status = StatusFeeDue
			card.Message = money.Format(fee) + " fee due on the " + calendar.Ordinal(anchorDay) + " unless the balance reaches " + money.Format(minimum) + "."
		} else {
			card.Shortfall = decimal.Zero
			card.FeeDue = decimal.Zero
			card.Status = StatusSufficient
			card.Message = "Balance meets the " + money.Format(minimum) + " minimum. Next review on the " + calendar.Ordinal(anchorDay) + "."
		}

		cards = append(cards, card)
	}

	return cards, nil
}
