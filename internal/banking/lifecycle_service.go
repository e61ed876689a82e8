package banking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/lifesim-bank/internal/domain/account"
	"github.com/lifesim-bank/internal/domain/audit"
	"github.com/lifesim-bank/internal/domain/ledger"
	"github.com/lifesim-bank/internal/domain/policy"
	"github.com/lifesim-bank/pkg/money"
)

// Close targets accepted by CloseAccounts.
const (
	CloseTargetAll      = "all"
	CloseTargetChecking = account.SlugChecking
	CloseTargetSavings  = account.SlugSavings
)

type openConfig struct {
	Name     string
	Category string
}

// openConfigs fixes the display identity of each openable account type.
// Validation and opening walk openOrder so error messages are stable.
var openConfigs = map[string]openConfig{
	account.SlugChecking: {Name: "Checking Account", Category: "Checking"},
	account.SlugSavings:  {Name: "Savings Account", Category: "Savings"},
}

var openOrder = []string{account.SlugChecking, account.SlugSavings}

var closureFeeLabels = map[string]string{
	CloseTargetAll:      "Bank",
	CloseTargetChecking: "Checking",
	CloseTargetSavings:  "Savings",
}

// LifecycleService opens and closes deposit accounts.
type LifecycleService interface {
	// OpenAccounts opens (or reactivates) every requested account in one
	// batch. The whole batch is validated before anything is written.
	// Returns a user-facing confirmation message.
	OpenAccounts(ctx context.Context, requests map[string]decimal.Decimal) (string, error)

	// CloseAccounts closes the targeted accounts ("all", "checking", or
	// "savings"), sweeping balances into cash and collecting the
	// configured closure fee capped at available cash.
	CloseAccounts(ctx context.Context, target string) (string, error)
}

type lifecycleService struct {
	db       TxRunner
	accounts account.Repository
	ledger   ledger.Repository
	settings policy.Repository
	recorder audit.Recorder
	logger   *slog.Logger
}

// NewLifecycleService creates a new account lifecycle service
func NewLifecycleService(logger *slog.Logger, db TxRunner, accounts account.Repository, entries ledger.Repository, settings policy.Repository, recorder audit.Recorder) LifecycleService {
	return &lifecycleService{
		db:       db,
		accounts: accounts,
		ledger:   entries,
		settings: settings,
		recorder: recorder,
		logger:   logger,
	}
}

type openSelection struct {
	slug     string
	config   openConfig
	amount   decimal.Decimal
	existing *account.Account
}

func (s *lifecycleService) OpenAccounts(ctx context.Context, requests map[string]decimal.Decimal) (string, error) {
	if len(requests) == 0 {
		return "", ValidationError{Messages: []string{"Select at least one account to open."}}
	}

	var message string
	err := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		accounts := s.accounts.WithTx(tx)
		entries := s.ledger.WithTx(tx)

		current, err := s.settings.WithTx(tx).Get(ctx)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("bank settings missing; bootstrap has not run")
		}

		minimums := map[string]decimal.Decimal{
			account.SlugChecking: money.Quantize(current.CheckingOpeningDeposit),
			account.SlugSavings:  money.Quantize(current.SavingsOpeningDeposit),
		}

		var problems []string
		var selections []openSelection

		for _, slug := range openOrder {
			amount, requested := requests[slug]
			if !requested {
				continue
			}
			config := openConfigs[slug]
			label := strings.ToLower(config.Name)

			existing, err := accounts.GetBySlug(ctx, slug, true)
			if err != nil && !errors.Is(err, account.ErrAccountNotFound{}) {
				return err
			}
			if existing != nil && !existing.Closed {
				problems = append(problems, ErrAlreadyOpen{Name: config.Name}.Error())
				continue
			}

			amount = money.Quantize(amount)
			if amount.LessThan(minimums[slug]) {
				problems = append(problems, fmt.Sprintf("Deposit at least %s to open the %s.", money.Format(minimums[slug]), label))
				continue
			}
			if !amount.IsPositive() {
				problems = append(problems, fmt.Sprintf("Deposit a positive amount for the %s.", label))
				continue
			}

			selections = append(selections, openSelection{slug: slug, config: config, amount: amount, existing: existing})
		}

		if len(problems) > 0 {
			return ValidationError{Messages: problems}
		}
		if len(selections) == 0 {
			return ValidationError{Messages: []string{"Choose an account to open and include a starting deposit."}}
		}

		cash, err := accounts.GetBySlug(ctx, account.SlugCash, false)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for _, sel := range selections {
			total = total.Add(sel.amount)
		}
		if cash.Balance.LessThan(total) {
			return account.ErrInsufficientFunds{AccountName: cashName, Available: cash.Balance}
		}

		var openedNames []string
		for _, sel := range selections {
			opened := sel.existing
			if opened != nil {
				opened.Name = sel.config.Name
				opened.Category = sel.config.Category
				opened.Balance = sel.amount
				opened.Closed = false
				opened.UpdatedAt = time.Now().UTC()
				if err := accounts.Update(ctx, opened); err != nil {
					return err
				}
			} else {
				opened, err = account.New(sel.slug, sel.config.Name, sel.config.Category, sel.amount)
				if err != nil {
					return err
				}
				if err := accounts.Create(ctx, opened); err != nil {
					return err
				}
			}

			entry, err := ledger.NewEntry(opened.ID, "Initial Deposit", "Opening deposit for "+sel.config.Name, ledger.DirectionCredit, sel.amount)
			if err != nil {
				return err
			}
			if err := entries.Create(ctx, entry); err != nil {
				return err
			}

			openedNames = append(openedNames, opened.Name)
		}

		if err := cash.Debit(total); err != nil {
			return err
		}
		if err := accounts.Update(ctx, cash); err != nil {
			return err
		}

		message = fmt.Sprintf("Opened %s with %s transferred from cash.", strings.Join(openedNames, ", "), money.Format(total))
		return nil
	})
	if err != nil {
		var validation ValidationError
		var insufficient account.ErrInsufficientFunds
		switch {
		case errors.As(err, &validation):
			s.recordOpen(ctx, audit.LevelWarn, audit.ResultError, "Account opening rejected", validation.Error())
			return "", validation
		case errors.As(err, &insufficient):
			summary := fmt.Sprintf("Cash only has %s available. Lower the deposits before opening accounts.", money.Format(insufficient.Available))
			s.recordOpen(ctx, audit.LevelWarn, audit.ResultError, "Account opening rejected", summary)
			return "", insufficient
		default:
			s.logger.Error("Account opening failed", "error", err)
			s.recordOpen(ctx, audit.LevelError, audit.ResultError, "Account opening failed", "The new accounts could not be created.")
			return "", PersistenceError{Op: "account opening", Err: err}
		}
	}

	s.recordOpen(ctx, audit.LevelInfo, audit.ResultSuccess, "Bank accounts opened", message)
	checkCashHealth(ctx, s.accounts, s.recorder)
	return message, nil
}

func (s *lifecycleService) CloseAccounts(ctx context.Context, target string) (string, error) {
	if target != CloseTargetAll && target != CloseTargetChecking && target != CloseTargetSavings {
		return "", ValidationError{Messages: []string{"Choose a valid closure target."}}
	}

	slugs := []string{target}
	if target == CloseTargetAll {
		slugs = openOrder
	}

	var message string
	err := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		accounts := s.accounts.WithTx(tx)
		entries := s.ledger.WithTx(tx)

		current, err := s.settings.WithTx(tx).Get(ctx)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("bank settings missing; bootstrap has not run")
		}

		var toClose []*account.Account
		for _, slug := range slugs {
			acc, err := accounts.GetBySlug(ctx, slug, false)
			if err != nil {
				if errors.Is(err, account.ErrAccountNotFound{}) {
					continue
				}
				return err
			}
			toClose = append(toClose, acc)
		}
		if len(toClose) == 0 {
			return ErrAlreadyClosed{Target: target}
		}

		cash, err := accounts.GetBySlug(ctx, account.SlugCash, false)
		if err != nil {
			return err
		}

		swept := decimal.Zero
		var closedNames []string
		for _, acc := range toClose {
			balance := money.Quantize(acc.Balance)
			closedNames = append(closedNames, acc.Name)

			if balance.IsPositive() {
				debit, err := ledger.NewEntry(acc.ID, "Account Closed", "Account closed and funds moved to cash.", ledger.DirectionDebit, balance)
				if err != nil {
					return err
				}
				if err := entries.Create(ctx, debit); err != nil {
					return err
				}

				credit, err := ledger.NewEntry(cash.ID, acc.Name+" Closure Transfer", fmt.Sprintf("Funds from %s moved to cash during closure.", acc.Name), ledger.DirectionCredit, balance)
				if err != nil {
					return err
				}
				if err := entries.Create(ctx, credit); err != nil {
					return err
				}

				swept = swept.Add(balance)
			}

			acc.Balance = decimal.Zero
			acc.Closed = true
			acc.UpdatedAt = time.Now().UTC()
			if err := accounts.Update(ctx, acc); err != nil {
				return err
			}
		}

		if swept.IsPositive() {
			if err := cash.Credit(swept); err != nil {
				return err
			}
		}

		fee := closureFee(current, target)
		collected := decimal.Zero
		if fee.IsPositive() {
			collectable := decimal.Min(money.Quantize(cash.Balance), fee)
			if collectable.IsPositive() {
				if err := cash.Debit(collectable); err != nil {
					return err
				}
				feeEntry, err := ledger.NewEntry(cash.ID, "Closure Fee", fmt.Sprintf("%s closure fee collected during account closure.", closureFeeLabels[target]), ledger.DirectionDebit, collectable)
				if err != nil {
					return err
				}
				if err := entries.Create(ctx, feeEntry); err != nil {
					return err
				}
				collected = collectable
			}
		}

		if err := accounts.Update(ctx, cash); err != nil {
			return err
		}

		feeMessage := " No closure fee was applied."
		if collected.IsPositive() {
			feeMessage = fmt.Sprintf(" Collected a %s closure fee.", money.Format(collected))
		}
		message = fmt.Sprintf("Closed %s and moved %s to cash.%s", strings.Join(closedNames, ", "), money.Format(swept), feeMessage)
		return nil
	})
	if err != nil {
		var alreadyClosed ErrAlreadyClosed
		if errors.As(err, &alreadyClosed) {
			return "", alreadyClosed
		}
		s.logger.Error("Account closure failed", "target", target, "error", err)
		s.recorder.Record(ctx, audit.Event{
			Component:        componentBanking,
			Action:           "close-accounts",
			Level:            audit.LevelError,
			Result:           audit.ResultError,
			Title:            "Account closure failed",
			UserSummary:      "Accounts could not be closed due to a database error.",
			TechnicalDetails: fmt.Sprintf("banking.close_accounts encountered %v", err),
		})
		return "", PersistenceError{Op: "account closure", Err: err}
	}

	s.recorder.Record(ctx, audit.Event{
		Component:        componentBanking,
		Action:           "close-accounts",
		Level:            audit.LevelInfo,
		Result:           audit.ResultSuccess,
		Title:            "Accounts closed",
		UserSummary:      message,
		TechnicalDetails: "banking.close_accounts transferred balances and updated account status.",
	})

	checkCashHealth(ctx, s.accounts, s.recorder)
	return message, nil
}

func (s *lifecycleService) recordOpen(ctx context.Context, level audit.Level, result, title, summary string) {
	s.recorder.Record(ctx, audit.Event{
		Component:        componentBanking,
		Action:           "open-account",
		Level:            level,
		Result:           result,
		Title:            title,
		UserSummary:      summary,
		TechnicalDetails: "banking.open_accounts validated requests against policy and cash reserves.",
	})
}

func closureFee(settings *policy.Settings, target string) decimal.Decimal {
	switch target {
	case CloseTargetChecking:
		return money.Quantize(settings.CheckingClosureFee)
	case CloseTargetSavings:
		return money.Quantize(settings.SavingsClosureFee)
	default:
		return money.Quantize(settings.BankClosureFee)
	}
}
