package banking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/lifesim-bank/internal/domain/audit"
	"github.com/lifesim-bank/internal/domain/policy"
	"github.com/lifesim-bank/pkg/money"
)

// SettingsUpdate carries a full replacement of the editable policy fields.
type SettingsUpdate struct {
	BankName            string
	StandardFee         decimal.Decimal
	SavingsInterestRate decimal.Decimal

	CheckingMinimumBalance decimal.Decimal
	CheckingMinimumFee     decimal.Decimal
	CheckingAnchorDay      int
	CheckingOpeningDeposit decimal.Decimal

	SavingsMinimumBalance decimal.Decimal
	SavingsMinimumFee     decimal.Decimal
	SavingsAnchorDay      int
	SavingsOpeningDeposit decimal.Decimal

	BankClosureFee     decimal.Decimal
	CheckingClosureFee decimal.Decimal
	SavingsClosureFee  decimal.Decimal
}

// SettingsService reads and updates the bank's policy singleton.
type SettingsService interface {
	// Current returns the settings singleton. The bootstrap must have run.
	Current(ctx context.Context) (*policy.Settings, error)

	// Update validates every field and applies the whole update, or none
	// of it. Returns the persisted settings.
	Update(ctx context.Context, update SettingsUpdate) (*policy.Settings, error)
}

type settingsService struct {
	db       TxRunner
	settings policy.Repository
	recorder audit.Recorder
	logger   *slog.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(logger *slog.Logger, db TxRunner, settings policy.Repository, recorder audit.Recorder) SettingsService {
	return &settingsService{
		db:       db,
		settings: settings,
		recorder: recorder,
		logger:   logger,
	}
}

func (s *settingsService) Current(ctx context.Context) (*policy.Settings, error) {
	current, err := s.settings.Get(ctx)
	if err != nil {
		return nil, PersistenceError{Op: "settings lookup", Err: err}
	}
	if current == nil {
		return nil, fmt.Errorf("bank settings missing; bootstrap has not run")
	}
	return current, nil
}

func (s *settingsService) Update(ctx context.Context, update SettingsUpdate) (*policy.Settings, error) {
	if problems := validateSettingsUpdate(update); len(problems) > 0 {
		validation := ValidationError{Messages: problems}
		s.recorder.Record(ctx, audit.Event{
			Component:        componentBanking,
			Action:           "update-settings",
			Level:            audit.LevelWarn,
			Result:           audit.ResultError,
			Title:            "Settings update rejected",
			UserSummary:      validation.Error(),
			TechnicalDetails: "banking.update_settings rejected the request; no field was applied.",
		})
		return nil, validation
	}

	var updated *policy.Settings
	err := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		settings := s.settings.WithTx(tx)

		current, err := settings.Get(ctx)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("bank settings missing; bootstrap has not run")
		}

		current.BankName = update.BankName
		current.StandardFee = money.Quantize(update.StandardFee)
		current.SavingsInterestRate = money.QuantizeRate(update.SavingsInterestRate)
		current.CheckingMinimumBalance = money.Quantize(update.CheckingMinimumBalance)
		current.CheckingMinimumFee = money.Quantize(update.CheckingMinimumFee)
		current.CheckingAnchorDay = update.CheckingAnchorDay
		current.CheckingOpeningDeposit = money.Quantize(update.CheckingOpeningDeposit)
		current.SavingsMinimumBalance = money.Quantize(update.SavingsMinimumBalance)
		current.SavingsMinimumFee = money.Quantize(update.SavingsMinimumFee)
		current.SavingsAnchorDay = update.SavingsAnchorDay
		current.SavingsOpeningDeposit = money.Quantize(update.SavingsOpeningDeposit)
		current.BankClosureFee = money.Quantize(update.BankClosureFee)
		current.CheckingClosureFee = money.Quantize(update.CheckingClosureFee)
		current.SavingsClosureFee = money.Quantize(update.SavingsClosureFee)
		current.UpdatedAt = time.Now().UTC()

		if err := settings.Update(ctx, current); err != nil {
			return err
		}

		updated = current
		return nil
	})
	if err != nil {
		s.logger.Error("Settings update failed", "error", err)
		s.recorder.Record(ctx, audit.Event{
			Component:        componentBanking,
			Action:           "update-settings",
			Level:            audit.LevelError,
			Result:           audit.ResultError,
			Title:            "Settings update failed",
			UserSummary:      "Banking settings could not be saved. Try again shortly.",
			TechnicalDetails: fmt.Sprintf("banking.update_settings encountered %v", err),
		})
		return nil, PersistenceError{Op: "settings update", Err: err}
	}

	s.recorder.Record(ctx, audit.Event{
		Component:        componentBanking,
		Action:           "update-settings",
		Level:            audit.LevelInfo,
		Result:           audit.ResultSuccess,
		Title:            "Banking settings updated",
		UserSummary:      fmt.Sprintf("Saved configuration for %s.", updated.BankName),
		TechnicalDetails: "banking.update_settings persisted the full policy row.",
	})

	return updated, nil
}

func validateSettingsUpdate(update SettingsUpdate) []string {
	var problems []string

	if update.BankName == "" {
		problems = append(problems, "Provide a name for the banking system.")
	}

	nonNegative := []struct {
		value   decimal.Decimal
		message string
	}{
		{update.StandardFee, "Enter a valid, non-negative fee amount."},
		{update.SavingsInterestRate, "Enter a valid, non-negative savings interest rate."},
		{update.CheckingMinimumBalance, "Enter a valid, non-negative checking minimum balance."},
		{update.CheckingMinimumFee, "Enter a valid, non-negative checking fee amount."},
		{update.CheckingOpeningDeposit, "Enter a valid, non-negative checking opening deposit."},
		{update.SavingsMinimumBalance, "Enter a valid, non-negative savings minimum balance."},
		{update.SavingsMinimumFee, "Enter a valid, non-negative savings fee amount."},
		{update.SavingsOpeningDeposit, "Enter a valid, non-negative savings opening deposit."},
		{update.BankClosureFee, "Enter a valid, non-negative bank closure fee."},
		{update.CheckingClosureFee, "Enter a valid, non-negative checking closure fee."},
		{update.SavingsClosureFee, "Enter a valid, non-negative savings closure fee."},
	}
	for _, check := range nonNegative {
		if check.value.IsNegative() {
			problems = append(problems, check.message)
		}
	}

	if update.CheckingAnchorDay < 1 || update.CheckingAnchorDay > 31 {
		problems = append(problems, "Enter a checking anchor day between 1 and 31.")
	}
	if update.SavingsAnchorDay < 1 || update.SavingsAnchorDay > 31 {
		problems = append(problems, "Enter a savings anchor day between 1 and 31.")
	}

	return problems
}
