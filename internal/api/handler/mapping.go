package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lifesim-bank/internal/banking"
	"github.com/lifesim-bank/internal/domain/account"
	"github.com/lifesim-bank/internal/domain/ledger"
	"github.com/lifesim-bank/internal/domain/policy"
	"github.com/lifesim-bank/internal/insights"
	"github.com/lifesim-bank/internal/localize"
	"github.com/lifesim-bank/pkg/money"
)

func mapAccountToResponse(acc *account.Account, localizer *localize.Localizer) AccountResponse {
	return AccountResponse{
		Slug:           acc.Slug,
		Name:           acc.Name,
		Category:       acc.Category,
		Balance:        money.Number(acc.Balance),
		BalanceDisplay: money.Format(acc.Balance),
		Closed:         acc.Closed,
		CreatedAt:      localizer.FormatDateTime(acc.CreatedAt),
	}
}

func mapEntryToResponse(entry *ledger.Entry, localizer *localize.Localizer) TransactionResponse {
	sign := "+"
	if entry.Direction == ledger.DirectionDebit {
		sign = "-"
	}

	return TransactionResponse{
		ID:            entry.ID.String(),
		Account:       entry.AccountSlug,
		AccountName:   entry.AccountName,
		Name:          entry.Name,
		Description:   entry.Description,
		Direction:     string(entry.Direction),
		Amount:        money.Number(entry.Amount),
		AmountDisplay: sign + money.Format(entry.Amount),
		Timestamp:     localizer.FormatDateTime(entry.CreatedAt),
	}
}

func mapSettingsToResponse(s *policy.Settings) SettingsResponse {
	return SettingsResponse{
		BankName:            s.BankName,
		StandardFee:         money.Number(s.StandardFee),
		SavingsInterestRate: s.SavingsInterestRate.InexactFloat64(),

		CheckingMinimumBalance: money.Number(s.CheckingMinimumBalance),
		CheckingMinimumFee:     money.Number(s.CheckingMinimumFee),
		CheckingAnchorDay:      s.CheckingAnchorDay,
		CheckingOpeningDeposit: money.Number(s.CheckingOpeningDeposit),

		SavingsMinimumBalance: money.Number(s.SavingsMinimumBalance),
		SavingsMinimumFee:     money.Number(s.SavingsMinimumFee),
		SavingsAnchorDay:      s.SavingsAnchorDay,
		SavingsOpeningDeposit: money.Number(s.SavingsOpeningDeposit),

		BankClosureFee:     money.Number(s.BankClosureFee),
		CheckingClosureFee: money.Number(s.CheckingClosureFee),
		SavingsClosureFee:  money.Number(s.SavingsClosureFee),
	}
}

func mapPoints(points []insights.Point) []PointResponse {
	result := make([]PointResponse, 0, len(points))
	for _, p := range points {
		result = append(result, PointResponse{
			At:    p.At.UTC().Format(time.RFC3339),
			Value: money.Number(p.Value),
		})
	}
	return result
}

func mapProjection(p insights.Projection) ProjectionResponse {
	return ProjectionResponse{
		Daily:   mapPoints(p.Daily),
		Monthly: mapPoints(p.Monthly),
		Yearly:  mapPoints(p.Yearly),
	}
}

func mapInsightsToResponse(overview *insights.Overview, cards []insights.DueCard) InsightsResponse {
	accounts := make([]AccountInsightsResponse, 0, len(overview.Accounts))
	for _, proj := range overview.Accounts {
		accounts = append(accounts, AccountInsightsResponse{
			Slug:               proj.Slug,
			Name:               proj.Name,
			History:            mapPoints(proj.History),
			Interest:           mapProjection(proj.Interest),
			CyclePayout:        money.Number(proj.CyclePayout),
			CyclePayoutDisplay: money.Format(proj.CyclePayout),
			CycleDays:          proj.CycleDays,
			NextAnchor:         proj.NextAnchor.UTC().Format(time.RFC3339),
			AnchorDay:          proj.AnchorDay,
			AnchorDayTag:       proj.AnchorDayTag,
		})
	}

	due := make([]DueCardResponse, 0, len(cards))
	for _, card := range cards {
		due = append(due, DueCardResponse{
			Slug:           card.Slug,
			Name:           card.Name,
			Balance:        money.Number(card.Balance),
			BalanceDisplay: money.Format(card.Balance),
			MinimumBalance: money.Number(card.MinimumBalance),
			Shortfall:      money.Number(card.Shortfall),
			FeeDue:         money.Number(card.FeeDue),
			Status:         card.Status,
			DueDate:        card.DueDate.UTC().Format(time.RFC3339),
			DueDateDisplay: card.DueDateDisplay,
			Message:        card.Message,
		})
	}

	return InsightsResponse{
		Accounts: accounts,
		Combined: mapPoints(overview.Combined),
		DueCards: due,
	}
}

// ensureDefaults seeds the cash account and default policy before any
// bank operation runs. A failure here means storage is unavailable.
func ensureDefaults(c *gin.Context, bootstrap banking.BootstrapService, logger *slog.Logger) bool {
	if err := bootstrap.EnsureDefaults(c.Request.Context()); err != nil {
		logger.Error("Failed to ensure bank defaults", "error", err)
		RespondInternalError(c, "")
		return false
	}
	return true
}

// respondServiceError maps engine errors to HTTP responses. Validation
// shortfalls surface verbatim; storage failures stay generic.
func respondServiceError(c *gin.Context, err error) {
	var validation banking.ValidationError
	var insufficient account.ErrInsufficientFunds
	var notFound account.ErrAccountNotFound
	var alreadyClosed banking.ErrAlreadyClosed
	var persistence banking.PersistenceError

	switch {
	case errors.As(err, &validation):
		RespondBadRequest(c, validation.Error())
	case errors.As(err, &insufficient):
		RespondBadRequest(c, insufficient.Error())
	case errors.As(err, &alreadyClosed):
		RespondConflict(c, alreadyClosed.Error())
	case errors.As(err, &notFound):
		RespondNotFound(c, "Select valid accounts and try again.")
	case errors.As(err, &persistence):
		RespondInternalError(c, persistence.Error())
	default:
		RespondInternalError(c, "")
	}
}
