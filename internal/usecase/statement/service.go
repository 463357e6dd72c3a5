package statement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/frevault/frevault-backend/internal/domain"
)

// PlatformFeeRate is the platform's cut of every paid invoice (1%)
var PlatformFeeRate = decimal.RequireFromString("0.01")

// WithdrawalFeeRate is the processing fee charged on withdrawals (0.5%)
var WithdrawalFeeRate = decimal.RequireFromString("0.005")

// Period selects the reporting window for a statement
type Period string

const (
	PeriodCurrentMonth   Period = "current_month"
	PeriodLastMonth      Period = "last_month"
	PeriodCurrentQuarter Period = "current_quarter"
	PeriodLastYear       Period = "last_year"
)

// Statement is a profit-and-loss style summary of a user's completed
// activity within a period. It consumes the allocation engine's stored
// outputs (payments, vault balance); it never recomputes allocations.
type Statement struct {
	Period            Period
	Label             string
	Start             time.Time
	End               time.Time
	GrossRevenue      decimal.Decimal
	PlatformFees      decimal.Decimal
	OperatingExpenses decimal.Decimal
	NetIncome         decimal.Decimal
	TaxVaultBalance   decimal.Decimal
}

// Service builds period statements from completed payments
type Service struct {
	PaymentRepo domain.PaymentRepository
	GoalRepo    domain.GoalRepository
}

// NewService creates a new statement Service instance
func NewService(paymentRepo domain.PaymentRepository, goalRepo domain.GoalRepository) *Service {
	return &Service{
		PaymentRepo: paymentRepo,
		GoalRepo:    goalRepo,
	}
}

// Build aggregates the user's completed payments for the period.
// Gross revenue sums incoming/payment records; platform fees are 1% of
// gross; operating expenses are the 0.5% processing fees on
// withdrawals. All figures round to 2 decimal places.
func (s *Service) Build(ctx context.Context, userID uuid.UUID, period Period) (*Statement, error) {
	start, end, label := periodBounds(time.Now().UTC(), period)

	income, err := s.PaymentRepo.ListCompleted(ctx, userID,
		[]domain.PaymentType{domain.PaymentTypeIncoming, domain.PaymentTypePayment}, start, end)
	if err != nil {
		return nil, err
	}

	withdrawals, err := s.PaymentRepo.ListCompleted(ctx, userID,
		[]domain.PaymentType{domain.PaymentTypeWithdrawal}, start, end)
	if err != nil {
		return nil, err
	}

	grossRevenue := decimal.Zero
	for _, p := range income {
		grossRevenue = grossRevenue.Add(p.Amount)
	}
	grossRevenue = grossRevenue.Round(2)

	platformFees := grossRevenue.Mul(PlatformFeeRate).Round(2)

	operatingExpenses := decimal.Zero
	for _, w := range withdrawals {
		operatingExpenses = operatingExpenses.Add(w.Amount.Mul(WithdrawalFeeRate))
	}
	operatingExpenses = operatingExpenses.Round(2)

	taxVaultBalance := decimal.Zero
	vault, err := s.GoalRepo.FindTaxVault(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if vault != nil {
		taxVaultBalance = vault.CurrentAmount
	}

	return &Statement{
		Period:            period,
		Label:             label,
		Start:             start,
		End:               end,
		GrossRevenue:      grossRevenue,
		PlatformFees:      platformFees,
		OperatingExpenses: operatingExpenses,
		NetIncome:         grossRevenue.Sub(platformFees).Sub(operatingExpenses),
		TaxVaultBalance:   taxVaultBalance,
	}, nil
}

// periodBounds resolves a period keyword into UTC [start, end] bounds
// and a human-readable label. Unknown periods fall back to
// current_month.
func periodBounds(now time.Time, period Period) (time.Time, time.Time, string) {
	year, month, _ := now.Date()

	switch period {
	case PeriodLastMonth:
		start := time.Date(year, month-1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Add(-time.Millisecond)
		return start, end, start.Format("January 2006")
	case PeriodCurrentQuarter:
		quarter := (int(month) - 1) / 3
		start := time.Date(year, time.Month(quarter*3+1), 1, 0, 0, 0, 0, time.UTC)
		return start, now, fmt.Sprintf("Q%d %d", quarter+1, year)
	case PeriodLastYear:
		start := time.Date(year-1, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).Add(-time.Millisecond)
		return start, end, fmt.Sprintf("%d", year-1)
	default: // current_month
		start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		return start, now, start.Format("January 2006")
	}
}
