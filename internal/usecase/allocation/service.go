package allocation

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/frevault/frevault-backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Service is the allocation engine: it splits a completed incoming
// payment across a user's active savings goals according to their
// configured percentages and persists the new balances.
type Service struct {
	GoalRepo  domain.GoalRepository
	TxManager domain.TransactionManager
	Logger    *zap.Logger
}

// NewService creates a new allocation Service instance
func NewService(goalRepo domain.GoalRepository, txManager domain.TransactionManager, logger *zap.Logger) *Service {
	return &Service{
		GoalRepo:  goalRepo,
		TxManager: txManager,
		Logger:    logger,
	}
}

// Allocate splits paymentAmount across the user's active goals.
// Logic:
//  1. Load goals with isActive = true and status = in_progress
//  2. Order them tax vault first, then by creation time ascending
//  3. Each goal claims paymentAmount * savingsPercentage / 100 of the
//     gross payment, independently of the other goals. Percentages are
//     deliberately not capped at a 100 sum: an over-configured user can
//     save more than the payment, and MainBalance goes negative.
//  4. A non-tax goal whose new balance reaches its target completes and
//     deactivates. The tax vault never completes.
//
// Balance writes go through the store's atomic increment and run inside
// one scoped transaction. Callers retrying after an error must assume
// partial application: per-goal increments are not idempotent.
func (s *Service) Allocate(ctx context.Context, userID uuid.UUID, paymentAmount decimal.Decimal) (*domain.AllocationResult, error) {
	if paymentAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.NewValidationError("payment amount must be positive")
	}

	goals, err := s.GoalRepo.FindActiveGoals(ctx, userID)
	if err != nil {
		return nil, err
	}

	// No active goals: the whole payment stays in the main balance
	if len(goals) == 0 {
		return &domain.AllocationResult{
			Processed:     false,
			TotalSaved:    decimal.Zero,
			TaxVaultSaved: decimal.Zero,
			MainBalance:   paymentAmount,
			GoalUpdates:   []domain.GoalUpdate{},
		}, nil
	}

	// Enforce ordering regardless of what the store returned: the tax
	// vault always gets its cut first, older goals before newer ones.
	sortGoals(goals)

	totalSaved := decimal.Zero
	taxVaultSaved := decimal.Zero
	updates := make([]domain.GoalUpdate, 0, len(goals))

	err = s.TxManager.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, goal := range goals {
			deduction := paymentAmount.Mul(goal.SavingsPercentage).Div(hundred)

			newAmount, err := s.GoalRepo.AddToBalance(ctx, goal.ID, deduction)
			if err != nil {
				return err
			}

			// Tax vault never "completes" - it accumulates indefinitely
			completed := !goal.IsTaxVault && newAmount.GreaterThanOrEqual(goal.TargetAmount)
			if completed {
				if err := s.GoalRepo.CompleteGoal(ctx, goal.ID); err != nil {
					return err
				}
			}

			totalSaved = totalSaved.Add(deduction)
			if goal.IsTaxVault {
				taxVaultSaved = taxVaultSaved.Add(deduction)
			}

			updates = append(updates, domain.GoalUpdate{
				GoalID:      goal.ID,
				Title:       goal.Title,
				AmountAdded: deduction,
				NewTotal:    newAmount,
				Completed:   completed,
				IsTaxVault:  goal.IsTaxVault,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Round at aggregation only; per-goal amounts stay exact
	totalSaved = totalSaved.Round(2)
	taxVaultSaved = taxVaultSaved.Round(2)

	result := &domain.AllocationResult{
		Processed:     true,
		TotalSaved:    totalSaved,
		TaxVaultSaved: taxVaultSaved,
		MainBalance:   paymentAmount.Sub(totalSaved),
		GoalUpdates:   updates,
	}

	s.Logger.Info("payment allocated",
		zap.String("user_id", userID.String()),
		zap.String("payment_amount", paymentAmount.String()),
		zap.String("total_saved", totalSaved.String()),
		zap.String("tax_vault_saved", taxVaultSaved.String()),
		zap.Int("goals_updated", len(updates)),
	)

	return result, nil
}

// sortGoals orders goals tax vault first, then by creation time
// ascending. The sort is stable so goals created at the same instant
// keep the store's order.
func sortGoals(goals []*domain.SavingsGoal) {
	sort.SliceStable(goals, func(i, j int) bool {
		if goals[i].IsTaxVault != goals[j].IsTaxVault {
			return goals[i].IsTaxVault
		}
		return goals[i].CreatedAt.Before(goals[j].CreatedAt)
	})
}
