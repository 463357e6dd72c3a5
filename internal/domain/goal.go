package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalStatus represents the lifecycle status of a savings goal
type GoalStatus string

const (
	GoalStatusInProgress GoalStatus = "in_progress"
	GoalStatusCompleted  GoalStatus = "completed"
)

// TaxVaultTitle is the fixed title given to the tax vault goal
const TaxVaultTitle = "Tax Vault"

// TaxVaultTargetCeiling is the soft ceiling used as the tax vault's target.
// The vault never completes, so the target only has to be unreachable.
var TaxVaultTargetCeiling = decimal.NewFromInt(999999999)

// SavingsGoal represents a savings goal entity in the domain layer:
// a per-user target that auto-deducts a percentage of each incoming
// payment until completed. The tax vault is the privileged variant
// that never completes.
type SavingsGoal struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Title             string
	TargetAmount      decimal.Decimal // USDC-denominated
	CurrentAmount     decimal.Decimal // USDC-denominated, non-negative
	SavingsPercentage decimal.Decimal // Percentage (0-100) of each incoming payment
	IsTaxVault        bool            // At most one true per user
	IsActive          bool
	Status            GoalStatus
	CreatedAt         time.Time
}

// Validate ensures the goal adheres to domain rules
// Returns an error if validation fails
func (g *SavingsGoal) Validate() error {
	if g.Title == "" {
		return NewValidationError("goal title cannot be empty")
	}

	if g.TargetAmount.IsNegative() {
		return NewValidationError("goal target amount cannot be negative")
	}

	if g.CurrentAmount.IsNegative() {
		return NewValidationError("goal current amount cannot be negative")
	}

	// Percentage must be between 0 and 100
	if g.SavingsPercentage.IsNegative() || g.SavingsPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return NewValidationError("goal savings percentage must be between 0 and 100")
	}

	if g.Status != GoalStatusInProgress && g.Status != GoalStatusCompleted {
		return NewValidationError("goal status must be in_progress or completed")
	}

	// A tax vault never completes
	if g.IsTaxVault && g.Status == GoalStatusCompleted {
		return NewValidationError("tax vault goal cannot be completed")
	}

	return nil
}

// NewTaxVault builds a fresh tax vault goal for a user with the given
// savings percentage. The vault starts active, empty and in progress.
func NewTaxVault(userID uuid.UUID, percentage decimal.Decimal) *SavingsGoal {
	return &SavingsGoal{
		ID:                uuid.New(),
		UserID:            userID,
		Title:             TaxVaultTitle,
		TargetAmount:      TaxVaultTargetCeiling,
		CurrentAmount:     decimal.Zero,
		SavingsPercentage: percentage,
		IsTaxVault:        true,
		IsActive:          true,
		Status:            GoalStatusInProgress,
		CreatedAt:         time.Now().UTC(),
	}
}
