package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavingsGoalValidate_ValidGoal(t *testing.T) {
	goal := &SavingsGoal{
		ID:                uuid.New(),
		UserID:            uuid.New(),
		Title:             "Emergency Fund",
		TargetAmount:      decimal.NewFromInt(1000),
		CurrentAmount:     decimal.NewFromInt(250),
		SavingsPercentage: decimal.NewFromInt(15),
		Status:            GoalStatusInProgress,
		IsActive:          true,
	}

	assert.NoError(t, goal.Validate())
}

func TestSavingsGoalValidate_EmptyTitle(t *testing.T) {
	goal := &SavingsGoal{
		ID:                uuid.New(),
		UserID:            uuid.New(),
		Title:             "",
		TargetAmount:      decimal.NewFromInt(1000),
		SavingsPercentage: decimal.NewFromInt(15),
		Status:            GoalStatusInProgress,
	}

	err := goal.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSavingsGoalValidate_NegativeAmounts(t *testing.T) {
	goal := &SavingsGoal{
		ID:                uuid.New(),
		UserID:            uuid.New(),
		Title:             "Laptop",
		TargetAmount:      decimal.NewFromInt(-1),
		SavingsPercentage: decimal.NewFromInt(10),
		Status:            GoalStatusInProgress,
	}
	assert.ErrorIs(t, goal.Validate(), ErrValidation)

	goal.TargetAmount = decimal.NewFromInt(100)
	goal.CurrentAmount = decimal.NewFromInt(-5)
	assert.ErrorIs(t, goal.Validate(), ErrValidation)
}

func TestSavingsGoalValidate_PercentageOutOfRange(t *testing.T) {
	goal := &SavingsGoal{
		ID:                uuid.New(),
		UserID:            uuid.New(),
		Title:             "Vacation",
		TargetAmount:      decimal.NewFromInt(500),
		SavingsPercentage: decimal.NewFromInt(101),
		Status:            GoalStatusInProgress,
	}
	assert.ErrorIs(t, goal.Validate(), ErrValidation)

	goal.SavingsPercentage = decimal.NewFromInt(-1)
	assert.ErrorIs(t, goal.Validate(), ErrValidation)
}

func TestSavingsGoalValidate_TaxVaultNeverCompleted(t *testing.T) {
	goal := NewTaxVault(uuid.New(), decimal.NewFromInt(10))
	goal.Status = GoalStatusCompleted

	assert.ErrorIs(t, goal.Validate(), ErrValidation)
}

func TestNewTaxVault_Defaults(t *testing.T) {
	userID := uuid.New()
	vault := NewTaxVault(userID, decimal.NewFromInt(10))

	require.NoError(t, vault.Validate())
	assert.Equal(t, userID, vault.UserID)
	assert.Equal(t, TaxVaultTitle, vault.Title)
	assert.True(t, vault.IsTaxVault)
	assert.True(t, vault.IsActive)
	assert.Equal(t, GoalStatusInProgress, vault.Status)
	assert.True(t, vault.CurrentAmount.IsZero())
	assert.True(t, vault.TargetAmount.Equal(TaxVaultTargetCeiling))
}

func TestPaymentValidate(t *testing.T) {
	payment := &Payment{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Amount:   decimal.NewFromInt(100),
		Currency: PaymentCurrency,
		Type:     PaymentTypeIncoming,
		Status:   PaymentStatusCompleted,
	}
	assert.NoError(t, payment.Validate())

	payment.Currency = "EUR"
	assert.ErrorIs(t, payment.Validate(), ErrValidation)

	payment.Currency = PaymentCurrency
	payment.Amount = decimal.Zero
	assert.ErrorIs(t, payment.Validate(), ErrValidation)
}
