package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalRepository defines the interface for savings goal persistence operations
type GoalRepository interface {
	// FindActiveGoals retrieves all goals for a user with isActive = true
	// and status = in_progress, ordered tax vault first, then by creation
	// time ascending
	FindActiveGoals(ctx context.Context, userID uuid.UUID) ([]*SavingsGoal, error)

	// FindTaxVault retrieves the user's tax vault goal regardless of its
	// active state. Returns ErrNotFound if the user has no vault.
	FindTaxVault(ctx context.Context, userID uuid.UUID) (*SavingsGoal, error)

	// Create creates a new goal
	Create(ctx context.Context, goal *SavingsGoal) error

	// Update writes back a goal's mutable fields (title, target,
	// percentage, active flag, status)
	Update(ctx context.Context, goal *SavingsGoal) error

	// Count returns the number of goals a user has
	Count(ctx context.Context, userID uuid.UUID) (int, error)

	// AddToBalance atomically increments a goal's current amount by delta
	// and returns the new amount. This is the read-modify-write primitive
	// the allocation engine relies on; a plain read-then-overwrite loses
	// concurrent increments.
	AddToBalance(ctx context.Context, goalID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)

	// CompleteGoal transitions a non-tax goal to status = completed and
	// isActive = false. The transition is guarded so it applies at most
	// once and never touches a tax vault.
	CompleteGoal(ctx context.Context, goalID uuid.UUID) error

	// UpsertTaxVault atomically creates the user's tax vault with the
	// given percentage, or reactivates the existing one with the new
	// percentage (isActive = true, status = in_progress, balance kept).
	// Concurrent calls cannot produce duplicate vaults.
	UpsertTaxVault(ctx context.Context, userID uuid.UUID, percentage decimal.Decimal) (*SavingsGoal, error)

	// DeactivateTaxVault sets the vault's isActive = false, leaving its
	// balance and percentage untouched. Returns ErrNotFound if absent.
	DeactivateTaxVault(ctx context.Context, userID uuid.UUID) (*SavingsGoal, error)

	// ReleaseTaxVault atomically zeroes the vault's balance and returns
	// the amount that was held. Returns ErrNotFound if absent.
	ReleaseTaxVault(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
}

// UserRepository defines the interface for the slice of user persistence
// the core needs
type UserRepository interface {
	// GetByID retrieves a user by ID. Returns ErrNotFound if missing.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// UpdateTaxPercentage writes the user's cached tax percentage mirror
	UpdateTaxPercentage(ctx context.Context, id uuid.UUID, percentage decimal.Decimal) error
}

// PaymentRepository defines the interface for payment record persistence
type PaymentRepository interface {
	// Create creates a new payment record
	Create(ctx context.Context, payment *Payment) error

	// ListCompleted retrieves a user's completed payments of the given
	// types whose completion time falls within [from, to]
	ListCompleted(ctx context.Context, userID uuid.UUID, types []PaymentType, from, to time.Time) ([]*Payment, error)
}

// TransactionManager runs a function inside a single store transaction.
// Repository calls made with the context passed to fn join that
// transaction; fn returning an error rolls everything back.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
