package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalUpdate represents the effect of a single allocation on one goal
type GoalUpdate struct {
	GoalID      uuid.UUID
	Title       string
	AmountAdded decimal.Decimal
	NewTotal    decimal.Decimal
	Completed   bool
	IsTaxVault  bool
}

// AllocationResult represents the outcome of allocating one incoming
// payment across a user's active savings goals. It is ephemeral output
// for notification/audit consumers and is never persisted as its own
// entity.
//
// TotalSaved and TaxVaultSaved are rounded to 2 decimal places at
// aggregation; per-goal amounts inside GoalUpdates stay exact.
// MainBalance may be negative when the configured percentages sum past
// 100 - each goal claims its slice of the gross payment independently.
type AllocationResult struct {
	Processed     bool
	TotalSaved    decimal.Decimal
	TaxVaultSaved decimal.Decimal
	MainBalance   decimal.Decimal
	GoalUpdates   []GoalUpdate // Tax vault first, then by goal creation time
}
