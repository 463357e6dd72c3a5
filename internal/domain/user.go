package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents the slice of the user record consumed by the core.
// TaxPercentage is a cached mirror of the tax vault's SavingsPercentage;
// the two are only ever written together by the tax vault lifecycle
// manager, never independently.
type User struct {
	ID            uuid.UUID
	TaxPercentage decimal.Decimal // Percentage (0-100)
}
