package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentType represents the direction/kind of a payment record
type PaymentType string

const (
	PaymentTypeIncoming   PaymentType = "incoming"
	PaymentTypePayment    PaymentType = "payment"
	PaymentTypeWithdrawal PaymentType = "withdrawal"
)

// PaymentStatus represents the settlement status of a payment record
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// PaymentCurrency is the only currency the platform tracks.
// Multi-currency ledgers and conversion are out of scope.
const PaymentCurrency = "USDC"

// Payment represents a settled (or pending) movement of funds for a user.
// The allocation engine consumes completed incoming payments; the
// statement service aggregates them per period.
type Payment struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Currency    string
	Type        PaymentType
	Status      PaymentStatus
	CompletedAt time.Time
}

// Validate ensures the payment adheres to domain rules
// Returns an error if validation fails
func (p *Payment) Validate() error {
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("payment amount must be positive")
	}

	if p.Currency != PaymentCurrency {
		return NewValidationError("payment currency must be " + PaymentCurrency)
	}

	if p.Type != PaymentTypeIncoming && p.Type != PaymentTypePayment && p.Type != PaymentTypeWithdrawal {
		return NewValidationError("payment type must be incoming, payment or withdrawal")
	}

	if p.Status != PaymentStatusPending && p.Status != PaymentStatusCompleted {
		return NewValidationError("payment status must be pending or completed")
	}

	return nil
}
