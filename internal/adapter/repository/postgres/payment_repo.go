package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/frevault/frevault-backend/internal/domain"
)

// paymentRepository implements domain.PaymentRepository
type paymentRepository struct {
	db *DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *DB) domain.PaymentRepository {
	return &paymentRepository{db: db}
}

// Create creates a new payment record
func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, user_id, amount, currency, type, status, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		payment.ID,
		payment.UserID,
		payment.Amount.String(),
		payment.Currency,
		string(payment.Type),
		string(payment.Status),
		payment.CompletedAt,
	)
	if err != nil {
		return domain.NewPersistenceError("create payment", err)
	}
	return nil
}

// ListCompleted retrieves a user's completed payments of the given
// types completed within [from, to]
func (r *paymentRepository) ListCompleted(ctx context.Context, userID uuid.UUID, types []domain.PaymentType, from, to time.Time) ([]*domain.Payment, error) {
	query := `
		SELECT id, user_id, amount, currency, type, status, completed_at
		FROM payments
		WHERE user_id = $1
		  AND status = 'completed'
		  AND type = ANY($2)
		  AND completed_at >= $3 AND completed_at <= $4
		ORDER BY completed_at ASC
	`

	typeStrs := make([]string, len(types))
	for i, t := range types {
		typeStrs[i] = string(t)
	}

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, userID, pq.Array(typeStrs), from, to)
	if err != nil {
		return nil, domain.NewPersistenceError("list completed payments", err)
	}
	defer rows.Close()

	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		var p domain.Payment
		var amountStr, typeStr, statusStr string

		err := rows.Scan(&p.ID, &p.UserID, &amountStr, &p.Currency, &typeStr, &statusStr, &p.CompletedAt)
		if err != nil {
			return nil, domain.NewPersistenceError("scan payment", err)
		}

		p.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse payment amount: %w", err)
		}
		p.Type = domain.PaymentType(typeStr)
		p.Status = domain.PaymentStatus(statusStr)

		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewPersistenceError("list completed payments", err)
	}

	return payments, nil
}
