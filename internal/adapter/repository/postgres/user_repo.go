package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/frevault/frevault-backend/internal/domain"
)

// userRepository implements domain.UserRepository
type userRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) domain.UserRepository {
	return &userRepository{db: db}
}

// GetByID retrieves the slice of the user record the core consumes
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT id, tax_percentage FROM users WHERE id = $1`

	var user domain.User
	var percentageStr string

	err := r.db.conn(ctx).QueryRowContext(ctx, query, id).Scan(&user.ID, &percentageStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("user not found")
		}
		return nil, domain.NewPersistenceError("get user", err)
	}

	user.TaxPercentage, err = decimal.NewFromString(percentageStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tax_percentage: %w", err)
	}

	return &user, nil
}

// UpdateTaxPercentage writes the user's cached tax percentage mirror
func (r *userRepository) UpdateTaxPercentage(ctx context.Context, id uuid.UUID, percentage decimal.Decimal) error {
	query := `UPDATE users SET tax_percentage = $2 WHERE id = $1`

	result, err := r.db.conn(ctx).ExecContext(ctx, query, id, percentage.String())
	if err != nil {
		return domain.NewPersistenceError("update tax percentage", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return domain.NewNotFoundError("user not found")
	}
	return nil
}
