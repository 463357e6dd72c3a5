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

const goalColumns = `id, user_id, title, target_amount, current_amount, savings_percentage, is_tax_vault, is_active, status, created_at`

// goalRepository implements domain.GoalRepository
type goalRepository struct {
	db *DB
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *DB) domain.GoalRepository {
	return &goalRepository{db: db}
}

// FindActiveGoals retrieves a user's goals with is_active = true and
// status = 'in_progress', tax vault first, then by creation time
func (r *goalRepository) FindActiveGoals(ctx context.Context, userID uuid.UUID) ([]*domain.SavingsGoal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM savings_goals
		WHERE user_id = $1 AND is_active = TRUE AND status = 'in_progress'
		ORDER BY is_tax_vault DESC, created_at ASC
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, domain.NewPersistenceError("find active goals", err)
	}
	defer rows.Close()

	goals := make([]*domain.SavingsGoal, 0)
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewPersistenceError("find active goals", err)
	}

	return goals, nil
}

// FindTaxVault retrieves the user's tax vault regardless of active state
func (r *goalRepository) FindTaxVault(ctx context.Context, userID uuid.UUID) (*domain.SavingsGoal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM savings_goals
		WHERE user_id = $1 AND is_tax_vault = TRUE
	`

	goal, err := scanGoal(r.db.conn(ctx).QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("tax vault not found")
		}
		return nil, err
	}
	return goal, nil
}

// Create creates a new goal
func (r *goalRepository) Create(ctx context.Context, goal *domain.SavingsGoal) error {
	query := `
		INSERT INTO savings_goals (` + goalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.TargetAmount.String(),
		goal.CurrentAmount.String(),
		goal.SavingsPercentage.String(),
		goal.IsTaxVault,
		goal.IsActive,
		string(goal.Status),
		goal.CreatedAt,
	)
	if err != nil {
		return domain.NewPersistenceError("create goal", err)
	}
	return nil
}

// Update writes back a goal's mutable fields
func (r *goalRepository) Update(ctx context.Context, goal *domain.SavingsGoal) error {
	query := `
		UPDATE savings_goals
		SET title = $2, target_amount = $3, savings_percentage = $4, is_active = $5, status = $6
		WHERE id = $1
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query,
		goal.ID,
		goal.Title,
		goal.TargetAmount.String(),
		goal.SavingsPercentage.String(),
		goal.IsActive,
		string(goal.Status),
	)
	if err != nil {
		return domain.NewPersistenceError("update goal", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return domain.NewNotFoundError("goal not found")
	}
	return nil
}

// Count returns the number of goals a user has
func (r *goalRepository) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM savings_goals WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, domain.NewPersistenceError("count goals", err)
	}
	return count, nil
}

// AddToBalance atomically increments a goal's balance and returns the
// new amount. The increment happens in the database, so concurrent
// allocations for the same goal never lose updates.
func (r *goalRepository) AddToBalance(ctx context.Context, goalID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE savings_goals
		SET current_amount = current_amount + $2
		WHERE id = $1
		RETURNING current_amount
	`

	var amountStr string
	err := r.db.conn(ctx).QueryRowContext(ctx, query, goalID, delta.String()).Scan(&amountStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, domain.NewNotFoundError("goal not found")
		}
		return decimal.Zero, domain.NewPersistenceError("add to goal balance", err)
	}

	newAmount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse current_amount: %w", err)
	}
	return newAmount, nil
}

// CompleteGoal transitions a non-tax in-progress goal to completed and
// inactive. The guard makes the transition idempotent and keeps the tax
// vault out of reach.
func (r *goalRepository) CompleteGoal(ctx context.Context, goalID uuid.UUID) error {
	query := `
		UPDATE savings_goals
		SET status = 'completed', is_active = FALSE
		WHERE id = $1 AND is_tax_vault = FALSE AND status = 'in_progress'
	`

	if _, err := r.db.conn(ctx).ExecContext(ctx, query, goalID); err != nil {
		return domain.NewPersistenceError("complete goal", err)
	}
	return nil
}

// UpsertTaxVault creates the user's tax vault or reactivates the
// existing one with the new percentage. The ON CONFLICT arm targets the
// partial unique index on (user_id) WHERE is_tax_vault, so two
// concurrent Configure calls cannot create duplicate vaults.
func (r *goalRepository) UpsertTaxVault(ctx context.Context, userID uuid.UUID, percentage decimal.Decimal) (*domain.SavingsGoal, error) {
	vault := domain.NewTaxVault(userID, percentage)

	query := `
		INSERT INTO savings_goals (` + goalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, TRUE, 'in_progress', $7)
		ON CONFLICT (user_id) WHERE is_tax_vault
		DO UPDATE SET
			savings_percentage = EXCLUDED.savings_percentage,
			is_active = TRUE,
			status = 'in_progress'
		RETURNING ` + goalColumns

	row := r.db.conn(ctx).QueryRowContext(ctx, query,
		vault.ID,
		vault.UserID,
		vault.Title,
		vault.TargetAmount.String(),
		vault.CurrentAmount.String(),
		vault.SavingsPercentage.String(),
		vault.CreatedAt,
	)

	goal, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewPersistenceError("upsert tax vault", err)
		}
		return nil, err
	}
	return goal, nil
}

// DeactivateTaxVault flips the vault's is_active to false, keeping
// balance and percentage
func (r *goalRepository) DeactivateTaxVault(ctx context.Context, userID uuid.UUID) (*domain.SavingsGoal, error) {
	query := `
		UPDATE savings_goals
		SET is_active = FALSE
		WHERE user_id = $1 AND is_tax_vault = TRUE
		RETURNING ` + goalColumns

	goal, err := scanGoal(r.db.conn(ctx).QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("tax vault not found")
		}
		return nil, err
	}
	return goal, nil
}

// ReleaseTaxVault zeroes the vault's balance and returns the amount it
// held, in one statement so concurrent releases cannot double-count
func (r *goalRepository) ReleaseTaxVault(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	query := `
		WITH vault AS (
			SELECT id, current_amount
			FROM savings_goals
			WHERE user_id = $1 AND is_tax_vault = TRUE
			FOR UPDATE
		)
		UPDATE savings_goals g
		SET current_amount = 0
		FROM vault
		WHERE g.id = vault.id
		RETURNING vault.current_amount
	`

	var amountStr string
	err := r.db.conn(ctx).QueryRowContext(ctx, query, userID).Scan(&amountStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, domain.NewNotFoundError("tax vault not found")
		}
		return decimal.Zero, domain.NewPersistenceError("release tax vault", err)
	}

	released, err := decimal.NewFromString(amountStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse released amount: %w", err)
	}
	return released, nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanGoal reads one savings_goals row in goalColumns order
func scanGoal(row rowScanner) (*domain.SavingsGoal, error) {
	var goal domain.SavingsGoal
	var targetStr, currentStr, percentageStr, statusStr string

	err := row.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Title,
		&targetStr,
		&currentStr,
		&percentageStr,
		&goal.IsTaxVault,
		&goal.IsActive,
		&statusStr,
		&goal.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, domain.NewPersistenceError("scan goal", err)
	}

	if goal.TargetAmount, err = decimal.NewFromString(targetStr); err != nil {
		return nil, fmt.Errorf("failed to parse target_amount: %w", err)
	}
	if goal.CurrentAmount, err = decimal.NewFromString(currentStr); err != nil {
		return nil, fmt.Errorf("failed to parse current_amount: %w", err)
	}
	if goal.SavingsPercentage, err = decimal.NewFromString(percentageStr); err != nil {
		return nil, fmt.Errorf("failed to parse savings_percentage: %w", err)
	}
	goal.Status = domain.GoalStatus(statusStr)

	return &goal, nil
}
