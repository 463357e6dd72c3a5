package taxvault

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/frevault/frevault-backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// VaultSnapshot is the read model of the tax vault exposed to callers
type VaultSnapshot struct {
	ID            uuid.UUID
	CurrentAmount decimal.Decimal
	IsActive      bool
	Status        domain.GoalStatus
}

// Settings pairs the user's configured tax percentage with the current
// vault state. Vault is nil when the user never configured a positive
// percentage.
type Settings struct {
	TaxPercentage decimal.Decimal
	Vault         *VaultSnapshot
}

// Service manages the tax vault goal's lifecycle: creation on first
// positive percentage, rate changes, deactivation at zero, and balance
// release. The user's taxPercentage field is a cached mirror of the
// vault's savings percentage; both are written in the same transaction.
type Service struct {
	GoalRepo  domain.GoalRepository
	UserRepo  domain.UserRepository
	TxManager domain.TransactionManager
	Logger    *zap.Logger
}

// NewService creates a new tax vault Service instance
func NewService(goalRepo domain.GoalRepository, userRepo domain.UserRepository, txManager domain.TransactionManager, logger *zap.Logger) *Service {
	return &Service{
		GoalRepo:  goalRepo,
		UserRepo:  userRepo,
		TxManager: txManager,
		Logger:    logger,
	}
}

// Configure sets the user's tax percentage and reconciles the vault:
//   - percentage > 0, no vault: create one (active, empty, in progress)
//   - percentage > 0, vault exists: update its percentage and force it
//     active and in progress, keeping the balance
//   - percentage == 0, vault exists: deactivate it, balance untouched
//   - percentage == 0, no vault: no-op on the vault
//
// The user mirror field and the vault change commit together.
func (s *Service) Configure(ctx context.Context, userID uuid.UUID, percentage decimal.Decimal) (*Settings, error) {
	if percentage.IsNegative() || percentage.GreaterThan(hundred) {
		return nil, domain.NewValidationError("taxPercentage must be between 0 and 100")
	}

	var vault *domain.SavingsGoal

	err := s.TxManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.UserRepo.UpdateTaxPercentage(ctx, userID, percentage); err != nil {
			return err
		}

		if percentage.IsPositive() {
			created, err := s.GoalRepo.UpsertTaxVault(ctx, userID, percentage)
			if err != nil {
				return err
			}
			vault = created
			return nil
		}

		// Percentage set to zero: deactivate if a vault exists
		deactivated, err := s.GoalRepo.DeactivateTaxVault(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return err
		}
		vault = deactivated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("tax vault configured",
		zap.String("user_id", userID.String()),
		zap.String("tax_percentage", percentage.String()),
		zap.Bool("vault_present", vault != nil),
	)

	return &Settings{
		TaxPercentage: percentage,
		Vault:         snapshot(vault),
	}, nil
}

// Release zeroes the vault's balance and returns the amount that was
// held. The funds are not credited anywhere by this operation; the
// caller moves them out-of-band. The vault keeps its active state.
func (s *Service) Release(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	released, err := s.GoalRepo.ReleaseTaxVault(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	s.Logger.Info("tax vault released",
		zap.String("user_id", userID.String()),
		zap.String("released_amount", released.String()),
	)

	return released, nil
}

// Query returns the user's tax percentage and vault snapshot without
// mutating anything
func (s *Service) Query(ctx context.Context, userID uuid.UUID) (*Settings, error) {
	user, err := s.UserRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	vault, err := s.GoalRepo.FindTaxVault(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	return &Settings{
		TaxPercentage: user.TaxPercentage,
		Vault:         snapshot(vault),
	}, nil
}

func snapshot(vault *domain.SavingsGoal) *VaultSnapshot {
	if vault == nil {
		return nil
	}
	return &VaultSnapshot{
		ID:            vault.ID,
		CurrentAmount: vault.CurrentAmount,
		IsActive:      vault.IsActive,
		Status:        vault.Status,
	}
}
