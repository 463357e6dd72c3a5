package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/frevault/frevault-backend/internal/domain"
	"github.com/frevault/frevault-backend/internal/usecase/taxvault"
)

// MockGoalRepository is a mock implementation of GoalRepository for testing
type MockGoalRepository struct {
	mock.Mock
}

func (m *MockGoalRepository) FindActiveGoals(ctx context.Context, userID uuid.UUID) ([]*domain.SavingsGoal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SavingsGoal), args.Error(1)
}

func (m *MockGoalRepository) FindTaxVault(ctx context.Context, userID uuid.UUID) (*domain.SavingsGoal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavingsGoal), args.Error(1)
}

func (m *MockGoalRepository) Create(ctx context.Context, goal *domain.SavingsGoal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalRepository) Update(ctx context.Context, goal *domain.SavingsGoal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalRepository) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockGoalRepository) AddToBalance(ctx context.Context, goalID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, goalID, delta)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockGoalRepository) CompleteGoal(ctx context.Context, goalID uuid.UUID) error {
	args := m.Called(ctx, goalID)
	return args.Error(0)
}

func (m *MockGoalRepository) UpsertTaxVault(ctx context.Context, userID uuid.UUID, percentage decimal.Decimal) (*domain.SavingsGoal, error) {
	args := m.Called(ctx, userID, percentage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavingsGoal), args.Error(1)
}

func (m *MockGoalRepository) DeactivateTaxVault(ctx context.Context, userID uuid.UUID) (*domain.SavingsGoal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavingsGoal), args.Error(1)
}

func (m *MockGoalRepository) ReleaseTaxVault(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateTaxPercentage(ctx context.Context, id uuid.UUID, percentage decimal.Decimal) error {
	args := m.Called(ctx, id, percentage)
	return args.Error(0)
}

// MockTransactionManager runs the function directly, with no real transaction
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Called(ctx)
	return fn(ctx)
}

func TestConfigureTaxVault_AcceptsNumericAndStringPercentage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	secret := "test-secret-123"
	userID := uuid.New()

	tests := []struct {
		name string
		body string
	}{
		{name: "numeric percentage", body: `{"taxPercentage": 10}`},
		{name: "string percentage", body: `{"taxPercentage": "10"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goalRepo := new(MockGoalRepository)
			userRepo := new(MockUserRepository)
			txManager := new(MockTransactionManager)

			vault := domain.NewTaxVault(userID, decimal.NewFromInt(10))
			txManager.On("WithinTransaction", mock.Anything).Return(nil)
			userRepo.On("UpdateTaxPercentage", mock.Anything, userID, mock.MatchedBy(func(d decimal.Decimal) bool {
				return d.Equal(decimal.NewFromInt(10))
			})).Return(nil)
			goalRepo.On("UpsertTaxVault", mock.Anything, userID, mock.MatchedBy(func(d decimal.Decimal) bool {
				return d.Equal(decimal.NewFromInt(10))
			})).Return(vault, nil)

			taxVaultService := taxvault.NewService(goalRepo, userRepo, txManager, zap.NewNop())
			server := NewServer(nil, taxVaultService, nil, nil, zap.NewNop())
			router := server.Router(secret, "internal-key")

			req := httptest.NewRequest(http.MethodPut, "/api/v1/tax-vault", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+signedToken(t, secret, userID.String()))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
			assert.Contains(t, rec.Body.String(), "Tax vault updated")
			goalRepo.AssertExpectations(t)
		})
	}
}

func TestConfigureTaxVault_MalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	secret := "test-secret-123"
	userID := uuid.New()

	taxVaultService := taxvault.NewService(new(MockGoalRepository), new(MockUserRepository), new(MockTransactionManager), zap.NewNop())
	server := NewServer(nil, taxVaultService, nil, nil, zap.NewNop())
	router := server.Router(secret, "internal-key")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/tax-vault", strings.NewReader(`{"taxPercentage": "ten"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signedToken(t, secret, userID.String()))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
