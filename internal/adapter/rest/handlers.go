package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/frevault/frevault-backend/internal/domain"
	"github.com/frevault/frevault-backend/internal/usecase/statement"
	"github.com/frevault/frevault-backend/internal/usecase/taxvault"
)

// taxVaultView is the JSON shape of the vault snapshot
type taxVaultView struct {
	ID            string `json:"id"`
	CurrentAmount string `json:"currentAmountUsdc"`
	IsActive      bool   `json:"isActive"`
	Status        string `json:"status"`
}

func vaultView(v *taxvault.VaultSnapshot) *taxVaultView {
	if v == nil {
		return nil
	}
	return &taxVaultView{
		ID:            v.ID.String(),
		CurrentAmount: v.CurrentAmount.String(),
		IsActive:      v.IsActive,
		Status:        string(v.Status),
	}
}

// GetTaxVault handles GET /api/v1/tax-vault
func (s *Server) GetTaxVault(c *gin.Context) {
	settings, err := s.TaxVaultService.Query(c.Request.Context(), authedUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"taxPercentage": settings.TaxPercentage.String(),
		"taxVault":      vaultView(settings.Vault),
	})
}

type configureTaxVaultRequest struct {
	// decimal.Decimal unmarshals both JSON numbers and strings
	TaxPercentage decimal.Decimal `json:"taxPercentage"`
}

// ConfigureTaxVault handles PUT /api/v1/tax-vault
func (s *Server) ConfigureTaxVault(c *gin.Context) {
	var req configureTaxVaultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "taxPercentage must be a number between 0 and 100"})
		return
	}

	settings, err := s.TaxVaultService.Configure(c.Request.Context(), authedUserID(c), req.TaxPercentage)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Tax vault updated",
		"taxPercentage": settings.TaxPercentage.String(),
		"taxVault":      vaultView(settings.Vault),
	})
}

// ReleaseTaxVault handles DELETE /api/v1/tax-vault
// It empties the vault and reports the released amount; crediting the
// user's spendable balance happens out-of-band.
func (s *Server) ReleaseTaxVault(c *gin.Context) {
	released, err := s.TaxVaultService.Release(c.Request.Context(), authedUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"message":            "Tax vault funds released",
		"releasedAmountUsdc": released.String(),
	})
}

// GetStatement handles GET /api/v1/statements?period=
func (s *Server) GetStatement(c *gin.Context) {
	period := statement.Period(c.DefaultQuery("period", string(statement.PeriodCurrentMonth)))

	stmt, err := s.StatementService.Build(c.Request.Context(), authedUserID(c), period)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"period":            string(stmt.Period),
		"label":             stmt.Label,
		"start":             stmt.Start.Format(time.RFC3339),
		"end":               stmt.End.Format(time.RFC3339),
		"grossRevenue":      stmt.GrossRevenue.String(),
		"platformFees":      stmt.PlatformFees.String(),
		"operatingExpenses": stmt.OperatingExpenses.String(),
		"netIncome":         stmt.NetIncome.String(),
		"taxVaultBalance":   stmt.TaxVaultBalance.String(),
	})
}

type paymentCompletedRequest struct {
	UserID   string `json:"userId"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// PaymentCompleted handles POST /internal/v1/payments/completed.
// Invoked when an invoice is paid: it records the completed payment and
// runs the savings allocation over the user's active goals. The caller
// retries on failure, so partial allocation is possible (documented
// degraded mode).
func (s *Server) PaymentCompleted(c *gin.Context) {
	var req paymentCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	payment := &domain.Payment{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      amount,
		Currency:    req.Currency,
		Type:        domain.PaymentTypeIncoming,
		Status:      domain.PaymentStatusCompleted,
		CompletedAt: time.Now().UTC(),
	}
	if err := payment.Validate(); err != nil {
		abortWithError(c, err)
		return
	}

	if err := s.PaymentRepo.Create(c.Request.Context(), payment); err != nil {
		abortWithError(c, err)
		return
	}

	result, err := s.AllocationService.Allocate(c.Request.Context(), userID, amount)
	if err != nil {
		s.Logger.Error("allocation failed after payment was recorded",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err))
		abortWithError(c, err)
		return
	}

	updates := make([]gin.H, 0, len(result.GoalUpdates))
	for _, u := range result.GoalUpdates {
		updates = append(updates, gin.H{
			"goalId":      u.GoalID.String(),
			"title":       u.Title,
			"amountAdded": u.AmountAdded.String(),
			"newTotal":    u.NewTotal.String(),
			"completed":   u.Completed,
			"isTaxVault":  u.IsTaxVault,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"paymentId":     payment.ID.String(),
		"processed":     result.Processed,
		"totalSaved":    result.TotalSaved.String(),
		"taxVaultSaved": result.TaxVaultSaved.String(),
		"mainBalance":   result.MainBalance.String(),
		"goalUpdates":   updates,
	})
}
