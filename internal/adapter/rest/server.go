package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/frevault/frevault-backend/internal/domain"
	"github.com/frevault/frevault-backend/internal/usecase/allocation"
	"github.com/frevault/frevault-backend/internal/usecase/statement"
	"github.com/frevault/frevault-backend/internal/usecase/taxvault"
)

// Server wires the usecase services to the HTTP API
type Server struct {
	AllocationService *allocation.Service
	TaxVaultService   *taxvault.Service
	StatementService  *statement.Service
	PaymentRepo       domain.PaymentRepository
	Logger            *zap.Logger
}

// NewServer creates a new REST server instance
func NewServer(
	allocationService *allocation.Service,
	taxVaultService *taxvault.Service,
	statementService *statement.Service,
	paymentRepo domain.PaymentRepository,
	logger *zap.Logger,
) *Server {
	return &Server{
		AllocationService: allocationService,
		TaxVaultService:   taxVaultService,
		StatementService:  statementService,
		PaymentRepo:       paymentRepo,
		Logger:            logger,
	}
}

// Router builds the gin engine with all routes and middleware.
// User-facing routes require a bearer JWT; the payment-completion hook
// is internal and requires the shared API key instead.
func (s *Server) Router(jwtSecret, internalAPIKey string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api/v1", AuthMiddleware(jwtSecret))
	{
		api.GET("/tax-vault", s.GetTaxVault)
		api.PUT("/tax-vault", s.ConfigureTaxVault)
		api.DELETE("/tax-vault", s.ReleaseTaxVault)
		api.GET("/statements", s.GetStatement)
	}

	internal := router.Group("/internal/v1", InternalAuthMiddleware(internalAPIKey))
	{
		internal.POST("/payments/completed", s.PaymentCompleted)
	}

	return router
}

// abortWithError maps domain errors to HTTP status codes
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
