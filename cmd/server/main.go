package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/frevault/frevault-backend/internal/adapter/repository/postgres"
	"github.com/frevault/frevault-backend/internal/adapter/rest"
	"github.com/frevault/frevault-backend/internal/logger"
	"github.com/frevault/frevault-backend/internal/usecase/allocation"
	"github.com/frevault/frevault-backend/internal/usecase/statement"
	"github.com/frevault/frevault-backend/internal/usecase/taxvault"
)

const defaultPort = "8080"

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	// 1. Setup Logger
	development := os.Getenv("APP_ENV") != "production"
	zapLogger, err := logger.New(development, logger.Level(os.Getenv("LOG_LEVEL")))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// 2. Setup Database
	dbConnStr := os.Getenv("DB_CONN_STR")
	if dbConnStr == "" {
		// If explicit string is missing, build it from individual vars (Docker friendly)
		host := envOr("DB_HOST", "localhost")
		port := envOr("DB_PORT", "5432")
		user := envOr("DB_USER", "postgres")
		password := envOr("DB_PASSWORD", "postgres")
		dbname := envOr("DB_NAME", "frevault")

		dbConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, port, user, password, dbname)
	}

	db, err := postgres.NewDB(dbConnStr)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// 3. Initialize Repositories (Postgres)
	goalRepo := postgres.NewGoalRepository(db)
	userRepo := postgres.NewUserRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)

	// 4. Initialize Services (Use Cases)
	allocationService := allocation.NewService(goalRepo, db, zapLogger)
	taxVaultService := taxvault.NewService(goalRepo, userRepo, db, zapLogger)
	statementService := statement.NewService(paymentRepo, goalRepo)

	// 5. Start HTTP Server
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		zapLogger.Fatal("JWT_SECRET environment variable not set")
	}
	internalAPIKey := os.Getenv("INTERNAL_API_KEY")
	if internalAPIKey == "" {
		zapLogger.Fatal("INTERNAL_API_KEY environment variable not set")
	}

	server := rest.NewServer(allocationService, taxVaultService, statementService, paymentRepo, zapLogger)
	router := server.Router(jwtSecret, internalAPIKey)

	httpServer := &http.Server{
		Addr:    ":" + envOr("PORT", defaultPort),
		Handler: router,
	}

	go func() {
		zapLogger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to serve HTTP server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	waitForShutdown(httpServer, zapLogger)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(httpServer *http.Server, zapLogger *zap.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	zapLogger.Info("Received signal, shutting down gracefully", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		zapLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	zapLogger.Info("HTTP server stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
