package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/magicalwebsite/backend/docs"
	"github.com/magicalwebsite/backend/internal/auth/service"
	"github.com/magicalwebsite/backend/internal/config"
	"github.com/magicalwebsite/backend/internal/handlers"
	"github.com/magicalwebsite/backend/internal/logger"
	"github.com/magicalwebsite/backend/internal/metrics"
	"github.com/magicalwebsite/backend/internal/middlewares"
	"github.com/magicalwebsite/backend/internal/repositories"
	"github.com/magicalwebsite/backend/internal/server"
	"github.com/magicalwebsite/backend/internal/services"
	"github.com/magicalwebsite/backend/internal/storage"
	"go.uber.org/zap"
)

// @title Magical Website API
// @version 1.0
// @description Accounts and trial allowances for the demo features

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Debug); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Magical Website API",
		zap.String("db_type", cfg.Database.Type),
		zap.String("password_hasher", cfg.Security.PasswordHasher),
	)

	// Connect to database and run migrations
	db, err := storage.Open(cfg, "migrations")
	if err != nil {
		logger.Logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	hasher, err := services.NewHasher(cfg.Security.PasswordHasher)
	if err != nil {
		logger.Logger.Fatal("Failed to create password hasher", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, logger.Logger)
	usageRepo := repositories.NewUsageLogRepository(db, logger.Logger)

	// Make sure the bootstrap admin exists before serving traffic
	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 30*time.Second)
	action, err := services.EnsureAdmin(bootstrapCtx, userRepo, hasher, cfg.Admin.Password, logger.Logger)
	cancelBootstrap()
	if err != nil {
		logger.Logger.Fatal("Failed to bootstrap admin user", zap.Error(err))
	}
	logger.Logger.Info("Admin bootstrap finished", zap.Stringer("action", action))

	// Initialize JWT token generator
	tokenGenerator := service.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	appMetrics := metrics.NewMetrics("magicalwebsite")

	// Initialize services
	authService := services.NewAuthService(userRepo, tokenGenerator, hasher, logger.Logger)
	entitlementService := services.NewEntitlementService(userRepo, usageRepo, hasher, appMetrics, logger.Logger)
	adminService := services.NewAdminService(userRepo, entitlementService, logger.Logger)

	// Setup router
	r := server.NewRouter(server.Handlers{
		Auth:   handlers.NewAuthHandler(authService, logger.Logger),
		User:   handlers.NewUserHandler(entitlementService, logger.Logger),
		Admin:  handlers.NewAdminHandler(adminService, logger.Logger),
		Health: handlers.NewHealthHandler(db, logger.Logger),
	}, server.Options{
		Logger:            logger.Logger,
		Resolver:          authService,
		Metrics:           appMetrics,
		AllowedOrigins:    cfg.CORS.AllowedOrigins,
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		MaxRequestSize:    middlewares.DefaultMaxRequestSize,
		SwaggerURL:        fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port),
	})

	// Start server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}
