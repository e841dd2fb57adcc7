package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/borrowbook/internal/adapter/http"
	"github.com/iho/borrowbook/internal/adapter/http/handler"
	"github.com/iho/borrowbook/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/borrowbook/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/borrowbook/internal/adapter/repository/redis"
	"github.com/iho/borrowbook/internal/infrastructure/auth"
	"github.com/iho/borrowbook/internal/infrastructure/config"
	"github.com/iho/borrowbook/internal/infrastructure/logger"
	"github.com/iho/borrowbook/internal/infrastructure/metrics"
	"github.com/iho/borrowbook/internal/infrastructure/postgres"
	"github.com/iho/borrowbook/internal/infrastructure/redis"
	"github.com/iho/borrowbook/internal/report"
	"github.com/iho/borrowbook/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	sessions := redisRepo.NewSessionStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	appMetrics := metrics.New()

	// Initialize use cases
	entryUC := usecase.NewEntryUseCase(entryRepo, txManager, idGen, cache, appMetrics)
	ledgerUC := usecase.NewLedgerUseCase(entryRepo, cache, appMetrics)
	userUC := usecase.NewUserUseCase(userRepo, entryRepo, idGen)
	reportUC := usecase.NewReportUseCase(ledgerUC, report.NewPDFRenderer())

	// Auth and observability
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, appMetrics)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userUC, jwtManager, sessions, cfg.RefreshTTL, cfg.RefreshTTLRemember, appMetrics)
	entryHandler := handler.NewEntryHandler(entryUC)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC)
	reportHandler := handler.NewReportHandler(reportUC, appMetrics)
	adminHandler := handler.NewAdminHandler(userUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:   authHandler,
		EntryHandler:  entryHandler,
		LedgerHandler: ledgerHandler,
		ReportHandler: reportHandler,
		AdminHandler:  adminHandler,
		HealthHandler: healthHandler,
		JWTManager:    jwtManager,
		Logger:        appLogger,
		Metrics:       appMetrics,
		RateLimiter:   rateLimiter,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
