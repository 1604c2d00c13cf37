package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	httpAdapter "github.com/finkit/corebank/internal/adapter/http"
	"github.com/finkit/corebank/internal/adapter/http/handler"
	postgresRepo "github.com/finkit/corebank/internal/adapter/repository/postgres"
	redisRepo "github.com/finkit/corebank/internal/adapter/repository/redis"
	"github.com/finkit/corebank/internal/infrastructure/config"
	"github.com/finkit/corebank/internal/infrastructure/logger"
	"github.com/finkit/corebank/internal/infrastructure/postgres"
	"github.com/finkit/corebank/internal/infrastructure/redis"
	"github.com/finkit/corebank/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "corebank",
	})
	zerolog.DefaultContextLogger = &log.Logger

	riskThreshold, err := decimal.NewFromString(cfg.RiskThreshold)
	if err != nil {
		log.Fatal().Err(err).Str("value", cfg.RiskThreshold).Msg("invalid risk threshold")
	}

	ctx := context.Background()

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
	accountRepo := postgresRepo.NewAccountRepository(pool)
	journalRepo := postgresRepo.NewJournalRepository(pool)
	ruleRepo := postgresRepo.NewRuleRepository(pool)
	limitRepo := postgresRepo.NewLimitRepository(pool)
	accrualRepo := postgresRepo.NewAccrualRepository(pool)
	productRepo := postgresRepo.NewProductRepository(pool)
	movementRepo := postgresRepo.NewMovementRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log.Logger)

	// Initialize use cases
	pricingUC := usecase.NewPricingUseCase(ruleRepo)
	limitUC := usecase.NewLimitUseCase(txManager, limitRepo)
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, journalRepo, idGen)
	accrualUC := usecase.NewAccrualUseCase(txManager, accountRepo, productRepo, accrualRepo, ledgerUC, idGen)
	movementUC := usecase.NewMovementUseCase(txManager, movementRepo, pricingUC, limitUC, ledgerUC, idGen, retrier, usecase.MovementConfig{
		FeeIncomeAccount:   cfg.FeeIncomeAccount,
		VATPayableAccount:  cfg.VATPayableAccount,
		LevyPayableAccount: cfg.LevyPayableAccount,
		RiskThreshold:      riskThreshold,
	})
	reconUC := usecase.NewReconciliationUseCase(accountRepo, journalRepo, movementRepo, limitUC, ledgerUC)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		PricingHandler:        handler.NewPricingHandler(pricingUC),
		MovementHandler:       handler.NewMovementHandler(movementUC),
		LedgerHandler:         handler.NewLedgerHandler(ledgerUC),
		LimitHandler:          handler.NewLimitHandler(limitUC),
		AccrualHandler:        handler.NewAccrualHandler(accrualUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconUC, cfg.StaleReservationAge),
		HealthHandler:         handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
		Logger:                log.Logger,
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
