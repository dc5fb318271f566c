package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/mmkt/moneymarket/internal/adapter/http"
	"github.com/mmkt/moneymarket/internal/adapter/http/handler"
	"github.com/mmkt/moneymarket/internal/adapter/repository/memory"
	postgresRepo "github.com/mmkt/moneymarket/internal/adapter/repository/postgres"
	redisRepo "github.com/mmkt/moneymarket/internal/adapter/repository/redis"
	"github.com/mmkt/moneymarket/internal/domain"
	"github.com/mmkt/moneymarket/internal/infrastructure/config"
	"github.com/mmkt/moneymarket/internal/infrastructure/logger"
	"github.com/mmkt/moneymarket/internal/infrastructure/metrics"
	"github.com/mmkt/moneymarket/internal/infrastructure/postgres"
	"github.com/mmkt/moneymarket/internal/infrastructure/redis"
	"github.com/mmkt/moneymarket/internal/usecase"
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

	ctx := context.Background()
	appMetrics := metrics.New()

	var (
		txManager   usecase.TransactionManager
		accountRepo usecase.AccountRepository
		tranRepo    usecase.TransactionRepository
		subRepo     usecase.SubProductRepository
		seqRepo     usecase.SequenceRepository
		eodRepo     usecase.EODRunRepository

		idempotencyStore usecase.IdempotencyStore
		healthHandler    *handler.HealthHandler
	)

	switch cfg.Store {
	case config.StorePostgres:
		// Connect to PostgreSQL
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
		if err != nil {
			appLogger.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer pool.Close()
		appLogger.Info().Msg("connected to postgres")

		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, appLogger); err != nil {
			appLogger.Fatal().Err(err).Msg("failed to run migrations")
		}

		// Connect to Redis
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			appLogger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		appLogger.Info().Msg("connected to redis")

		txManager = postgresRepo.NewTxManager(pool)
		accountRepo = postgresRepo.NewAccountRepository(pool)
		tranRepo = postgresRepo.NewTransactionRepository(pool)
		subRepo = postgresRepo.NewSubProductRepository(pool)
		seqRepo = postgresRepo.NewSequenceRepository(pool)
		eodRepo = postgresRepo.NewEODRunRepository(pool)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		healthHandler = handler.NewHealthHandler(pool, redisClient)

	case config.StoreMemory:
		appLogger.Warn().Msg("using in-memory store, data is not persisted")

		store := memory.NewStore()
		txManager = memory.NewTxManager(store)
		accountRepo = memory.NewAccountRepository(store)
		tranRepo = memory.NewTransactionRepository(store)
		subRepo = memory.NewSubProductRepository(store)
		seqRepo = memory.NewSequenceRepository(store)
		eodRepo = memory.NewEODRunRepository(store)
		healthHandler = handler.NewHealthHandler(nil, nil)
	}

	idGen := postgresRepo.NewULIDGenerator()

	// Initialize use cases
	postingUC := usecase.NewPostingUseCase(txManager, accountRepo, tranRepo, subRepo, idGen)
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, subRepo, seqRepo)
	eodUC := usecase.NewEODUseCase(postingUC, accountRepo, subRepo, eodRepo, cfg.InterestExpenseAccount, appLogger, appMetrics)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC),
		TransactionHandler: handler.NewTransactionHandler(postingUC),
		EODHandler:         handler.NewEODHandler(eodUC),
		HealthHandler:      healthHandler,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		Logger:             appLogger,
		Metrics:            appMetrics,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()

	if cfg.EODScheduled {
		go runEODScheduler(schedulerCtx, eodUC, cfg.EODHour, appLogger)
	}

	// Start server in goroutine
	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Str("store", cfg.Store).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server...")
	stopScheduler()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server stopped")
}

// runEODScheduler triggers the accrual run once per day at the configured
// UTC hour. A date whose run already completed is skipped quietly so a
// restart within the same day does not log errors.
func runEODScheduler(ctx context.Context, eodUC *usecase.EODUseCase, hour int, logger zerolog.Logger) {
	for {
		now := time.Now().UTC()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}

		logger.Info().Time("next_run", next).Msg("eod scheduler armed")

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
		}

		if _, err := eodUC.Run(ctx, nil); err != nil {
			if errors.Is(err, domain.ErrEODAlreadyRun) {
				continue
			}
			logger.Error().Err(err).Msg("scheduled eod run failed")
		}
	}
}
