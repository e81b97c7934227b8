package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/dealerops/dealerledger/internal/adapter/http"
	"github.com/dealerops/dealerledger/internal/adapter/http/handler"
	postgresRepo "github.com/dealerops/dealerledger/internal/adapter/repository/postgres"
	redisRepo "github.com/dealerops/dealerledger/internal/adapter/repository/redis"
	"github.com/dealerops/dealerledger/internal/infrastructure/clock"
	"github.com/dealerops/dealerledger/internal/infrastructure/config"
	"github.com/dealerops/dealerledger/internal/infrastructure/logger"
	"github.com/dealerops/dealerledger/internal/infrastructure/metrics"
	"github.com/dealerops/dealerledger/internal/infrastructure/postgres"
	"github.com/dealerops/dealerledger/internal/infrastructure/redis"
	"github.com/dealerops/dealerledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	closureRepo := postgresRepo.NewClosureRepository(pool)
	adjustmentRepo := postgresRepo.NewAdjustmentRepository(pool)
	profitRepo := postgresRepo.NewProfitRepository(pool)
	capitalRepo := postgresRepo.NewCapitalRepository(pool)
	recordRepo := postgresRepo.NewRecordRepository(pool)
	inventoryRepo := postgresRepo.NewInventoryRepository(pool)
	priceRepo := postgresRepo.NewPriceHistoryRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()

	masterStore := postgresRepo.NewRecordStore(pool, postgresRepo.TableRecords)
	historyStore := postgresRepo.NewRecordStore(pool, postgresRepo.TableRecordsHistory)
	combinedStore := postgresRepo.NewRecordStore(pool, postgresRepo.TableRecordsCombined)

	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Initialize use cases
	closureUC := usecase.NewClosureUseCase(closureRepo, cache, idGen)
	adjustmentUC := usecase.NewAdjustmentUseCase(txManager, adjustmentRepo, recordRepo, entryRepo, idGen, appMetrics)
	capitalUC := usecase.NewCapitalUseCase(txManager, capitalRepo, idGen, appMetrics)
	profitUC := usecase.NewProfitUseCase(txManager, profitRepo, idGen, appMetrics)
	postingUC := usecase.NewPostingUseCase(
		txManager, closureUC, entryRepo, recordRepo, inventoryRepo, priceRepo,
		capitalUC, adjustmentUC, idGen, appMetrics,
	).WithRetrier(postgresRepo.NewRetrier())
	locatorUC := usecase.NewLocatorUseCase(masterStore, historyStore, combinedStore, clock.New(), appMetrics)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		PostingHandler:    handler.NewPostingHandler(postingUC, cfg.AutoApproveAdjustments),
		AdjustmentHandler: handler.NewAdjustmentHandler(adjustmentUC, cfg.AutoApproveAdjustments),
		ProfitHandler:     handler.NewProfitHandler(profitUC),
		CapitalHandler:    handler.NewCapitalHandler(capitalUC),
		ClosureHandler:    handler.NewClosureHandler(closureUC),
		RecordHandler:     handler.NewRecordHandler(locatorUC),
		HealthHandler:     handler.NewHealthHandler(pool, redisClient),
		Logger:            log.Logger,
		IdempotencyStore:  idempotencyStore,
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
