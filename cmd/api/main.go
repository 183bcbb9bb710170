package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ledgerbooks/backend/internal/api"
	"github.com/ledgerbooks/backend/internal/api/service"
	"github.com/ledgerbooks/backend/internal/auth"
	"github.com/ledgerbooks/backend/internal/config"
	datamongo "github.com/ledgerbooks/backend/internal/data/mongo"
	datapostgres "github.com/ledgerbooks/backend/internal/data/postgres"
	dataredis "github.com/ledgerbooks/backend/internal/data/redis"
	"github.com/ledgerbooks/backend/internal/logger"
	"github.com/ledgerbooks/backend/internal/outbox_poller"
	"github.com/ledgerbooks/backend/internal/platform/messaging/producers"
	"github.com/ledgerbooks/backend/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	redisClient, err := persistence.NewRedisClient(appCtx, log, &cfg.Redis)
	if err != nil {
		log.Error("Failed to initialize Redis", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producer for ledger events
	eventProducer, err := producers.NewLedgerEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize Kafka producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := datapostgres.NewUserRepository(log, postgresDB)
	accountRepo := datapostgres.NewAccountRepository(log, postgresDB)
	ledgerRepo := datapostgres.NewLedgerRepository(log, postgresDB)
	outboxRepo := datapostgres.NewOutboxRepository(log, postgresDB)
	reportRepo := datamongo.NewReportRepository(log, mongoDB.Database())
	balanceCache := dataredis.NewBalanceCache(log, redisClient, cfg.Redis.BalanceTTL)

	// Initialize services
	tokens := auth.NewTokenManager(&cfg.JWT)
	userService := service.NewUserService(log, userRepo, tokens)
	accountService := service.NewAccountService(log, accountRepo, balanceCache)
	ledgerService := service.NewLedgerService(log, postgresDB, ledgerRepo, accountRepo, outboxRepo, balanceCache)
	reportService := service.NewReportService(log, accountRepo, reportRepo)

	// Initialize REST server
	server := api.NewServer(log, cfg, tokens, userRepo, userService, accountService, ledgerService, reportService)
	log.Info("REST server initialized")

	// Initialize outbox poller so committed ledger events reach the broker
	eventPublisher := outbox_poller.NewEventPublisher(outboxRepo, eventProducer, log)
	poller := outbox_poller.NewPoller(&cfg.Outbox, outboxRepo, eventPublisher, log)

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Start outbox poller in goroutine
	go func() {
		log.Info("Starting outbox poller",
			"interval", cfg.Outbox.PollingInterval.String(),
			"batch_size", cfg.Outbox.BatchSize,
		)
		poller.Start(appCtx)
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context, stopping the poller
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if err = eventProducer.Close(); err != nil {
		log.Error("Error closing Kafka producer", "error", err)
	}

	if err = redisClient.Close(); err != nil {
		log.Error("Error closing Redis client", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
