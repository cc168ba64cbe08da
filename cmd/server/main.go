// Package main provides the API server entry point for the prop analyzer service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/adapter"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/api"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/betslip"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/config"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/engine"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/logging"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/poller"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/service"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.GetGlobalLogger().WithError(err).Fatal("Failed to load configuration")
	}

	// Initialize structured logging
	logLevel := logging.ParseLogLevel(cfg.Logging.Level)
	logFormat := logging.ParseLogFormat(cfg.Logging.Format)
	logging.InitGlobalLogger(logLevel, logFormat)

	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	// Connect to Postgres. Parlay tracking requires it.
	postgres, err := storage.NewPostgresDB(&cfg.Database.Postgres)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Postgres")
	}
	defer postgres.Close()

	// Connect to ClickHouse. Line history is an analytics concern, so a
	// missing ClickHouse degrades to no history instead of failing startup.
	var lineHistory poller.LineHistorySink
	clickhouse, err := storage.NewClickHouseDB(&cfg.Database.ClickHouse)
	if err != nil {
		logger.WithError(err).Warn("ClickHouse unavailable, line history disabled")
	} else {
		defer clickhouse.Close()
		lineHistory = storage.NewLineHistoryRepository(clickhouse)
	}

	// Connect to Redis. The betslip and preferences survive restarts only
	// when Redis is up; without it they are memory-only.
	var selections *storage.SelectionStore
	redis, err := storage.NewRedisCache(&cfg.Database.Redis)
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable, betslip persistence disabled")
	} else {
		defer redis.Close()
		selections = storage.NewSelectionStore(redis)
	}

	logger.Info("Database connections established")

	// Game state store and feed polling
	store := engine.NewGameStateStore()
	feeds := adapter.NewFeedsClient(cfg.Feeds, logger)
	orchestrator := poller.NewOrchestrator(feeds, store, lineHistory, cfg.Feeds, logger)
	defer orchestrator.Shutdown()

	// Betslip ledger, restored from Redis when available
	var ledger *betslip.Ledger
	if selections != nil {
		ledger = betslip.NewLedger(selections, logger)
		restoreCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := ledger.Restore(restoreCtx); err != nil {
			logger.WithError(err).Warn("Failed to restore betslip")
		}
		cancel()
	} else {
		ledger = betslip.NewLedger(nil, logger)
	}

	// Repositories and services
	parlayRepo := storage.NewParlayRepository(postgres)
	averagesRepo := storage.NewPlayerAveragesRepository(postgres)

	boardService := service.NewBoardService(store, cfg.Engine)

	var parlayCache service.ParlayCache
	if selections != nil {
		parlayCache = selections
	}
	parlayService := service.NewParlayService(parlayRepo, parlayCache, store, cfg.Engine, logger)

	logger.Info("Services initialized")

	// Create server configuration
	serverConfig := &api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		ClientRPS:       50,
		ClientBurst:     100,
	}

	var filters api.FiltersStoreInterface
	if selections != nil {
		filters = selections
	}

	server := api.NewServer(
		serverConfig,
		boardService,
		parlayService,
		orchestrator,
		store,
		feeds,
		ledger,
		filters,
		averagesRepo,
		logger,
	)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	logger.WithFields(map[string]interface{}{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
