package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"energy-dex/config"
	httpHandler "energy-dex/internal/adapter/http/handler"
	"energy-dex/internal/adapter/ledger"
	pgStorage "energy-dex/internal/adapter/storage/postgres"
	redisStorage "energy-dex/internal/adapter/storage/redis"
	"energy-dex/internal/core/ports"
	"energy-dex/internal/service"
	"energy-dex/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("ledger", cfg.Ledger.URL).
		Msg("Starting energy DEX client")

	ctx := context.Background()

	// Redis-backed credential store
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")
	credStore := redisStorage.NewCredentialStore(rdb)

	// Optional settlement archive
	var archive ports.SettlementArchive
	if cfg.Archive.Enabled {
		pool, err := pgStorage.NewPool(ctx, cfg.Archive, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		log.Info().Msg("Settlement archive connected")
		archive = pgStorage.NewSettlementArchive(pool)
	}

	// Ledger gateway and services
	gateway := ledger.New(cfg.Ledger, cfg.Market.PollInterval, logger.For(log, "gateway"))
	defer gateway.Close()

	syncSvc := service.NewSyncService(gateway, archive, cfg, logger.For(log, "sync"))
	sessionSvc := service.NewSessionService(gateway, syncSvc, credStore, cfg, logger.For(log, "session"))
	tokenizerSvc := service.NewTokenizationService(gateway, syncSvc, sessionSvc, cfg, logger.For(log, "tokenization"))
	orderSvc := service.NewOrderService(gateway, syncSvc, sessionSvc, tokenizerSvc, cfg, logger.For(log, "orders"))

	// Replay a persisted session, if any.
	if identity, err := sessionSvc.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("session restore failed")
	} else if identity != nil {
		log.Info().Str("address", identity.Address).Msg("previous session restored")
	}

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		SessionSvc: sessionSvc,
		SyncSvc:    syncSvc,
		OrderSvc:   orderSvc,
		Tokenizer:  tokenizerSvc,
		Gateway:    gateway,
		Logger:     log,
	})

	// HTTP server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Client exited")
}
