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

	"farming-engine/config"
	"farming-engine/internal/adapter/queue"
	pgStorage "farming-engine/internal/adapter/storage/postgres"
	"farming-engine/internal/app"
	"farming-engine/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("FARM_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Dur("tick_interval", cfg.Farming.TickInterval).
		Msg("Starting farming engine")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		if err := pgStorage.Migrate(ctx, cfg.Database.DSN(), pgStorage.MigrateUp, log); err != nil {
			log.Fatal().Err(err).Msg("Schema migration failed")
		}
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build engine")
	}
	defer a.Close()

	// Commission queue
	if a.River != nil {
		if err := queue.Migrate(ctx, a.Pool, log); err != nil {
			log.Fatal().Err(err).Msg("River migration failed")
		}
		if err := a.River.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start commission retry queue")
		}
		log.Info().Int("max_workers", cfg.Queue.MaxWorkers).Msg("Commission queue started")
	}

	// Tick loop
	a.Runner.Start(ctx)

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// The running batch sees the cancelled context and defers what is left.
	select {
	case <-a.Runner.Done():
	case <-shutdownCtx.Done():
		log.Warn().Msg("Tick loop did not stop in time")
	}

	if a.River != nil {
		if err := a.River.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Commission queue forced to stop")
		}
	}

	log.Info().Msg("Engine exited")
}
