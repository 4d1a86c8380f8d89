// Package main is the entry point for the Blinkrloan dashboard service.
// It synchronizes the loan portfolio from the external collection API into
// a local normalized store and serves the aggregated views (KPIs, DPD
// distribution, geographic and time-series breakdowns) that the frontend
// renders.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/config"
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/di"
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/modules/ingest"
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/scheduler"
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/server"
	"github.com/Deep6432/Blinkrloan-Dashboard/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting Blinkrloan dashboard")

	// Wire databases, repositories and services
	container, err := di.Wire(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer container.Close()

	// Prime the read snapshot: restore the stored portfolio, or run a first
	// sync when the store is empty so the dashboard never starts blank.
	// A failed first sync is not fatal; a later manual or scheduled sync
	// can still recover while the API stays up.
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 2*cfg.FetchTimeout+10*time.Second)
	if err := container.IngestService.Bootstrap(bootCtx); err != nil {
		log.Error().Err(err).Msg("Initial sync failed, serving empty portfolio until next sync")
	}
	if err := container.FraudIngestService.Bootstrap(bootCtx); err != nil {
		log.Error().Err(err).Msg("Initial fraud sync failed, serving empty portfolio until next sync")
	}
	bootCancel()

	// Periodic background sync and database maintenance
	sched := scheduler.New(log)
	if cfg.SyncSchedule != "" {
		for _, svc := range []*ingest.Service{container.IngestService, container.FraudIngestService} {
			if err := sched.AddJob(cfg.SyncSchedule, ingest.NewSyncJob(svc)); err != nil {
				log.Fatal().Err(err).Str("schedule", cfg.SyncSchedule).Msg("Invalid sync schedule")
			}
		}
	}
	walJob := scheduler.NewWALCheckpointJob(container.PortfolioDB, container.LedgerDB, log)
	if err := sched.AddJob("@every 1h", walJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register WAL checkpoint job")
	}
	sched.Start()

	srv := server.New(server.Config{
		Port:      cfg.Port,
		Log:       log,
		Container: container,
		DevMode:   cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	// Stop the scheduler first so no sync starts mid-shutdown
	sched.Stop()

	// Give in-flight requests up to 10 seconds to drain
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
