package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/honeycombio/otel-config-go/otelconfig"
	"go.opentelemetry.io/otel"

	"github.com/VitalsyncDev/vitalsync-web/internal/db"
	"github.com/VitalsyncDev/vitalsync-web/internal/garmin"
	"github.com/VitalsyncDev/vitalsync-web/internal/logger"
	"github.com/VitalsyncDev/vitalsync-web/internal/sync"
)

var workerTracer = otel.Tracer("vitalsync/worker")

// WorkerConfig holds configuration for the periodic sync worker.
type WorkerConfig struct {
	SyncInterval time.Duration
	SyncPacing   time.Duration
}

// Worker runs full syncs on a fixed interval, for deployments that want
// fresh data without anyone pressing the sync button.
type Worker struct {
	engine *sync.Engine
	config WorkerConfig
}

// runWorker is the entry point for the background worker process.
func runWorker() {
	logger.Info("starting periodic sync worker")

	// Initialize OpenTelemetry (same as server)
	otelShutdown, err := otelconfig.ConfigureOpenTelemetry()
	if err != nil {
		logger.Warn("failed to configure OpenTelemetry for worker", "error", err)
	} else {
		defer otelShutdown()
	}

	workerConfig := loadWorkerConfig()
	logger.Info("worker configuration loaded",
		"sync_interval", workerConfig.SyncInterval,
		"sync_pacing", workerConfig.SyncPacing,
	)

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		logger.Fatal("missing required env var", "var", "DATABASE_URL")
	}

	garminEmail := os.Getenv("GARMIN_EMAIL")
	if garminEmail == "" {
		logger.Fatal("missing required env var", "var", "GARMIN_EMAIL")
	}
	garminPassword := os.Getenv("GARMIN_PASSWORD")
	if garminPassword == "" {
		logger.Fatal("missing required env var", "var", "GARMIN_PASSWORD")
	}

	database, err := db.Connect(databaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	defer database.Close()

	client := garmin.NewClient(garminEmail, garminPassword)
	engine := sync.NewEngine(database, sync.NewGarminAuthenticator(client),
		sync.WithPacing(workerConfig.SyncPacing))

	worker := &Worker{
		engine: engine,
		config: workerConfig,
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("shutdown signal received, stopping worker")
		cancel()
	}()

	worker.Run(ctx)
	logger.Info("worker stopped")
}

// Run executes the main worker loop.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.config.SyncInterval)
	defer ticker.Stop()

	// Run immediately on startup
	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// runOnce executes a single full sync cycle.
func (w *Worker) runOnce(ctx context.Context) {
	ctx, span := workerTracer.Start(ctx, "worker.run_once")
	defer span.End()

	logger.Info("starting sync cycle")
	if err := w.engine.SyncAll(ctx); err != nil {
		// Login failures are already recorded by the engine; the next
		// tick retries.
		logger.Error("sync cycle aborted", "error", err)
		return
	}
	logger.Info("sync cycle complete")
}

// loadWorkerConfig loads worker configuration from environment variables.
func loadWorkerConfig() WorkerConfig {
	config := WorkerConfig{
		SyncInterval: 6 * time.Hour,
		SyncPacing:   time.Second,
	}

	if interval := os.Getenv("WORKER_SYNC_INTERVAL"); interval != "" {
		if parsed, err := time.ParseDuration(interval); err == nil && parsed > 0 {
			config.SyncInterval = parsed
		}
	}
	if pacing := os.Getenv("SYNC_PACING"); pacing != "" {
		if parsed, err := time.ParseDuration(pacing); err == nil && parsed >= 0 {
			config.SyncPacing = parsed
		}
	}

	return config
}
