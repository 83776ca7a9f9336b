package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vapeless/vapeless/internal/adapters/coach"
	"github.com/vapeless/vapeless/internal/adapters/http/api"
	"github.com/vapeless/vapeless/internal/adapters/repository"
	"github.com/vapeless/vapeless/internal/app"
	"github.com/vapeless/vapeless/internal/config"
	"github.com/vapeless/vapeless/internal/domain/calendar"
	"github.com/vapeless/vapeless/internal/domain/streak"
	"github.com/vapeless/vapeless/pkg/logger"
	"github.com/vapeless/vapeless/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 60 * time.Second // coach calls proxy a remote model
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Initialize logging first; everything after reports through it.
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	clock, err := buildClock(cfg.Timezone)
	if err != nil {
		log.Error(ctx, "invalid timezone; using process-local zone", logger.String("timezone", cfg.Timezone), logger.Error(err))
		clock = calendar.New()
	}

	store, err := repository.NewGormStore(ctx, repository.WithDSN(cfg.DatabaseDSN))
	if err != nil {
		log.Error(ctx, "failed to open store", logger.Error(err))
		return
	}

	vitalityOpts := []streak.Option{streak.WithWindow(cfg.VitalityWindowDays)}
	if cfg.VitalityMissingAsFailed {
		vitalityOpts = append(vitalityOpts, streak.WithMissingAsFailed())
	}

	// Create and start the service with configuration options
	svc := app.New(
		app.WithLogger(log),
		app.WithStore(store),
		app.WithCoach(coach.New(cfg.CoachAPIKey, coach.WithModel(cfg.CoachModel))),
		app.WithClock(clock),
		app.WithVitality(streak.NewVitality(vitalityOpts...)),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
	)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// buildClock resolves the configured timezone into a day-boundary clock.
func buildClock(tz string) (calendar.Clock, error) {
	if tz == "" {
		return calendar.New(), nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return calendar.Clock{}, err
	}
	return calendar.New(calendar.WithLocation(loc)), nil
}

// startServiceMetricsUpdater refreshes gauge metrics from service stats.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := svc.GetStats()
			if queueLen, ok := stats["queueLength"].(int); ok {
				metrics.UpdateQueueSize(queueLen)
			}
			if workerCount, ok := stats["workerCount"].(int); ok {
				metrics.UpdateWorkerCount(workerCount)
			}
		}
	}
}
