package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/binsight/internal/adapters/http/api"
	"github.com/okian/binsight/internal/adapters/kv"
	"github.com/okian/binsight/internal/adapters/repository"
	"github.com/okian/binsight/internal/bus"
	"github.com/okian/binsight/internal/config"
	"github.com/okian/binsight/internal/domain/classify"
	"github.com/okian/binsight/internal/registrar"
	"github.com/okian/binsight/internal/session"
	"github.com/okian/binsight/pkg/logger"
	"github.com/okian/binsight/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout          = 10 * time.Second
	writeTimeout         = 10 * time.Second
	idleTimeout          = 60 * time.Second
	readHeaderTimeout    = 5 * time.Second
	shutdownTimeout      = 30 * time.Second
	storeMetricsInterval = 5 * time.Second
)

// dependencies bundles the service components behind the API's dependency
// interface through method promotion.
type dependencies struct {
	repository.Store
	*session.Controller
	*registrar.Registrar
}

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

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

	store, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		log.Error(ctx, "failed to open store", logger.Error(err))
		return
	}
	defer closeStore()

	events := bus.New()
	defer func() { _ = events.Close() }()

	sim := classify.New(
		classify.WithRewardPoints(cfg.RewardPoints),
		classify.WithFinePoints(cfg.FinePoints),
		classify.WithCorrectProbability(cfg.CorrectProbability),
	)

	controller := session.New(store, sim,
		session.WithBus(events),
		session.WithRecordingTicks(cfg.RecordingTicks),
		session.WithTickInterval(time.Duration(cfg.TickIntervalMS)*time.Millisecond),
		session.WithSteps([]session.Step{
			{Name: session.StepFrameExtraction, Duration: time.Duration(cfg.FrameExtractionMS) * time.Millisecond},
			{Name: session.StepRemoteAnalysis, Duration: time.Duration(cfg.RemoteAnalysisMS) * time.Millisecond},
			{Name: session.StepClassification, Duration: time.Duration(cfg.ClassificationMS) * time.Millisecond},
		}),
		session.WithResultDelay(time.Duration(cfg.ResultDisplayMS)*time.Millisecond),
	)

	qrDir := filepath.Join(cfg.DataDir, "qr")
	enroller := registrar.New(store, qrDir)

	// Keep the stored-collection gauges fresh.
	go startStoreMetricsUpdater(ctx, store)

	// Log phase transitions at debug for kiosk troubleshooting.
	if err := controller.Subscribe(ctx, func(snap session.Snapshot) {
		log.Debug(ctx, "session phase", logger.String("phase", string(snap.Phase)))
	}); err != nil {
		log.Warn(ctx, "session subscription failed", logger.Error(err))
	}

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(dependencies{store, controller, enroller}, qrDir)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// buildStore opens the configured persistence backend.
func buildStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	var backend kv.Store
	switch cfg.StoreBackend {
	case "memory":
		backend = kv.NewMemoryStore()
	case "redis":
		redisStore, err := kv.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		backend = redisStore
	default:
		fileStore, err := kv.NewFileStore(filepath.Join(cfg.DataDir, "store"))
		if err != nil {
			return nil, nil, err
		}
		backend = fileStore
	}

	return repository.NewKVStore(backend), func() { _ = backend.Close() }, nil
}

// startStoreMetricsUpdater periodically refreshes gauges derived from the
// stored collections.
func startStoreMetricsUpdater(ctx context.Context, store repository.Store) {
	ticker := time.NewTicker(storeMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if users, err := store.ListUsers(ctx); err == nil {
				metrics.UpdateUsersTotal(len(users))
			}
			if records, err := store.ListRecords(ctx); err == nil {
				metrics.UpdateStoredRecords(len(records))
			}
		}
	}
}
