package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookyz/internal/api"
	"bookyz/internal/app"
	"bookyz/internal/catalog"
	"bookyz/internal/config"
	"bookyz/internal/database"
	"bookyz/internal/domain"
	"bookyz/internal/events"
	"bookyz/internal/logging"
	"bookyz/internal/metrics"
	"bookyz/internal/repository"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, cleanup, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	bus := events.NewEventBus()
	startMetrics(ctx, cfg, bus, logger)

	state := app.New(app.Options{
		Catalog:     catalog.Default(time.Now(), loc),
		KV:          kv,
		EventBus:    bus,
		BookingDays: cfg.Booking.BookingDays,
		Logger:      logger,
	})
	state.Load(ctx, logger)

	httpServer := api.NewHTTPServer(cfg.API, state, logging.Component(logger, "http"))
	return serve(ctx, httpServer, cfg, logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}

	return cfg, baseLogger, closer, nil
}

// initStorage opens the configured key-value backend. The returned cleanup
// func releases it.
func initStorage(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (domain.KVStore, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageSQLite:
		db, err := database.NewDB(cfg.Database.Path, logging.Component(logger, "database"))
		if err != nil {
			logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
			return nil, nil, err
		}
		backups := database.NewBackupService(db, cfg.Backup, logging.Component(logger, "backup"))
		go backups.Start(ctx)
		return db, func() { _ = db.Close() }, nil

	case config.StorageRedis:
		client := repository.NewRedisClient(cfg.Redis)
		if err := repository.Ping(ctx, client); err != nil {
			logger.Warn().Err(err).Msg("redis connection failed, writes go to memory until it recovers")
		} else {
			logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
		}
		kv := repository.NewFailoverKVStore(
			repository.NewRedisKVStore(client, cfg.Redis.KeyPrefix),
			repository.NewMemoryKVStore(),
			logging.Component(logger, "storage"),
		)
		return kv, func() { _ = repository.Close(client) }, nil

	default:
		logger.Warn().Msg("using in-memory storage, state is lost on restart")
		return repository.NewMemoryKVStore(), func() {}, nil
	}
}

// startMetrics registers the counters and feeds them from the bus. The
// /metrics endpoint is only served when monitoring is enabled.
func startMetrics(ctx context.Context, cfg *config.Config, bus *events.EventBus, logger *zerolog.Logger) {
	metrics.Register()
	metrics.Subscribe(bus)

	if !cfg.Monitoring.PrometheusEnabled {
		return
	}
	go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
}

func serve(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Str("storage", cfg.Storage.Driver).Msg("bookyz started")

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("http server stopped")
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}

	logger.Info().Msg("bookyz stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
