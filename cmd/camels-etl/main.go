// Command camels-etl publishes CAMELS US basins to Kafka: one metadata message
// per basin followed by one message per day of forcing and discharge data.
// It serves /healthz, /readyz and /metrics while running and exits once every
// basin has been published.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/camels-data-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/camels-data-etl/internal/adapter/kafka"
	"github.com/couchcryptid/camels-data-etl/internal/adapter/mapbox"
	"github.com/couchcryptid/camels-data-etl/internal/camels"
	"github.com/couchcryptid/camels-data-etl/internal/config"
	"github.com/couchcryptid/camels-data-etl/internal/domain"
	"github.com/couchcryptid/camels-data-etl/internal/observability"
	"github.com/couchcryptid/camels-data-etl/internal/pipeline"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err := run(cfg, logger); err != nil {
		logger.Error("camels-etl failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	metrics := observability.NewMetrics()

	basins, err := resolveBasins(cfg)
	if err != nil {
		return err
	}

	attrs, err := camels.LoadAttributes(cfg.DataDir, basins)
	if err != nil {
		return fmt.Errorf("load attributes: %w", err)
	}
	if len(basins) == 0 {
		basins = attrs.Basins()
	}
	logger.Info("attributes loaded", "basins", attrs.Len(), "columns", len(attrs.Columns()), "data_dir", cfg.DataDir)

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	extractor := pipeline.NewExtractor(os.DirFS(cfg.DataDir), cfg.Forcings, attrs, logger)
	transformer := pipeline.NewTransformer(geocoder, metrics, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)

	p := pipeline.New(extractor, transformer, writer, logger, metrics, pipeline.Options{
		BatchSize:   cfg.BatchSize,
		SkipMissing: cfg.SkipMissing,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	summary, runErr := p.Run(ctx, basins)
	if runErr != nil && ctx.Err() != nil {
		logger.Info("shutting down", "reason", ctx.Err())
		runErr = nil
	}
	logger.Info("run complete",
		"loaded", summary.Loaded,
		"skipped", summary.Skipped,
		"messages", summary.Messages,
	)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
	return runErr
}

// resolveBasins returns the configured basin list. An empty result means
// every basin in the attribute tables.
func resolveBasins(cfg *config.Config) ([]string, error) {
	if cfg.BasinFile != "" {
		basins, err := camels.ReadBasinFile(cfg.BasinFile)
		if err != nil {
			return nil, fmt.Errorf("read basin file: %w", err)
		}
		if len(basins) == 0 {
			return nil, fmt.Errorf("basin file %s lists no basins", cfg.BasinFile)
		}
		return basins, nil
	}
	return cfg.Basins, nil
}
