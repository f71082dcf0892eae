package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/weather-client/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/weather-client/internal/adapter/kafka"
	"github.com/couchcryptid/weather-client/internal/app"
	"github.com/couchcryptid/weather-client/internal/config"
	"github.com/couchcryptid/weather-client/internal/observability"
	"github.com/couchcryptid/weather-client/internal/pipeline"
	"github.com/couchcryptid/weather-client/internal/render"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	deps := app.Build(cfg, logger, metrics)

	renderers := []pipeline.Renderer{render.NewText(os.Stdout)}
	var writer *kafkaadapter.Writer
	if len(cfg.KafkaBrokers) > 0 {
		writer = kafkaadapter.NewWriter(cfg, logger)
		renderers = append(renderers, writer)
		logger.Info("kafka view sink enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	dispatcher := pipeline.NewDispatcher(renderers, logger, metrics)
	p := pipeline.New(deps.Places, deps.Weather, deps.Icons, dispatcher, deps.PipelineOptions(), logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, deps.Icons, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Start the update loop and the refresh schedule.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return dispatcher.Run(gctx) })
	g.Go(func() error { return p.Run(gctx) })

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := g.Wait(); err != nil {
		logger.Error("pipeline error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
