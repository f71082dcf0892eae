// Command weatherctl runs a single weather chain and prints the result.
//
// Usage:
//
//	go run ./cmd/weatherctl                  # current location
//	go run ./cmd/weatherctl -search Tokyo    # first geocoding match
//	go run ./cmd/weatherctl -random          # fastest of the built-in cities
//	go run ./cmd/weatherctl -icon-out icon.png
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/weather-client/internal/app"
	"github.com/couchcryptid/weather-client/internal/config"
	"github.com/couchcryptid/weather-client/internal/domain"
	"github.com/couchcryptid/weather-client/internal/observability"
	"github.com/couchcryptid/weather-client/internal/pipeline"
	"github.com/couchcryptid/weather-client/internal/render"
)

var errChainFailed = errors.New("chain failed")

func main() {
	search := flag.String("search", "", "look up weather for the first place matching this text")
	random := flag.Bool("random", false, "race the built-in cities and show the fastest")
	iconOut := flag.String("icon-out", "", "write the condition icon PNG to this path")
	flag.Parse()

	if err := run(*search, *random, *iconOut); err != nil {
		fmt.Fprintln(os.Stderr, "weatherctl:", err)
		os.Exit(1)
	}
}

func run(search string, random bool, iconOut string) error {
	if search != "" && random {
		return errors.New("-search and -random are mutually exclusive")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetricsForTesting()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := app.Build(cfg, logger, metrics)
	opts := deps.PipelineOptions()
	if random && len(opts.Cities) == 0 {
		opts.Cities = pipeline.DefaultCities
	}

	dispatcher := pipeline.NewDispatcher(nil, logger, metrics)
	go func() { _ = dispatcher.Run(ctx) }()
	p := pipeline.New(deps.Places, deps.Weather, deps.Icons, dispatcher, opts, logger, metrics)

	var view domain.View
	switch {
	case random:
		view = p.Random(ctx)
	case search != "":
		view = p.Search(ctx, search)
	default:
		view = p.Current(ctx, domain.TriggerInitial)
	}

	if err := render.NewText(os.Stdout).Render(ctx, view); err != nil {
		return err
	}
	if iconOut != "" && len(view.Icon) > 0 {
		if err := os.WriteFile(iconOut, view.Icon, 0o644); err != nil {
			return fmt.Errorf("write icon: %w", err)
		}
	}
	if view.Failed() {
		return errChainFailed
	}
	return nil
}
