package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/weather-client/internal/domain"
)

// Chain fetches weather and its icon for an already resolved place.
type Chain struct {
	weather domain.WeatherFetcher
	icons   domain.IconFetcher
	logger  *slog.Logger
}

// NewChain creates a Chain.
func NewChain(weather domain.WeatherFetcher, icons domain.IconFetcher, logger *slog.Logger) *Chain {
	return &Chain{weather: weather, icons: icons, logger: logger}
}

// Run executes weather then icon for place. Any failure ends the chain and is
// reported through the returned view.
func (c *Chain) Run(ctx context.Context, chainID string, trigger domain.Trigger, place domain.Place) domain.View {
	rec, err := c.weather.FetchWeather(ctx, place.Coordinate)
	if err != nil {
		c.logger.Warn("weather fetch failed", "chain_id", chainID, "trigger", trigger, "error", err)
		return domain.NewErrorView(chainID, trigger, place, fmt.Errorf("fetch weather: %w", err))
	}
	return c.withIcon(ctx, chainID, trigger, place, rec)
}

// withIcon builds the weather view and attaches the primary condition's icon.
// An icon failure keeps the weather on screen and reports the error alongside.
func (c *Chain) withIcon(ctx context.Context, chainID string, trigger domain.Trigger, place domain.Place, rec domain.WeatherRecord) domain.View {
	view := domain.NewWeatherView(chainID, trigger, place, rec)
	if view.IconID == "" {
		return view
	}

	icon, err := c.icons.FetchIcon(ctx, view.IconID)
	if err != nil {
		c.logger.Warn("icon fetch failed", "chain_id", chainID, "icon", view.IconID, "error", err)
		view.Error = err.Error()
		return view
	}
	view.Icon = icon
	return view
}
