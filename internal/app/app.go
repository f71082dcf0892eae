// Package app assembles the weather client's components from configuration.
package app

import (
	"log/slog"

	"github.com/couchcryptid/weather-client/internal/adapter/devicelocation"
	"github.com/couchcryptid/weather-client/internal/adapter/iconcache"
	"github.com/couchcryptid/weather-client/internal/adapter/mapbox"
	"github.com/couchcryptid/weather-client/internal/adapter/openweather"
	"github.com/couchcryptid/weather-client/internal/config"
	"github.com/couchcryptid/weather-client/internal/domain"
	"github.com/couchcryptid/weather-client/internal/locate"
	"github.com/couchcryptid/weather-client/internal/observability"
	"github.com/couchcryptid/weather-client/internal/pipeline"
)

// Components are the collaborators a pipeline needs.
type Components struct {
	Weather *openweather.Client
	Icons   *iconcache.Resolver
	Places  *locate.Resolver

	cfg *config.Config
}

// Build constructs the weather client, icon resolver and place resolver.
func Build(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Components {
	weather := openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL, cfg.OpenWeatherIconURL, cfg.HTTPTimeout, metrics, logger)
	icons := iconcache.NewResolver(iconcache.NewDirStore(cfg.IconCacheDir), weather, metrics, logger)

	return &Components{
		Weather: weather,
		Icons:   icons,
		Places:  locate.NewResolver(locationProvider(cfg, logger), geocoder(cfg, logger, metrics), logger),
		cfg:     cfg,
	}
}

// PipelineOptions derives the refresh schedule and random cities from config.
func (c *Components) PipelineOptions() pipeline.Options {
	opts := pipeline.Options{RefreshInterval: c.cfg.RefreshInterval}
	if c.cfg.RandomCitiesEnabled {
		opts.Cities = pipeline.DefaultCities
	}
	return opts
}

func locationProvider(cfg *config.Config, logger *slog.Logger) domain.LocationProvider {
	switch {
	case !cfg.LocationEnabled:
		logger.Info("device location disabled")
		return devicelocation.Disabled{}
	case cfg.LocationSource == config.LocationSourceIP:
		logger.Info("device location from ip lookup", "url", cfg.IPAPIURL)
		return devicelocation.NewIPLookup(cfg.IPAPIURL, cfg.HTTPTimeout, logger)
	default:
		logger.Info("device location from config", "lat", cfg.LocationLat, "lon", cfg.LocationLon)
		return devicelocation.Static{Coordinate: domain.Coordinate{Lat: cfg.LocationLat, Lon: cfg.LocationLon}}
	}
}

// geocoder is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
func geocoder(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) domain.Geocoder {
	if !cfg.MapboxEnabled {
		logger.Info("mapbox geocoding disabled")
		return locate.NoopGeocoder{}
	}
	client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
	logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	return mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
}
