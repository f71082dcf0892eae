package app

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/weather-client/internal/adapter/devicelocation"
	"github.com/couchcryptid/weather-client/internal/adapter/mapbox"
	"github.com/couchcryptid/weather-client/internal/config"
	"github.com/couchcryptid/weather-client/internal/domain"
	"github.com/couchcryptid/weather-client/internal/locate"
	"github.com/couchcryptid/weather-client/internal/observability"
	"github.com/couchcryptid/weather-client/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func baseConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		OpenWeatherBaseURL: "https://api.openweathermap.org",
		OpenWeatherIconURL: "https://openweathermap.org",
		HTTPTimeout:        time.Second,
		IconCacheDir:       t.TempDir(),
		RefreshInterval:    time.Hour,
		LocationEnabled:    true,
		LocationSource:     config.LocationSourceStatic,
		LocationLat:        37.966667,
		LocationLon:        23.716667,
		IPAPIURL:           "http://ip-api.com/json",
		MapboxTimeout:      time.Second,
		MapboxCacheSize:    10,
	}
}

func TestLocationProvider(t *testing.T) {
	cfg := baseConfig(t)
	assert.Equal(t, devicelocation.Static{Coordinate: domain.Coordinate{Lat: 37.966667, Lon: 23.716667}}, locationProvider(cfg, discardLogger()))

	cfg.LocationSource = config.LocationSourceIP
	assert.IsType(t, &devicelocation.IPLookup{}, locationProvider(cfg, discardLogger()))

	cfg.LocationEnabled = false
	assert.Equal(t, devicelocation.Disabled{}, locationProvider(cfg, discardLogger()))
}

func TestGeocoder(t *testing.T) {
	cfg := baseConfig(t)
	m := observability.NewMetricsForTesting()
	assert.Equal(t, locate.NoopGeocoder{}, geocoder(cfg, discardLogger(), m))

	cfg.MapboxEnabled = true
	cfg.MapboxToken = "token"
	assert.IsType(t, &mapbox.CachedGeocoder{}, geocoder(cfg, discardLogger(), m))
}

func TestBuild(t *testing.T) {
	cfg := baseConfig(t)
	c := Build(cfg, discardLogger(), observability.NewMetricsForTesting())

	require.NotNil(t, c.Weather)
	require.NotNil(t, c.Icons)
	require.NotNil(t, c.Places)
	assert.Equal(t, "https://api.openweathermap.org/data/2.5/weather?lat=1.5&lon=2&appid=", c.Weather.WeatherURL(domain.Coordinate{Lat: 1.5, Lon: 2}))
}

func TestPipelineOptions(t *testing.T) {
	cfg := baseConfig(t)
	c := Build(cfg, discardLogger(), observability.NewMetricsForTesting())

	assert.Equal(t, pipeline.Options{RefreshInterval: time.Hour}, c.PipelineOptions())

	cfg.RandomCitiesEnabled = true
	opts := c.PipelineOptions()
	assert.Len(t, opts.Cities, 5)
	assert.Equal(t, "Tokyo", opts.Cities[0].Name)
}
