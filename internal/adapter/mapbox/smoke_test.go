//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/weather-client/internal/domain"
	"github.com/couchcryptid/weather-client/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://api.mapbox.com/geocoding/v5/mapbox.places",
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSmoke_ForwardGeocode(t *testing.T) {
	c := smokeClient(t)

	place, err := c.ForwardGeocode(context.Background(), "Jakarta")
	require.NoError(t, err)

	assert.InDelta(t, -6.2, place.Coordinate.Lat, 0.2, "lat should be near Jakarta")
	assert.InDelta(t, 106.8, place.Coordinate.Lon, 0.2, "lon should be near Jakarta")
	assert.Equal(t, "Jakarta", place.Name)
}

func TestSmoke_ReverseGeocode(t *testing.T) {
	c := smokeClient(t)

	place, err := c.ReverseGeocode(context.Background(), domain.Coordinate{Lat: 37.966667, Lon: 23.716667})
	require.NoError(t, err)

	assert.NotEmpty(t, place.Name)
	assert.NotEmpty(t, place.Region)
}

func TestSmoke_CachedGeocoder(t *testing.T) {
	c := smokeClient(t)
	cached := NewCachedGeocoder(c, 10, observability.NewMetricsForTesting())

	r1, err := cached.ForwardGeocode(context.Background(), "Manila")
	require.NoError(t, err)
	assert.Contains(t, r1.Name, "Manila")

	r2, err := cached.ForwardGeocode(context.Background(), "Manila")
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}
