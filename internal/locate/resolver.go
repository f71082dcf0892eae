// Package locate turns the device position or a free-text search into a Place.
package locate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/couchcryptid/weather-client/internal/domain"
)

// Resolver combines a location provider with a geocoder.
type Resolver struct {
	provider domain.LocationProvider
	geocoder domain.Geocoder
	logger   *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(provider domain.LocationProvider, geocoder domain.Geocoder, logger *slog.Logger) *Resolver {
	return &Resolver{provider: provider, geocoder: geocoder, logger: logger}
}

// CurrentPlace reverse geocodes the provider's coordinate. A geocoder with no
// result yields a *domain.GeocodeError.
func (r *Resolver) CurrentPlace(ctx context.Context) (domain.Place, error) {
	coord, err := r.provider.CurrentCoordinate(ctx)
	if err != nil {
		return domain.Place{}, fmt.Errorf("current location: %w", err)
	}

	place, err := r.geocoder.ReverseGeocode(ctx, coord)
	if err != nil {
		return domain.Place{}, fmt.Errorf("reverse geocode: %w", err)
	}
	if place == (domain.Place{}) {
		return domain.Place{}, &domain.GeocodeError{Coordinate: coord}
	}
	if place.Coordinate == (domain.Coordinate{}) {
		place.Coordinate = coord
	}

	r.logger.Debug("resolved current place", "place", place.Label(), "lat", coord.Lat, "lon", coord.Lon)
	return place, nil
}

// SearchPlace forward geocodes text to its first match.
func (r *Resolver) SearchPlace(ctx context.Context, text string) (domain.Place, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Place{}, domain.ErrNotFound
	}

	place, err := r.geocoder.ForwardGeocode(ctx, text)
	if err != nil {
		return domain.Place{}, fmt.Errorf("search %q: %w", text, err)
	}
	return place, nil
}

// NoopGeocoder is used when no geocoding backend is configured. Reverse
// lookups echo the coordinate back without a name, so the weather record's
// own name becomes the label. Forward lookups never match.
type NoopGeocoder struct{}

func (NoopGeocoder) ForwardGeocode(_ context.Context, query string) (domain.Place, error) {
	return domain.Place{}, fmt.Errorf("%w: %q (geocoding disabled)", domain.ErrNotFound, query)
}

func (NoopGeocoder) ReverseGeocode(_ context.Context, c domain.Coordinate) (domain.Place, error) {
	return domain.Place{Coordinate: c}, nil
}
