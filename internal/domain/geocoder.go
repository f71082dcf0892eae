package domain

import "context"

// Geocoder converts between free text, coordinates and places.
type Geocoder interface {
	// ForwardGeocode resolves free text to the first matching place.
	// It returns ErrNotFound when nothing matches.
	ForwardGeocode(ctx context.Context, query string) (Place, error)

	// ReverseGeocode resolves a coordinate to place details. An empty Place
	// with a nil error means the provider had no result.
	ReverseGeocode(ctx context.Context, c Coordinate) (Place, error)
}

// LocationProvider reports where the client currently is.
type LocationProvider interface {
	// CurrentCoordinate returns ErrPermissionDenied when location access is off.
	CurrentCoordinate(ctx context.Context) (Coordinate, error)
}

// WeatherFetcher fetches current conditions at a coordinate.
type WeatherFetcher interface {
	FetchWeather(ctx context.Context, c Coordinate) (WeatherRecord, error)
}

// IconFetcher returns PNG bytes for an icon identifier.
type IconFetcher interface {
	FetchIcon(ctx context.Context, id IconID) ([]byte, error)
}
