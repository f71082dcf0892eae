package pipeline

import (
	"context"

	"github.com/couchcryptid/weather-client/internal/domain"
)

// DefaultCities are the places raced by Random.
var DefaultCities = []domain.Place{
	{Name: "Tokyo", Region: "JP", Coordinate: domain.Coordinate{Lat: 35.683333, Lon: 139.683333}},
	{Name: "Jakarta", Region: "ID", Coordinate: domain.Coordinate{Lat: -6.2, Lon: 106.816667}},
	{Name: "Delhi", Region: "IN", Coordinate: domain.Coordinate{Lat: 28.61, Lon: 77.23}},
	{Name: "Manila", Region: "PH", Coordinate: domain.Coordinate{Lat: 14.58, Lon: 121}},
	{Name: "São Paulo", Region: "BR", Coordinate: domain.Coordinate{Lat: -23.55, Lon: -46.633333}},
}

type raceResult struct {
	place  domain.Place
	record domain.WeatherRecord
	err    error
}

// raceWeather fetches weather for every place concurrently and returns the
// first fetch to finish, whether it succeeded or not. The others keep running
// until they complete; their results are dropped.
func raceWeather(ctx context.Context, fetcher domain.WeatherFetcher, places []domain.Place) raceResult {
	// Buffered so finished losers never block.
	results := make(chan raceResult, len(places))
	detached := context.WithoutCancel(ctx)

	for _, place := range places {
		go func() {
			rec, err := fetcher.FetchWeather(detached, place.Coordinate)
			results <- raceResult{place: place, record: rec, err: err}
		}()
	}

	select {
	case r := <-results:
		return r
	case <-ctx.Done():
		return raceResult{err: ctx.Err()}
	}
}
