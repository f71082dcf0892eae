package locate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/couchcryptid/weather-client/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	coord domain.Coordinate
	err   error
}

func (m mockProvider) CurrentCoordinate(context.Context) (domain.Coordinate, error) {
	return m.coord, m.err
}

type mockGeocoder struct {
	place     domain.Place
	err       error
	lastQuery string
	lastCoord domain.Coordinate
	calls     int
}

func (m *mockGeocoder) ForwardGeocode(_ context.Context, q string) (domain.Place, error) {
	m.calls++
	m.lastQuery = q
	return m.place, m.err
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, c domain.Coordinate) (domain.Place, error) {
	m.calls++
	m.lastCoord = c
	return m.place, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var athens = domain.Coordinate{Lat: 37.966667, Lon: 23.716667}

func TestCurrentPlace_Success(t *testing.T) {
	geo := &mockGeocoder{place: domain.Place{Name: "Athens", Region: "Attica"}}
	r := NewResolver(mockProvider{coord: athens}, geo, discardLogger())

	place, err := r.CurrentPlace(context.Background())
	require.NoError(t, err)

	assert.Equal(t, athens, geo.lastCoord)
	assert.Equal(t, domain.Place{Name: "Athens", Region: "Attica", Coordinate: athens}, place)
}

func TestCurrentPlace_PermissionDenied(t *testing.T) {
	geo := &mockGeocoder{}
	r := NewResolver(mockProvider{err: domain.ErrPermissionDenied}, geo, discardLogger())

	_, err := r.CurrentPlace(context.Background())
	require.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Zero(t, geo.calls, "geocoder must not be called without a coordinate")
}

func TestCurrentPlace_NoGeocodeResult(t *testing.T) {
	r := NewResolver(mockProvider{coord: athens}, &mockGeocoder{}, discardLogger())

	_, err := r.CurrentPlace(context.Background())
	require.ErrorIs(t, err, domain.ErrGeocode)

	var gerr *domain.GeocodeError
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, athens, gerr.Coordinate)
}

func TestCurrentPlace_GeocoderTransportError(t *testing.T) {
	geo := &mockGeocoder{err: &domain.TransportError{Op: "reverse geocode request", Err: errors.New("connection refused")}}
	r := NewResolver(mockProvider{coord: athens}, geo, discardLogger())

	_, err := r.CurrentPlace(context.Background())
	require.ErrorIs(t, err, domain.ErrTransport)
	assert.NotErrorIs(t, err, domain.ErrGeocode)
}

func TestCurrentPlace_NoopGeocoder(t *testing.T) {
	r := NewResolver(mockProvider{coord: athens}, NoopGeocoder{}, discardLogger())

	place, err := r.CurrentPlace(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Place{Coordinate: athens}, place)
	assert.Empty(t, place.Label())
}

func TestSearchPlace_Success(t *testing.T) {
	sf := domain.Place{Name: "San Francisco", Region: "California", Coordinate: domain.Coordinate{Lat: 37.7749, Lon: -122.4194}}
	geo := &mockGeocoder{place: sf}
	r := NewResolver(mockProvider{}, geo, discardLogger())

	place, err := r.SearchPlace(context.Background(), "  San Francisco ")
	require.NoError(t, err)
	assert.Equal(t, sf, place)
	assert.Equal(t, "San Francisco", geo.lastQuery)
}

func TestSearchPlace_Blank(t *testing.T) {
	geo := &mockGeocoder{}
	r := NewResolver(mockProvider{}, geo, discardLogger())

	_, err := r.SearchPlace(context.Background(), " \t")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, geo.calls)
}

func TestSearchPlace_NotFound(t *testing.T) {
	r := NewResolver(mockProvider{}, &mockGeocoder{err: domain.ErrNotFound}, discardLogger())

	_, err := r.SearchPlace(context.Background(), "Atlantis")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "Atlantis")
}

func TestNoopGeocoder_Forward(t *testing.T) {
	_, err := NoopGeocoder{}.ForwardGeocode(context.Background(), "Tokyo")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
