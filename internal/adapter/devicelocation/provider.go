// Package devicelocation supplies the client's current coordinate.
package devicelocation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/weather-client/internal/domain"
)

// Static always reports the same configured coordinate.
type Static struct {
	Coordinate domain.Coordinate
}

func (s Static) CurrentCoordinate(context.Context) (domain.Coordinate, error) {
	return s.Coordinate, nil
}

// Disabled stands in for a device with location access turned off.
type Disabled struct{}

func (Disabled) CurrentCoordinate(context.Context) (domain.Coordinate, error) {
	return domain.Coordinate{}, domain.ErrPermissionDenied
}

// IPLookup approximates the device location from its public IP address.
type IPLookup struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewIPLookup creates a provider backed by an ip-api.com compatible endpoint.
func NewIPLookup(url string, timeout time.Duration, logger *slog.Logger) *IPLookup {
	return &IPLookup{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type ipResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (p *IPLookup) CurrentCoordinate(ctx context.Context) (domain.Coordinate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return domain.Coordinate{}, &domain.TransportError{Op: "ip location lookup", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.Coordinate{}, &domain.TransportError{
			Op:  "ip location lookup",
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, body),
		}
	}

	var r ipResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return domain.Coordinate{}, &domain.DecodeError{Op: "decode ip location", Err: err}
	}
	if r.Status != "success" {
		return domain.Coordinate{}, &domain.TransportError{
			Op:  "ip location lookup",
			Err: fmt.Errorf("status %q: %s", r.Status, r.Message),
		}
	}

	coord := domain.Coordinate{Lat: r.Lat, Lon: r.Lon}
	p.logger.Debug("resolved location from ip", "lat", coord.Lat, "lon", coord.Lon)
	return coord, nil
}
