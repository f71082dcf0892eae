package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/weather-client/internal/domain"
	"github.com/couchcryptid/weather-client/internal/observability"
)

// Client implements domain.Geocoder using the Mapbox Geocoding API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox geocoding client.
func NewClient(token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.mapbox.com/geocoding/v5/mapbox.places",
		metrics: metrics,
		logger:  logger,
	}
}

// ForwardGeocode resolves free text to the first matching place.
func (c *Client) ForwardGeocode(ctx context.Context, query string) (domain.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Place{}, domain.ErrNotFound
	}

	u := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(query))
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
		"types":        {"place,locality"},
	}

	place, err := c.doRequest(ctx, u+"?"+params.Encode(), "forward")
	if err != nil {
		return domain.Place{}, err
	}
	if place == (domain.Place{}) {
		return domain.Place{}, fmt.Errorf("%w: %q", domain.ErrNotFound, query)
	}
	return place, nil
}

// ReverseGeocode converts coordinates to place details. An empty Place means
// Mapbox had nothing for the coordinate.
func (c *Client) ReverseGeocode(ctx context.Context, coord domain.Coordinate) (domain.Place, error) {
	// Mapbox uses lon,lat order.
	pair := fmt.Sprintf("%.6f,%.6f", coord.Lon, coord.Lat)
	u := fmt.Sprintf("%s/%s.json", c.baseURL, pair)
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
		"types":        {"place,locality"},
	}

	place, err := c.doRequest(ctx, u+"?"+params.Encode(), "reverse")
	if err != nil {
		return domain.Place{}, err
	}
	if place != (domain.Place{}) && place.Coordinate == (domain.Coordinate{}) {
		place.Coordinate = coord
	}
	return place, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL, method string) (domain.Place, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.Place{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.GeocodeAPIDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(method, "error").Inc()
		return domain.Place{}, &domain.TransportError{Op: method + " geocode request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.metrics.GeocodeRequests.WithLabelValues(method, "error").Inc()
		return domain.Place{}, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var mapboxResp response
	if err := json.NewDecoder(resp.Body).Decode(&mapboxResp); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(method, "error").Inc()
		return domain.Place{}, &domain.DecodeError{Op: "decode mapbox response", Err: err}
	}

	if len(mapboxResp.Features) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues(method, "empty").Inc()
		c.logger.Debug("mapbox returned no features", "method", method)
		return domain.Place{}, nil
	}

	c.metrics.GeocodeRequests.WithLabelValues(method, "success").Inc()
	return mapboxResp.Features[0].place(), nil
}

// Mapbox API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Center  []float64      `json:"center"` // [lon, lat]
	Text    string         `json:"text"`
	Context []contextEntry `json:"context"`
}

// contextEntry is one enclosing area of a feature, e.g. {"id":"region.123","text":"Texas"}.
type contextEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	ShortCode string `json:"short_code"`
}

func (f feature) place() domain.Place {
	p := domain.Place{Name: f.Text}
	for _, ctx := range f.Context {
		if strings.HasPrefix(ctx.ID, "region.") {
			p.Region = ctx.Text
			break
		}
	}
	if p.Region == "" {
		for _, ctx := range f.Context {
			if strings.HasPrefix(ctx.ID, "country.") {
				p.Region = ctx.Text
				break
			}
		}
	}
	if len(f.Center) == 2 {
		p.Coordinate = domain.Coordinate{Lon: f.Center[0], Lat: f.Center[1]}
	}
	return p
}
