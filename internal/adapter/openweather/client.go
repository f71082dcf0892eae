package openweather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/weather-client/internal/domain"
	"github.com/couchcryptid/weather-client/internal/observability"
)

// Client implements domain.WeatherFetcher against the OpenWeatherMap API and
// serves as the network source for weather icons.
type Client struct {
	apiKey      string
	httpClient  *http.Client
	baseURL     string
	iconBaseURL string
	metrics     *observability.Metrics
	logger      *slog.Logger
}

// NewClient creates an OpenWeatherMap client. The timeout applies to every
// request; callers do not override it per call.
func NewClient(apiKey, baseURL, iconBaseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     baseURL,
		iconBaseURL: iconBaseURL,
		metrics:     metrics,
		logger:      logger,
	}
}

// WeatherURL builds the current-weather request URL for c.
func (c *Client) WeatherURL(coord domain.Coordinate) string {
	return fmt.Sprintf("%s/data/2.5/weather?lat=%s&lon=%s&appid=%s",
		c.baseURL,
		strconv.FormatFloat(coord.Lat, 'f', -1, 64),
		strconv.FormatFloat(coord.Lon, 'f', -1, 64),
		url.QueryEscape(c.apiKey),
	)
}

// IconURL builds the pictogram URL for id.
func (c *Client) IconURL(id domain.IconID) string {
	return fmt.Sprintf("%s/img/w/%s.png", c.iconBaseURL, url.PathEscape(string(id)))
}

// FetchWeather issues a single GET for the current weather at coord.
// Out-of-range coordinates are passed through; the provider's error body then
// fails to decode. Non-2xx bodies are decoded like any other for the same reason.
func (c *Client) FetchWeather(ctx context.Context, coord domain.Coordinate) (domain.WeatherRecord, error) {
	start := time.Now()
	body, status, err := c.get(ctx, c.WeatherURL(coord), "fetch weather")
	c.metrics.WeatherAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues("transport_error").Inc()
		return domain.WeatherRecord{}, err
	}

	rec, err := domain.DecodeWeatherRecord(body)
	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues("decode_error").Inc()
		c.logger.Warn("weather response did not decode",
			"status", status,
			"lat", coord.Lat,
			"lon", coord.Lon,
			"error", err,
		)
		return domain.WeatherRecord{}, &domain.DecodeError{Op: fmt.Sprintf("decode weather (status %d)", status), Err: err}
	}

	c.metrics.WeatherRequests.WithLabelValues("success").Inc()
	c.logger.Debug("weather fetched", "place", rec.Name, "temp_k", rec.Main.Temp, "conditions", len(rec.Weather))
	return rec, nil
}

// errIconStatus is returned for icon responses other than 200 OK.
var errIconStatus = errors.New("unexpected icon response status")

// FetchIconBytes downloads the raw PNG for id. It does not inspect the bytes.
func (c *Client) FetchIconBytes(ctx context.Context, id domain.IconID) ([]byte, error) {
	body, status, err := c.get(ctx, c.IconURL(id), "fetch icon")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", errIconStatus, status)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, fullURL, op string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, 0, &domain.TransportError{Op: op + " request", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &domain.TransportError{Op: op + " body", Err: err}
	}
	return body, resp.StatusCode, nil
}
