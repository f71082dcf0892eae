package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/weather-client/internal/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WeatherService runs chains on demand and remembers the last rendered view.
type WeatherService interface {
	sharedobs.ReadinessChecker
	Latest() (domain.View, bool)
	Current(ctx context.Context, trigger domain.Trigger) domain.View
	Search(ctx context.Context, text string) domain.View
	Random(ctx context.Context) domain.View
}

// Server exposes the weather API alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	weather    WeatherService
	icons      domain.IconFetcher
	logger     *slog.Logger
}

// NewServer creates an HTTP server with ops routes (/healthz, /readyz,
// /metrics) and the /api weather routes.
func NewServer(addr string, weather WeatherService, icons domain.IconFetcher, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		weather: weather,
		icons:   icons,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(weather))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/weather", s.handleLatest)
	mux.HandleFunc("POST /api/weather/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/weather/search", s.handleSearch)
	mux.HandleFunc("POST /api/weather/random", s.handleRandom)
	mux.HandleFunc("GET /api/icons/{id}", s.handleIcon)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleLatest(w http.ResponseWriter, _ *http.Request) {
	view, ok := s.weather.Latest()
	if !ok {
		sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "no weather view yet"})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, view)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.weather.Current(r.Context(), domain.TriggerRefresh))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "query parameter q is required"})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, s.weather.Search(r.Context(), q))
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.weather.Random(r.Context()))
}

func (s *Server) handleIcon(w http.ResponseWriter, r *http.Request) {
	id := domain.IconID(strings.TrimSuffix(r.PathValue("id"), ".png"))

	data, err := s.icons.FetchIcon(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrIconFetch) {
			status = http.StatusBadGateway
		}
		s.logger.Warn("serve icon failed", "icon", id, "error", err)
		sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
