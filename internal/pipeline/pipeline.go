package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/weather-client/internal/domain"
	"github.com/couchcryptid/weather-client/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// PlaceResolver produces the place a chain fetches weather for.
type PlaceResolver interface {
	CurrentPlace(ctx context.Context) (domain.Place, error)
	SearchPlace(ctx context.Context, text string) (domain.Place, error)
}

var errNoCities = errors.New("random cities are disabled")

// Options tune a Pipeline.
type Options struct {
	RefreshInterval time.Duration
	// Cities raced by Random. Empty disables the feature.
	Cities []domain.Place
	Clock  clockwork.Clock
}

// Pipeline starts chains for each user action or timer tick and publishes
// their views to the dispatcher.
type Pipeline struct {
	places     PlaceResolver
	chain      *Chain
	weather    domain.WeatherFetcher
	dispatcher *Dispatcher
	cities     []domain.Place
	interval   time.Duration
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics
	inflight   sync.WaitGroup
}

// New creates a Pipeline.
func New(places PlaceResolver, weather domain.WeatherFetcher, icons domain.IconFetcher, dispatcher *Dispatcher, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	clk := opts.Clock
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &Pipeline{
		places:     places,
		chain:      NewChain(weather, icons, logger),
		weather:    weather,
		dispatcher: dispatcher,
		cities:     opts.Cities,
		interval:   opts.RefreshInterval,
		clock:      clk,
		logger:     logger,
		metrics:    metrics,
	}
}

// Latest returns the most recently rendered view.
func (p *Pipeline) Latest() (domain.View, bool) {
	return p.dispatcher.Latest()
}

// CheckReadiness reports ready once a view has been rendered.
func (p *Pipeline) CheckReadiness(ctx context.Context) error {
	return p.dispatcher.CheckReadiness(ctx)
}

// Run starts the initial chain, then one chain per refresh interval until ctx
// is cancelled. Chains are not serialised; a slow chain may overlap the next
// tick and whichever finishes last wins.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "refresh_interval", p.interval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	p.spawn(ctx, domain.TriggerInitial)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			p.inflight.Wait()
			return nil
		case <-ticker.Chan():
			p.spawn(ctx, domain.TriggerRefresh)
		}
	}
}

func (p *Pipeline) spawn(ctx context.Context, trigger domain.Trigger) {
	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		p.Current(ctx, trigger)
	}()
}

// Current runs a chain for the device's current place.
func (p *Pipeline) Current(ctx context.Context, trigger domain.Trigger) domain.View {
	id := uuid.NewString()
	logger := p.logger.With("chain_id", id, "trigger", trigger)

	place, err := p.places.CurrentPlace(ctx)
	if err != nil {
		logger.Warn("resolve current place failed", "error", err)
		return p.publish(ctx, domain.NewErrorView(id, trigger, domain.Place{}, err))
	}
	return p.publish(ctx, p.chain.Run(ctx, id, trigger, place))
}

// Search runs a chain for the first place matching text.
func (p *Pipeline) Search(ctx context.Context, text string) domain.View {
	id := uuid.NewString()
	logger := p.logger.With("chain_id", id, "trigger", domain.TriggerSearch)

	place, err := p.places.SearchPlace(ctx, text)
	if err != nil {
		logger.Warn("place search failed", "query", text, "error", err)
		return p.publish(ctx, domain.NewErrorView(id, domain.TriggerSearch, domain.Place{}, err))
	}
	return p.publish(ctx, p.chain.Run(ctx, id, domain.TriggerSearch, place))
}

// Random races weather fetches for the configured cities and shows whichever
// answers first.
func (p *Pipeline) Random(ctx context.Context) domain.View {
	id := uuid.NewString()
	trigger := domain.TriggerRandom

	if len(p.cities) == 0 {
		return p.publish(ctx, domain.NewErrorView(id, trigger, domain.Place{}, errNoCities))
	}

	winner := raceWeather(ctx, p.weather, p.cities)
	if winner.err != nil {
		p.logger.Warn("random city fetch failed", "chain_id", id, "place", winner.place.Name, "error", winner.err)
		return p.publish(ctx, domain.NewErrorView(id, trigger, winner.place, fmt.Errorf("fetch weather: %w", winner.err)))
	}
	p.logger.Debug("random city race won", "chain_id", id, "place", winner.place.Name)
	return p.publish(ctx, p.chain.withIcon(ctx, id, trigger, winner.place, winner.record))
}

func (p *Pipeline) publish(ctx context.Context, v domain.View) domain.View {
	outcome := "success"
	if v.Failed() {
		outcome = "error"
	}
	p.metrics.Chains.WithLabelValues(string(v.Trigger), outcome).Inc()

	if err := p.dispatcher.Publish(ctx, v); err != nil {
		p.logger.Warn("view dropped", "chain_id", v.ChainID, "error", err)
	}
	return v
}
