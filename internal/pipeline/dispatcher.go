package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/weather-client/internal/domain"
	"github.com/couchcryptid/weather-client/internal/observability"
)

// Renderer presents a finished view.
type Renderer interface {
	Name() string
	Render(ctx context.Context, v domain.View) error
}

// Dispatcher is the single update context: views published from any chain are
// applied one at a time, in arrival order, by the goroutine running Run.
type Dispatcher struct {
	renderers []Renderer
	views     chan domain.View
	latest    atomic.Pointer[domain.View]
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewDispatcher creates a Dispatcher that hands every view to renderers in order.
func NewDispatcher(renderers []Renderer, logger *slog.Logger, metrics *observability.Metrics) *Dispatcher {
	return &Dispatcher{
		renderers: renderers,
		views:     make(chan domain.View, 16),
		logger:    logger,
		metrics:   metrics,
	}
}

// Publish queues v for rendering.
func (d *Dispatcher) Publish(ctx context.Context, v domain.View) error {
	select {
	case d.views <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run applies queued views until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case v := <-d.views:
			d.apply(ctx, v)
		}
	}
}

func (d *Dispatcher) apply(ctx context.Context, v domain.View) {
	d.latest.Store(&v)
	for _, r := range d.renderers {
		if err := r.Render(ctx, v); err != nil {
			d.logger.Error("render view failed", "renderer", r.Name(), "chain_id", v.ChainID, "error", err)
			continue
		}
		d.metrics.ViewsPublished.WithLabelValues(r.Name()).Inc()
	}
}

// Latest returns the most recently applied view.
func (d *Dispatcher) Latest() (domain.View, bool) {
	v := d.latest.Load()
	if v == nil {
		return domain.View{}, false
	}
	return *v, true
}

// CheckReadiness returns nil once at least one view has been applied.
func (d *Dispatcher) CheckReadiness(_ context.Context) error {
	if d.latest.Load() == nil {
		return errors.New("no weather view rendered yet")
	}
	return nil
}
