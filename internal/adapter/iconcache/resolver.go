package iconcache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png" // register the PNG decoder for image.Decode
	"io/fs"
	"log/slog"

	"github.com/couchcryptid/weather-client/internal/domain"
	"github.com/couchcryptid/weather-client/internal/observability"
	"golang.org/x/sync/singleflight"
)

// Source fetches raw icon bytes from the network.
type Source interface {
	FetchIconBytes(ctx context.Context, id domain.IconID) ([]byte, error)
}

// Store persists icon bytes between runs.
type Store interface {
	Load(id domain.IconID) ([]byte, error)
	Save(id domain.IconID, data []byte) error
}

// Resolver implements domain.IconFetcher: cache first, network on miss.
type Resolver struct {
	store   Store
	source  Source
	group   singleflight.Group
	metrics *observability.Metrics
	logger  *slog.Logger

	// OnPersistError, when set, is called after a network fetch whose bytes
	// could not be written to the store. The fetch itself still succeeds.
	OnPersistError func(id domain.IconID, err error)
}

// NewResolver creates a resolver around a store and a network source.
func NewResolver(store Store, source Source, metrics *observability.Metrics, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:   store,
		source:  source,
		metrics: metrics,
		logger:  logger,
	}
}

// FetchIcon returns PNG bytes for id. A cache hit performs no network I/O. On
// a miss, or when the cached file is not a decodable image, the icon is
// downloaded, persisted and returned. Concurrent callers for the same id share
// one download, which runs detached from any single caller's cancellation;
// each caller still stops waiting when its own ctx is done.
func (r *Resolver) FetchIcon(ctx context.Context, id domain.IconID) ([]byte, error) {
	if data, ok := r.fromCache(id); ok {
		r.metrics.IconRequests.WithLabelValues("cache").Inc()
		return data, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := r.group.DoChan(string(id), func() (any, error) {
		return r.fromNetwork(shared, id)
	})

	select {
	case <-ctx.Done():
		r.metrics.IconRequests.WithLabelValues("error").Inc()
		return nil, &domain.IconFetchError{Icon: id, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			r.metrics.IconRequests.WithLabelValues("error").Inc()
			return nil, res.Err
		}
		r.metrics.IconRequests.WithLabelValues("network").Inc()
		return res.Val.([]byte), nil
	}
}

func (r *Resolver) fromCache(id domain.IconID) ([]byte, bool) {
	data, err := r.store.Load(id)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Debug("icon cache read failed", "icon", id, "error", err)
		}
		return nil, false
	}
	if err := checkImage(data); err != nil {
		r.logger.Warn("cached icon is not a valid image, refetching", "icon", id, "error", err)
		return nil, false
	}
	r.logger.Debug("icon cache hit", "icon", id)
	return data, true
}

func (r *Resolver) fromNetwork(ctx context.Context, id domain.IconID) ([]byte, error) {
	data, err := r.source.FetchIconBytes(ctx, id)
	if err != nil {
		return nil, &domain.IconFetchError{Icon: id, Err: err}
	}
	if err := checkImage(data); err != nil {
		return nil, &domain.IconFetchError{Icon: id, Err: &domain.DecodeError{Op: "decode icon", Err: err}}
	}

	if err := r.store.Save(id, data); err != nil {
		r.metrics.IconPersistErrors.Inc()
		r.logger.Warn("icon fetched but not cached", "icon", id, "error", err)
		if r.OnPersistError != nil {
			r.OnPersistError(id, err)
		}
	} else {
		r.logger.Debug("icon cached", "icon", id)
	}
	return data, nil
}

func checkImage(data []byte) error {
	if len(data) == 0 {
		return errors.New("empty image")
	}
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	return nil
}
