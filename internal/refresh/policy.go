package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/bfo-scripmaster/internal/metrics"
	"github.com/rickgao/bfo-scripmaster/internal/model"
	"github.com/rickgao/bfo-scripmaster/internal/normalize"
	"github.com/rickgao/bfo-scripmaster/internal/store"
)

var (
	// ErrSchemaMismatch is returned when paired fetches carry different columns.
	ErrSchemaMismatch = errors.New("scrip master schemas differ")

	// ErrNoEndpoints is returned for a request without endpoints.
	ErrNoEndpoints = errors.New("request has no endpoints")

	errEmptyPart = errors.New("paired scrip master part has no rows")
)

// Source fetches one raw scrip master. *api.Client satisfies it.
type Source interface {
	FetchScripMaster(ctx context.Context, endpoint string) (model.RawTable, error)
}

// Request describes one resolve.
type Request struct {
	Endpoints   []string // One endpoint, or two for a paired segment
	CacheName   string   // Store name of the normalized table
	HardRefresh bool     // Refetch even when the cache is today's
}

// Policy resolves tables against a source and a store.
type Policy struct {
	source     Source
	store      store.Store
	normalizer *normalize.Normalizer
	clock      func() time.Time
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// Option configures a Policy.
type Option func(*Policy)

// WithClock sets the clock used to decide whether the cache is today's.
// The date is taken in the location of the returned time.
func WithClock(clock func() time.Time) Option {
	return func(p *Policy) {
		p.clock = clock
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Policy) {
		p.logger = logger
	}
}

// WithMetrics records fetches and loads on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Policy) {
		p.metrics = m
	}
}

// New creates a policy. A nil normalizer uses the default index names.
func New(source Source, st store.Store, n *normalize.Normalizer, opts ...Option) *Policy {
	if n == nil {
		n = normalize.New(nil)
	}
	p := &Policy{
		source:     source,
		store:      st,
		normalizer: n,
		clock:      time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resolve returns the normalized table for req.
func (p *Policy) Resolve(ctx context.Context, req Request) (model.Table, error) {
	if len(req.Endpoints) == 0 {
		return nil, ErrNoEndpoints
	}
	logger := p.logger.With("cache", req.CacheName)

	exists, err := p.store.Exists(ctx, req.CacheName)
	if err != nil {
		return nil, fmt.Errorf("check cache %s: %w", req.CacheName, err)
	}
	if !exists {
		logger.Debug("no cached scrip master, fetching")
		return p.fetchAndPersist(ctx, req, logger)
	}

	modified, err := p.store.LastModified(ctx, req.CacheName)
	if err != nil {
		return nil, fmt.Errorf("cache %s last modified: %w", req.CacheName, err)
	}

	if p.isToday(modified) {
		if !req.HardRefresh {
			logger.Debug("serving today's cached scrip master", "modified", modified)
			return p.readCache(ctx, req.CacheName, metrics.SourceCache)
		}
		logger.Debug("hard refresh of today's scrip master")
		table, err := p.fetchAndPersist(ctx, req, logger)
		if errors.Is(err, ErrSchemaMismatch) {
			logger.Debug("schema mismatch, serving cache", "err", err)
			return p.readCache(ctx, req.CacheName, metrics.SourceFallback)
		}
		return table, err
	}

	logger.Debug("cached scrip master is stale, fetching", "modified", modified)
	raw, err := p.fetch(ctx, req.Endpoints)
	if err != nil || raw.IsEmpty() {
		logger.Debug("fetch failed, serving stale cache", "err", err)
		return p.readCache(ctx, req.CacheName, metrics.SourceFallback)
	}
	return p.normalizeAndPersist(ctx, req.CacheName, raw, logger), nil
}

// fetchAndPersist fetches with no cache to fall back on. An empty fetch
// yields an empty table and nothing is written.
func (p *Policy) fetchAndPersist(ctx context.Context, req Request, logger *slog.Logger) (model.Table, error) {
	raw, err := p.fetch(ctx, req.Endpoints)
	if err != nil {
		return model.Table{}, err
	}
	if raw.IsEmpty() {
		logger.Debug("fetch returned no rows")
		p.metrics.ObserveLoad(metrics.SourceEmpty)
		return model.Table{}, nil
	}
	return p.normalizeAndPersist(ctx, req.CacheName, raw, logger), nil
}

func (p *Policy) normalizeAndPersist(ctx context.Context, name string, raw model.RawTable, logger *slog.Logger) model.Table {
	table := p.normalizer.Normalize(raw)
	p.metrics.ObserveLoad(metrics.SourceFetch)

	if len(table) == 0 {
		return table
	}
	if err := p.store.Write(ctx, name, table); err != nil {
		logger.Warn("persist scrip master failed", "err", err, "rows", len(table))
		return table
	}
	logger.Debug("persisted scrip master", "rows", len(table))
	return table
}

func (p *Policy) readCache(ctx context.Context, name, source string) (model.Table, error) {
	table, err := p.store.Read(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("read cache %s: %w", name, err)
	}
	p.metrics.ObserveLoad(source)
	return table, nil
}

// fetch downloads every endpoint and concatenates the results. Fetch
// failures yield the zero RawTable; only a column mismatch between
// successful members is returned as an error.
func (p *Policy) fetch(ctx context.Context, endpoints []string) (model.RawTable, error) {
	if len(endpoints) == 1 {
		raw, err := p.fetchOne(ctx, endpoints[0])
		if err != nil {
			return model.RawTable{}, nil
		}
		return raw, nil
	}

	parts := make([]model.RawTable, len(endpoints))
	g, gctx := errgroup.WithContext(ctx)
	for i, endpoint := range endpoints {
		g.Go(func() error {
			raw, err := p.fetchOne(gctx, endpoint)
			if err != nil {
				return err
			}
			if len(raw.Records) == 0 {
				return fmt.Errorf("%s: %w", endpoint, errEmptyPart)
			}
			parts[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.logger.Debug("paired scrip master fetch failed", "endpoints", endpoints, "err", err)
		return model.RawTable{}, nil
	}

	return concat(parts)
}

func (p *Policy) fetchOne(ctx context.Context, endpoint string) (model.RawTable, error) {
	raw, err := p.source.FetchScripMaster(ctx, endpoint)
	if err != nil {
		p.logger.Debug("scrip master fetch failed", "endpoint", endpoint, "err", err)
		p.metrics.ObserveFetch(false)
		return model.RawTable{}, fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	p.metrics.ObserveFetch(true)
	return raw, nil
}

// concat stacks tables with identical columns. A failed or empty member
// makes the whole result the zero RawTable.
func concat(parts []model.RawTable) (model.RawTable, error) {
	for _, part := range parts {
		if part.Columns == nil || len(part.Records) == 0 {
			return model.RawTable{}, nil
		}
	}

	out := model.RawTable{Columns: parts[0].Columns}
	for i, part := range parts {
		if !slices.Equal(part.Columns, out.Columns) {
			return model.RawTable{}, fmt.Errorf("%w: part %d has %v, want %v", ErrSchemaMismatch, i, part.Columns, out.Columns)
		}
		out.Records = append(out.Records, part.Records...)
	}
	return out, nil
}

func (p *Policy) isToday(t time.Time) bool {
	now := p.clock()
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.In(now.Location()).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
