package catalog

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/rickgao/bfo-scripmaster/internal/model"
	"github.com/rickgao/bfo-scripmaster/internal/refresh"
)

// Resolver produces the normalized table for a request. *refresh.Policy
// satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, req refresh.Request) (model.Table, error)
}

// Loader memoizes one Catalog per (segment, hard refresh) key.
type Loader struct {
	policy Resolver
	cache  *gocache.Cache
	group  singleflight.Group
	opts   []Option
	settings
}

// NewLoader creates a loader. Options are also applied to every Catalog it
// builds.
func NewLoader(policy Resolver, opts ...Option) *Loader {
	return &Loader{
		policy:   policy,
		cache:    gocache.New(gocache.NoExpiration, 0),
		opts:     opts,
		settings: newSettings(opts),
	}
}

func cacheKey(segment model.Segment, hardRefresh bool) string {
	return fmt.Sprintf("%s:%t", segment, hardRefresh)
}

// Open returns the catalog for segment, resolving it on first use.
// Resolve errors are returned and not memoized.
func (l *Loader) Open(ctx context.Context, segment model.Segment, hardRefresh bool) (*Catalog, error) {
	req, err := RequestFor(segment, hardRefresh)
	if err != nil {
		return nil, err
	}

	key := cacheKey(segment, hardRefresh)
	if hardRefresh {
		l.cache.Delete(key)
	}
	if c, ok := l.cached(key); ok {
		return c, nil
	}

	v, err, shared := l.group.Do(key, func() (any, error) {
		if c, ok := l.cached(key); ok {
			return c, nil
		}

		// Waiters share this load, so one caller cancelling must not fail it.
		start := time.Now()
		table, err := l.policy.Resolve(context.WithoutCancel(ctx), req)
		if err != nil {
			l.logger.Debug("resolve scrip master failed", "segment", segment, "err", err)
			return nil, fmt.Errorf("load %s scrip master: %w", segment, err)
		}

		c := NewCatalog(segment, table, l.opts...)
		l.cache.Set(key, c, gocache.NoExpiration)
		l.metrics.SetRows(string(segment), c.Len())

		l.logger.Info("scrip master loaded",
			"segment", segment,
			"hard_refresh", hardRefresh,
			"rows", c.Len(),
			"snapshot", c.ID(),
			"duration", time.Since(start),
		)
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		l.logger.Debug("shared scrip master load", "segment", segment)
	}
	return v.(*Catalog), nil
}

// Invalidate drops the memoized catalog for the key so the next Open
// resolves again.
func (l *Loader) Invalidate(segment model.Segment, hardRefresh bool) {
	l.cache.Delete(cacheKey(segment, hardRefresh))
}

func (l *Loader) cached(key string) (*Catalog, bool) {
	v, ok := l.cache.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*Catalog), true
}
