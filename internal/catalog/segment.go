package catalog

import (
	"fmt"

	"github.com/rickgao/bfo-scripmaster/internal/api"
	"github.com/rickgao/bfo-scripmaster/internal/model"
	"github.com/rickgao/bfo-scripmaster/internal/refresh"
)

// Cache names per segment.
const (
	CacheIndex = "bfo_idx_mod.csv"
	CacheStock = "bfo_stk_mod.csv"
	CacheAll   = "bfo_mod.csv"
)

type segmentSource struct {
	endpoints []string
	cacheName string
}

var segmentSources = map[model.Segment]segmentSource{
	model.SegmentIndex: {endpoints: []string{api.EndpointIndex}, cacheName: CacheIndex},
	model.SegmentStock: {endpoints: []string{api.EndpointStock}, cacheName: CacheStock},
	model.SegmentAll:   {endpoints: []string{api.EndpointIndex, api.EndpointStock}, cacheName: CacheAll},
}

// RequestFor returns the refresh request that loads segment.
func RequestFor(segment model.Segment, hardRefresh bool) (refresh.Request, error) {
	src, ok := segmentSources[segment]
	if !ok {
		return refresh.Request{}, fmt.Errorf("%w: unknown segment %q", ErrInvalidQuery, segment)
	}
	return refresh.Request{
		Endpoints:   append([]string(nil), src.endpoints...),
		CacheName:   src.cacheName,
		HardRefresh: hardRefresh,
	}, nil
}
