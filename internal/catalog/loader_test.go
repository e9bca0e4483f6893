package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/bfo-scripmaster/internal/api"
	"github.com/rickgao/bfo-scripmaster/internal/model"
	"github.com/rickgao/bfo-scripmaster/internal/normalize"
	"github.com/rickgao/bfo-scripmaster/internal/refresh"
	"github.com/rickgao/bfo-scripmaster/internal/store"
)

// fakeResolver returns testTable and records every request.
type fakeResolver struct {
	mu       sync.Mutex
	requests []refresh.Request
	err      error
	started  chan struct{}
	release  chan struct{}
}

func (f *fakeResolver) Resolve(ctx context.Context, req refresh.Request) (model.Table, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	err := f.err
	f.mu.Unlock()

	if f.started != nil {
		select {
		case f.started <- struct{}{}:
		default:
		}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return testTable(), nil
}

func (f *fakeResolver) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func TestRequestFor(t *testing.T) {
	tests := []struct {
		segment   model.Segment
		endpoints []string
		cacheName string
	}{
		{model.SegmentIndex, []string{"bfoidx"}, "bfo_idx_mod.csv"},
		{model.SegmentStock, []string{"bfostk"}, "bfo_stk_mod.csv"},
		{model.SegmentAll, []string{"bfoidx", "bfostk"}, "bfo_mod.csv"},
	}
	for _, tt := range tests {
		t.Run(string(tt.segment), func(t *testing.T) {
			req, err := RequestFor(tt.segment, true)
			require.NoError(t, err)
			assert.Equal(t, tt.endpoints, req.Endpoints)
			assert.Equal(t, tt.cacheName, req.CacheName)
			assert.True(t, req.HardRefresh)
		})
	}

	_, err := RequestFor("cds", false)
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestOpenMemoizes(t *testing.T) {
	r := &fakeResolver{}
	l := NewLoader(r)
	ctx := context.Background()

	first, err := l.Open(ctx, model.SegmentIndex, false)
	require.NoError(t, err)
	second, err := l.Open(ctx, model.SegmentIndex, false)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, r.calls())
	assert.Equal(t, len(testTable()), first.Len())
}

func TestOpenKeysBySegment(t *testing.T) {
	r := &fakeResolver{}
	l := NewLoader(r)
	ctx := context.Background()

	idx, err := l.Open(ctx, model.SegmentIndex, false)
	require.NoError(t, err)
	stk, err := l.Open(ctx, model.SegmentStock, false)
	require.NoError(t, err)

	assert.NotSame(t, idx, stk)
	assert.NotEqual(t, idx.ID(), stk.ID())
	assert.Equal(t, 2, r.calls())
}

func TestOpenHardRefreshAlwaysResolves(t *testing.T) {
	r := &fakeResolver{}
	l := NewLoader(r)
	ctx := context.Background()

	soft, err := l.Open(ctx, model.SegmentAll, false)
	require.NoError(t, err)

	hard1, err := l.Open(ctx, model.SegmentAll, true)
	require.NoError(t, err)
	hard2, err := l.Open(ctx, model.SegmentAll, true)
	require.NoError(t, err)
	assert.NotEqual(t, hard1.ID(), hard2.ID())
	assert.Equal(t, 3, r.calls())

	again, err := l.Open(ctx, model.SegmentAll, false)
	require.NoError(t, err)
	assert.Same(t, soft, again)
	assert.Equal(t, 3, r.calls())

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.False(t, r.requests[0].HardRefresh)
	assert.True(t, r.requests[1].HardRefresh)
}

func TestOpenConcurrentSharesLoad(t *testing.T) {
	r := &fakeResolver{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	l := NewLoader(r)
	ctx := context.Background()

	const n = 16
	results := make([]*Catalog, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := l.Open(ctx, model.SegmentStock, false)
			assert.NoError(t, err)
			results[i] = c
		}()
	}

	<-r.started
	time.Sleep(20 * time.Millisecond)
	close(r.release)
	wg.Wait()

	assert.Equal(t, 1, r.calls())
	for _, c := range results {
		assert.Same(t, results[0], c)
	}
}

func TestOpenSharedLoadSurvivesCallerCancel(t *testing.T) {
	r := &fakeResolver{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	l := NewLoader(r)

	first, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[0] = l.Open(first, model.SegmentIndex, false)
	}()
	<-r.started

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[1] = l.Open(context.Background(), model.SegmentIndex, false)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)
	close(r.release)
	wg.Wait()

	assert.NoError(t, errs[1])
	assert.Equal(t, 1, r.calls())
}

func TestOpenErrorIsNotMemoized(t *testing.T) {
	r := &fakeResolver{err: errors.New("store unreadable")}
	l := NewLoader(r)
	ctx := context.Background()

	_, err := l.Open(ctx, model.SegmentIndex, false)
	require.Error(t, err)

	r.mu.Lock()
	r.err = nil
	r.mu.Unlock()

	c, err := l.Open(ctx, model.SegmentIndex, false)
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Equal(t, 2, r.calls())
}

func TestOpenUnknownSegment(t *testing.T) {
	r := &fakeResolver{}
	_, err := NewLoader(r).Open(context.Background(), "mcx", false)
	assert.ErrorIs(t, err, ErrInvalidQuery)
	assert.Zero(t, r.calls())
}

func TestInvalidate(t *testing.T) {
	r := &fakeResolver{}
	l := NewLoader(r)
	ctx := context.Background()

	first, err := l.Open(ctx, model.SegmentIndex, false)
	require.NoError(t, err)
	l.Invalidate(model.SegmentIndex, false)
	second, err := l.Open(ctx, model.SegmentIndex, false)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, r.calls())
}

const bfoidxJSON = `{"data":[
	{"exchange":"BFO","token":"1130401","lotsize":"15","symbol":"BANKEX","tradingsymbol":"BANKEX28DEC2350000CE","expiry":"28-DEC-2023","instrument":"OPTIDX","optiontype":"CE","strike":"50000"},
	{"exchange":"BFO","token":"1130402","lotsize":"15","symbol":"BANKEX","tradingsymbol":"BANKEX28DEC2350000PE","expiry":"28-DEC-2023","instrument":"OPTIDX","optiontype":"PE","strike":"50000"},
	{"exchange":"BFO","token":"1130500","lotsize":"15","symbol":"BANKEX","tradingsymbol":"BANKEX23DECFUT","expiry":"28-DEC-2023","instrument":"FUTIDX","optiontype":"XX","strike":"-1"},
	{"exchange":"BFO","token":"1140001","lotsize":"10","symbol":"SENSEX","tradingsymbol":"SENSEX50X29DEC2372000CE","expiry":"29-DEC-2023","instrument":"OPTIDX","optiontype":"CE","strike":"72000"}
]}`

func TestEndToEndFromScripMasterService(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/bfoidx" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(bfoidxJSON))
	}))
	defer srv.Close()

	dir := t.TempDir()
	newLoader := func() *Loader {
		client := api.NewClient(srv.URL)
		policy := refresh.New(client, store.NewFileStore(dir), normalize.New(nil))
		return NewLoader(policy)
	}
	ctx := context.Background()

	c, err := newLoader().Open(ctx, model.SegmentIndex, false)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, 4, c.Len())

	_, err = os.Stat(filepath.Join(dir, CacheIndex))
	require.NoError(t, err, "normalized table should be persisted")

	ts, err := c.TradingSymbol(ContractQuery{
		Symbol: "BANKEX", Instrument: "OPTIDX", Expiry: "28-DEC-2023", OptionType: "CE", StrikePrice: "2350000",
	})
	require.NoError(t, err)
	assert.Equal(t, "BANKEX28DEC2350000CE", ts)

	token, err := c.Token(ContractQuery{Symbol: "bankex", Instrument: "FUTIDX", Expiry: "28-DEC-2023"})
	require.NoError(t, err)
	assert.Equal(t, "1130500", token)

	expiry, err := c.Expiry(ExpiryQuery{Symbol: "SENSEX50"})
	require.NoError(t, err)
	assert.Equal(t, "29-DEC-2023", expiry)

	// A new process finds today's cache and does not fetch.
	c2, err := newLoader().Open(ctx, model.SegmentIndex, false)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, c.Records(), c2.Records())
}
