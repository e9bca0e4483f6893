package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveFetch(true)
		m.ObserveLoad(SourceCache)
		m.ObserveLookup("token", LookupHit)
		m.SetRows("idx", 10)
	})
}

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ObserveFetch(true)
	m.ObserveFetch(false)
	m.ObserveFetch(false)
	m.ObserveLoad(SourceFallback)
	m.ObserveLookup("expiry", LookupMiss)
	m.SetRows("all", 1234)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fetches.WithLabelValues(FetchOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Fetches.WithLabelValues(FetchError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Loads.WithLabelValues(SourceFallback)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues("expiry", LookupMiss)))
	assert.Equal(t, 1234.0, testutil.ToFloat64(m.Rows.WithLabelValues("all")))

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}

func TestNewWithoutRegistry(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)
	m.ObserveLoad(SourceFetch)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Loads.WithLabelValues(SourceFetch)))
}
