package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "scripmaster"

// Fetch results.
const (
	FetchOK    = "ok"
	FetchError = "error"
)

// Load sources.
const (
	SourceFetch    = "fetch"
	SourceCache    = "cache"
	SourceFallback = "fallback"
	SourceEmpty    = "empty"
)

// Lookup results.
const (
	LookupHit     = "hit"
	LookupMiss    = "miss"
	LookupInvalid = "invalid"
)

// Metrics holds the resolver's collectors.
type Metrics struct {
	Fetches *prometheus.CounterVec
	Loads   *prometheus.CounterVec
	Lookups *prometheus.CounterVec
	Rows    *prometheus.GaugeVec
}

// New creates the collectors and registers them on reg. A nil reg skips
// registration.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Scrip master fetch attempts by result.",
		}, []string{"result"}),
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Resolved scrip master tables by source.",
		}, []string{"source"}),
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Catalog queries by operation and result.",
		}, []string{"op", "result"}),
		Rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows",
			Help:      "Rows in the most recently loaded catalog per segment.",
		}, []string{"segment"}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.Fetches, m.Loads, m.Lookups, m.Rows} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// ObserveFetch counts one fetch attempt.
func (m *Metrics) ObserveFetch(ok bool) {
	if m == nil {
		return
	}
	result := FetchOK
	if !ok {
		result = FetchError
	}
	m.Fetches.WithLabelValues(result).Inc()
}

// ObserveLoad counts one resolved table by source.
func (m *Metrics) ObserveLoad(source string) {
	if m == nil {
		return
	}
	m.Loads.WithLabelValues(source).Inc()
}

// ObserveLookup counts one catalog query.
func (m *Metrics) ObserveLookup(op, result string) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(op, result).Inc()
}

// SetRows records the row count of a loaded segment.
func (m *Metrics) SetRows(segment string, n int) {
	if m == nil {
		return
	}
	m.Rows.WithLabelValues(segment).Set(float64(n))
}
