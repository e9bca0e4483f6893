package catalog

import (
	"log/slog"

	"github.com/rickgao/bfo-scripmaster/internal/metrics"
)

type settings struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Loader or a Catalog.
type Option func(*settings)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithMetrics records loads and lookups on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *settings) {
		s.metrics = m
	}
}

func newSettings(opts []Option) settings {
	s := settings{logger: slog.Default()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
