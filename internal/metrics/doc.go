// Package metrics provides Prometheus metrics for the scrip master resolver.
//
// Key metrics:
//   - scripmaster_fetches_total{result}: upstream fetch attempts
//   - scripmaster_loads_total{source}: where each resolved table came from
//   - scripmaster_lookups_total{op,result}: catalog query outcomes
//   - scripmaster_rows{segment}: rows in the most recently loaded catalog
//
// A nil *Metrics is valid and records nothing.
package metrics
