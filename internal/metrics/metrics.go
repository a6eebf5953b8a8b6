// Package metrics records DKIM check outcomes in a private Prometheus
// registry that can be written out for the node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "dkimkey"

// Metrics holds the collectors of a single run.
type Metrics struct {
	registry *prometheus.Registry

	// ChecksTotal counts key checks by outcome ("valid" or a failure kind).
	ChecksTotal *prometheus.CounterVec
	// LookupDuration observes the wall time of each key check.
	LookupDuration prometheus.Histogram
}

// New returns Metrics registered on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "checks_total",
				Help:      "Total number of DKIM public key checks by outcome.",
			},
			[]string{"outcome"},
		),
		LookupDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "lookup_duration_seconds",
				Help:      "Duration of DKIM public key lookups in seconds.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
		),
	}
	m.registry.MustRegister(m.ChecksTotal, m.LookupDuration)
	return m
}

// ObserveCheck records one finished check. A nil receiver is a no-op so
// callers need not guard optional metrics.
func (m *Metrics) ObserveCheck(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.ChecksTotal.WithLabelValues(outcome).Inc()
	m.LookupDuration.Observe(d.Seconds())
}

// Registry exposes the underlying registry as a Gatherer.
func (m *Metrics) Registry() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile atomically writes all metrics to path in the Prometheus
// text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
