// Package prom exposes benchmark activity as Prometheus metrics.
// It implements ports.MetricsSink on a private registry so several engines
// (and tests) can coexist in one process.
package prom

import (
	"net/http"

	"github.com/corey/mbench/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mbench"

// Metrics records per-algorithm search latency, comparison counts and results.
type Metrics struct {
	registry *prometheus.Registry

	// searchDuration measures one pattern search.
	// Labels: algorithm
	searchDuration *prometheus.HistogramVec

	// searchComparisons tracks character comparisons per search.
	// Labels: algorithm
	searchComparisons *prometheus.HistogramVec

	// searches counts pattern searches.
	// Labels: algorithm, result (found, not_found)
	searches *prometheus.CounterVec

	// runs counts recorded submissions.
	// Labels: algorithm
	runs *prometheus.CounterVec
}

// New creates the metric vectors and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		searchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Wall time of a single pattern search in seconds",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 12),
		}, []string{"algorithm"}),
		searchComparisons: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "comparisons",
			Help:      "Character comparisons performed by a single pattern search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
		}, []string{"algorithm"}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "total",
			Help:      "Total pattern searches by result",
		}, []string{"algorithm", "result"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total recorded benchmark submissions",
		}, []string{"algorithm"}),
	}
	m.registry.MustRegister(
		m.searchDuration,
		m.searchComparisons,
		m.searches,
		m.runs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRun implements ports.MetricsSink.
func (m *Metrics) ObserveRun(alg ports.Algorithm, outcomes []ports.MatchOutcome) {
	name := alg.String()
	m.runs.WithLabelValues(name).Inc()
	for _, o := range outcomes {
		m.searchDuration.WithLabelValues(name).Observe(o.TimeMs / 1000)
		m.searchComparisons.WithLabelValues(name).Observe(float64(o.Comparisons))
		result := "found"
		if !o.Found() {
			result = "not_found"
		}
		m.searches.WithLabelValues(name, result).Inc()
	}
}

// Registry returns the registry holding the benchmark metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
