package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the harvester.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	FetchDuration   prometheus.Histogram
	CandidatesTotal prometheus.Counter
	DroppedTotal    *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_requests_total",
			Help: "Total HTTP requests issued by the harvester.",
		},
		[]string{"phase"},
	)
	fetchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "harvester_fetch_duration_seconds",
			Help:    "HTTP fetch latency for harvester requests.",
			Buckets: prometheus.DefBuckets,
		},
	)
	candidates := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "harvester_candidates_total",
			Help: "Total number of product records scraped.",
		},
	)
	dropped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_dropped_total",
			Help: "Total number of candidate URLs dropped by reason.",
		},
		[]string{"reason"},
	)

	registry.MustRegister(requests, fetchDuration, candidates, dropped)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		FetchDuration:   fetchDuration,
		CandidatesTotal: candidates,
		DroppedTotal:    dropped,
	}
}

// IncRequest increments the requests total counter for a phase.
func (m *Metrics) IncRequest(phase string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(phase).Inc()
}

// ObserveFetch records an HTTP fetch duration.
func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// IncCandidates increments the scraped-candidates counter.
func (m *Metrics) IncCandidates() {
	if m == nil {
		return
	}
	m.CandidatesTotal.Inc()
}

// IncDropped increments the dropped counter for a reason.
func (m *Metrics) IncDropped(reason string) {
	if m == nil {
		return
	}
	m.DroppedTotal.WithLabelValues(reason).Inc()
}
