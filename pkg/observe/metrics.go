package observe

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the solar API.
type Metrics struct {
	FetchRequests *prometheus.CounterVec   // labels: provider, outcome={success,error}
	FetchDuration *prometheus.HistogramVec // labels: provider
	CacheLookups  *prometheus.CounterVec   // labels: provider, result={hit,miss}

	GeocodeRequests *prometheus.CounterVec // labels: outcome={success,error,empty}
	ExportsServed   prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.FetchRequests,
		m.FetchDuration,
		m.CacheLookups,
		m.GeocodeRequests,
		m.ExportsServed,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solar_api",
			Name:      "fetch_requests_total",
			Help:      "Upstream solar data requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "solar_api",
			Name:      "fetch_duration_seconds",
			Help:      "Upstream solar data request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solar_api",
			Name:      "cache_lookups_total",
			Help:      "Solar resource cache lookups by provider and result.",
		}, []string{"provider", "result"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solar_api",
			Name:      "geocode_requests_total",
			Help:      "Geocoding requests by outcome.",
		}, []string{"outcome"}),
		ExportsServed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_api",
			Name:      "exports_served_total",
			Help:      "CSV exports served.",
		}),
	}
}
