// Package metrics defines the Prometheus metrics of the product search service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gcbaptista/go-product-search/services"
)

const namespace = "product_search"

// Search Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Total number of searches by the escalation attempt that produced the results",
		},
		[]string{"attempt"},
	)

	SearchZeroResultsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_zero_results_total",
			Help:      "Total number of searches that returned nothing",
		},
	)

	SearchCorrectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_corrections_total",
			Help:      "Total number of searches answered with a spell-corrected query",
		},
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Search engine duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	SuggestionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_total",
			Help:      "Total number of suggestion lists by fallback strategy",
		},
		[]string{"strategy"},
	)

	CatalogFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_fetches_total",
			Help:      "Catalog fetches by source and result",
		},
		[]string{"source", "result"}, // "ok" / "error" / "stale"
	)

	CatalogCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_cache_total",
			Help:      "Catalog cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	JobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Background jobs by type and final status",
		},
		[]string{"type", "status"},
	)

	JobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Background job execution time in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"type"},
	)

	JobsRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "jobs_running",
			Help:      "Background jobs currently holding a worker slot",
		},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state: 0 closed, 1 half-open, 2 open",
		},
		[]string{"name"},
	)
)

func init() {
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchZeroResultsTotal)
	prometheus.MustRegister(SearchCorrectionsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SuggestionsTotal)
	prometheus.MustRegister(CatalogFetchesTotal)
	prometheus.MustRegister(CatalogCacheTotal)
	prometheus.MustRegister(JobsTotal)
	prometheus.MustRegister(JobDuration)
	prometheus.MustRegister(JobsRunning)
	prometheus.MustRegister(CircuitBreakerState)
}

// ObserveSearch records the outcome of one search.
func ObserveSearch(outcome services.SearchOutcome, seconds float64) {
	SearchesTotal.WithLabelValues(string(outcome.Attempt)).Inc()
	SearchDuration.Observe(seconds)
	if !outcome.HasResults {
		SearchZeroResultsTotal.Inc()
	}
	if outcome.CorrectedQuery != nil {
		SearchCorrectionsTotal.Inc()
	}
}

// ObserveSuggestions records which fallback strategy produced a suggestion list.
func ObserveSuggestions(strategy services.SuggestStrategy) {
	SuggestionsTotal.WithLabelValues(string(strategy)).Inc()
}
