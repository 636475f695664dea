// Package metrics provides Prometheus collectors for transport and cache activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values for fetch counters.
const (
	ResultModified    = "modified"
	ResultNotModified = "not_modified"
	ResultExpired     = "expired"
	ResultFetched     = "fetched"
)

var (
	CatalogFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chankit_catalog_fetches_total",
			Help: "Total number of successful catalog fetches, by conditional-request outcome",
		},
		[]string{"board", "result"},
	)

	ThreadFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chankit_thread_fetches_total",
			Help: "Total number of successful thread fetches and revalidations, by outcome",
		},
		[]string{"board", "result"},
	)

	CachedThreads = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chankit_cached_threads",
			Help: "Number of threads currently held in a board's cache",
		},
		[]string{"board"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chankit_cache_evictions_total",
			Help: "Total number of threads evicted from board caches",
		},
		[]string{"board"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chankit_request_duration_seconds",
			Help:    "Upstream API request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)
)
