package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pricesearch",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"category", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pricesearch",
			Name:      "search_duration_seconds",
			Help:      "Search duration in seconds, catalog load included",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"category"},
	)

	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pricesearch",
			Name:      "search_results",
			Help:      "Number of candidates returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20},
		},
		[]string{"category", "kind"}, // kind: "brand" / "model"
	)

	SearchTopScore = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pricesearch",
			Name:      "search_top_score",
			Help:      "Score of the best model candidate",
			Buckets:   []float64{0.4, 0.5, 0.6, 0.7, 0.8, 0.85, 0.9, 0.95, 1},
		},
		[]string{"category"},
	)

	ResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pricesearch",
			Name:      "resolutions_total",
			Help:      "Resolve outcomes by kind",
		},
		[]string{"category", "kind"}, // "model" / "brand" / "candidates"
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pricesearch",
			Name:      "search_cache_total",
			Help:      "Search result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	CatalogLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pricesearch",
			Name:      "catalog_loads_total",
			Help:      "Catalog snapshot loads from the store",
		},
		[]string{"category", "result"}, // "ok" / "missing" / "stale" / "error"
	)

	CatalogIssuesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pricesearch",
			Name:      "catalog_issues_total",
			Help:      "Catalog records skipped while decoding",
		},
		[]string{"category"},
	)
)

var registerSearchOnce sync.Once

// RegisterSearchMetrics registers Prometheus search metrics on the default registry.
// Called from main; repeated calls are no-ops.
func RegisterSearchMetrics() {
	registerSearchOnce.Do(func() {
		prometheus.MustRegister(
			SearchRequestsTotal,
			SearchDuration,
			SearchResults,
			SearchTopScore,
			ResolutionsTotal,
			SearchCacheTotal,
			CatalogLoadsTotal,
			CatalogIssuesTotal,
		)
	})
}
