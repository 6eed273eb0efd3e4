package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Facet and backend Prometheus metrics.
var (
	// FacetRequestsTotal counts candidate requests by path ("search"/"facets") and status.
	FacetRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stashfilter",
			Name:      "facet_requests_total",
			Help:      "Total number of candidate requests issued by filter widgets",
		},
		[]string{"path", "status"},
	)

	// FacetStaleTotal counts responses discarded because a newer request superseded them.
	FacetStaleTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stashfilter",
			Name:      "facet_stale_responses_total",
			Help:      "Responses discarded because a newer request was issued",
		},
		[]string{"path"},
	)

	FacetCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stashfilter",
			Name:      "facet_cache_total",
			Help:      "Facet cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stashfilter",
			Name:      "backend_request_duration_seconds",
			Help:      "Query backend request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"op", "status"},
	)
)

// RegisterFacetMetrics registers the facet metrics with reg. Called from main;
// registering twice with the same registry is a no-op.
func RegisterFacetMetrics(reg prometheus.Registerer) {
	for _, c := range []prometheus.Collector{
		FacetRequestsTotal, FacetStaleTotal, FacetCacheTotal, BackendRequestDuration,
	} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				panic(err)
			}
		}
	}
}
