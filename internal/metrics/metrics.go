package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// List cache metrics
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_lookups_total",
			Help: "List cache lookups by entity and result (hit, miss, stale, error)",
		},
		[]string{"entity", "result"},
	)

	// Authentication metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Login attempts by method and outcome",
		},
		[]string{"method", "outcome"},
	)
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, path, status string, started time.Time) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(started).Seconds())
}

func RecordCacheLookup(entity, result string) {
	CacheLookups.WithLabelValues(entity, result).Inc()
}

func RecordAuthAttempt(method string, ok bool) {
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	AuthAttempts.WithLabelValues(method, outcome).Inc()
}
