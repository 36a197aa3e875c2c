// Package metrics exposes the server's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listly_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "listly_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	deferredHookFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "listly_deferred_hook_failures_total",
			Help: "Lifecycle hooks that failed after their transaction committed.",
		},
	)
)

// ObserveRequest records one handled HTTP request.
func ObserveRequest(method, path string, status int, duration time.Duration) {
	requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// CountDeferredHookFailure records a post-commit hook failure. These are not
// correlated back to the operation that scheduled the hook; the counter and
// the error log are their only surfacing.
func CountDeferredHookFailure() {
	deferredHookFailures.Inc()
}

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
