// Package metrics exposes the Prometheus registry of the catalog API and the
// HTTP request metrics. Cache and catalog metrics are defined in their own
// packages (pkg/cache, pkg/catalog) and registered through promauto.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the catalog API.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

var (
	// HTTPRequests counts served requests by method, route and status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "HTTP request duration by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// ObserveRequest records one served request.
func ObserveRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the default gatherer in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - catalog_cache_hits_total{backend} (Counter): Cache hits by backend (memory, redis)
//   - catalog_cache_misses_total{backend} (Counter): Misses, including reads of expired entries
//   - catalog_cache_expirations_total{backend, trigger} (Counter): Expired entries evicted on read or by sweep
//   - catalog_cache_entries{backend} (Gauge): Entries currently held
//   - catalog_cache_sweeps_total (Counter): Sweep passes
//   - catalog_cache_errors_total{operation} (Counter): Backend failures
//
// Catalog Metrics (pkg/catalog):
//   - catalog_rebuilds_total{key, result} (Counter): Cache-miss rebuilds
//   - catalog_rebuild_duration_seconds{key} (Histogram): Rebuild duration
//   - catalog_rebuilds_shared_total{key} (Counter): Callers served by a rebuild already in flight
//   - catalog_snapshot_products (Gauge): Products in the last built snapshot
//
// HTTP Metrics (pkg/metrics):
//   - catalog_http_requests_total{method, route, status} (Counter)
//   - catalog_http_request_duration_seconds{method, route} (Histogram)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(catalog_cache_hits_total[5m])) /
//   (sum(rate(catalog_cache_hits_total[5m])) + sum(rate(catalog_cache_misses_total[5m])))
//
//   # Failed Rebuilds
//   rate(catalog_rebuilds_total{result="error"}[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(catalog_http_request_duration_seconds_bucket[5m]))
