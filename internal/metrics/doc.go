// Package metrics provides Prometheus instrumentation for the
// thumbnail service.
//
// All metrics are prefixed with "thumbnail_service_" to avoid naming
// collisions with other applications.
//
// # Metric Categories
//
// HTTP metrics track request performance and error rates:
//   - HTTPRequestsTotal: Counter of total requests by method, path, and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of currently processing requests
//
// Generation metrics monitor thumbnail derivation:
//   - GenerationsTotal: Counter by trigger (upload/item_hook/app_hook) and status
//   - GenerationDuration: Histogram of end-to-end derivation time
//
// Storage metrics monitor the backend:
//   - StorageOperationsTotal: Counter by operation (put/get/copy/delete) and status
//   - StorageOperationDuration: Histogram of operation duration
//
// Hook metrics track lifecycle event handling:
//   - HookRunsTotal: Counter by event and outcome (handled/skipped/error)
//
// # Usage
//
// Metrics are automatically registered with the default Prometheus
// registry using promauto. To expose them, mount promhttp.Handler()
// on your metrics endpoint:
//
//	import "github.com/prometheus/client_golang/prometheus/promhttp"
//
//	mux.Handle("/metrics", promhttp.Handler())
//
// To record metrics from other packages, use the exported variables:
//
//	metrics.StorageOperationsTotal.WithLabelValues("put", "success").Inc()
//	metrics.GenerationDuration.Observe(0.123)
package metrics
