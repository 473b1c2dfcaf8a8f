// Package metrics holds the Prometheus instrumentation for the engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	storeOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shelf_objstore_operations_total",
		Help: "Object storage operations by type and result.",
	}, []string{"op", "result"})

	storeLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shelf_objstore_operation_seconds",
		Help:    "Object storage operation latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	refreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shelf_refresh_total",
		Help: "Refresh cycles by outcome (changed, unchanged, skipped, failed).",
	}, []string{"outcome"})

	cacheEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shelf_memory_cache_events_total",
		Help: "Memory cache hits and misses.",
	}, []string{"event"})
)

// RecordStoreOperation tracks one object-storage call.
func RecordStoreOperation(op string, elapsed time.Duration, ok bool) {
	result := "success"
	if !ok {
		result = "error"
	}
	storeOps.WithLabelValues(op, result).Inc()
	storeLatency.WithLabelValues(op).Observe(elapsed.Seconds())
}

// RecordRefresh tracks the outcome of one refresh cycle.
func RecordRefresh(outcome string) {
	refreshTotal.WithLabelValues(outcome).Inc()
}

// RecordCacheHit and RecordCacheMiss track memory cache lookups.
func RecordCacheHit()  { cacheEvents.WithLabelValues("hit").Inc() }
func RecordCacheMiss() { cacheEvents.WithLabelValues("miss").Inc() }

// Handler exposes the registry for the /metrics route.
func Handler() http.Handler {
	return promhttp.Handler()
}
