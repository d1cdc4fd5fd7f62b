// Package monitoring provides Prometheus metrics for the engine and its
// HTTP surface.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the service registers
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	evaluations     *prometheus.CounterVec
	evaluationTime  prometheus.Histogram
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	batchSizes      prometheus.Histogram
	violationsFound *prometheus.CounterVec
}

// NewMetrics creates the service's Prometheus collectors on a dedicated
// registry, so tests can build isolated instances.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "platewise",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route, and status code",
		}, []string{"method", "route", "status"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "platewise",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "platewise",
			Subsystem: "engine",
			Name:      "evaluations_total",
			Help:      "Recipe evaluations by verdict",
		}, []string{"verdict"}),

		evaluationTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "platewise",
			Subsystem: "engine",
			Name:      "evaluation_duration_seconds",
			Help:      "Time spent evaluating one recipe",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),

		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "platewise",
			Subsystem: "engine",
			Name:      "cache_hits_total",
			Help:      "Evaluation cache hits",
		}),

		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "platewise",
			Subsystem: "engine",
			Name:      "cache_misses_total",
			Help:      "Evaluation cache misses",
		}),

		batchSizes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "platewise",
			Subsystem: "engine",
			Name:      "batch_size",
			Help:      "Number of recipes per batch filter call",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250},
		}),

		violationsFound: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "platewise",
			Subsystem: "engine",
			Name:      "violations_total",
			Help:      "Violations detected by source",
		}, []string{"source"}),
	}
}

// Registry exposes the underlying registry for the /metrics handler
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordEvaluation counts one evaluation and its latency
func (m *Metrics) RecordEvaluation(compatible bool, duration time.Duration) {
	verdict := "compatible"
	if !compatible {
		verdict = "incompatible"
	}
	m.evaluations.WithLabelValues(verdict).Inc()
	m.evaluationTime.Observe(duration.Seconds())
}

// RecordCacheHit counts one evaluation cache hit
func (m *Metrics) RecordCacheHit() { m.cacheHits.Inc() }

// RecordCacheMiss counts one evaluation cache miss
func (m *Metrics) RecordCacheMiss() { m.cacheMisses.Inc() }

// RecordBatch observes one batch filter call
func (m *Metrics) RecordBatch(size int) {
	m.batchSizes.Observe(float64(size))
}

// RecordViolation counts one detected violation
func (m *Metrics) RecordViolation(source string) {
	m.violationsFound.WithLabelValues(source).Inc()
}

// HTTPMiddleware instruments each request with the HTTP collectors
func (m *Metrics) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
