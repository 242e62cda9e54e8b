// Package observe provides cross-cutting observability adapters for the
// schema toolkit.
package observe

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mizan-eval/mizan/internal/ports"
)

// PrometheusMetrics implements the MetricsCollector interface using Prometheus.
// It provides real-time monitoring of load outcomes, cache behavior, and
// document sizes for the schema loader.
type PrometheusMetrics struct {
	loadsTotal       *prometheus.CounterVec
	loadDuration     *prometheus.HistogramVec
	cacheHits        prometheus.Counter
	cacheEntries     prometheus.Gauge
	documentBytes    prometheus.Histogram
	operationCounter *prometheus.CounterVec
	systemGauges     *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance and registers
// all required metrics in the global Prometheus registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	return NewPrometheusMetricsWith(prometheus.DefaultRegisterer)
}

// NewPrometheusMetricsWith creates a new PrometheusMetrics instance and
// registers all required metrics with reg. Callers that need an isolated
// registry, such as tests, use this instead of NewPrometheusMetrics.
func NewPrometheusMetricsWith(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		// Loader-specific metrics.
		loadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "schema_loads_total",
				Help: "Total number of schema document loads by outcome.",
			},
			[]string{"status"},
		),
		loadDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "schema_load_duration_seconds",
				Help:    "Execution time of schema loader operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "status"},
		),
		cacheHits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "schema_cache_hits_total",
				Help: "Total number of loads served from the schema cache.",
			},
		),
		cacheEntries: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "schema_cache_entries",
				Help: "Number of validated schemas currently held in the cache.",
			},
		),
		documentBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "schema_document_bytes",
				Help:    "Size distribution of loaded schema documents in bytes.",
				Buckets: prometheus.ExponentialBuckets(256, 4, 8),
			},
		),

		// General fallbacks for metrics without a dedicated collector.
		operationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "schema_operations_total",
				Help: "Total number of operations performed by the schema toolkit.",
			},
			[]string{"operation", "status"},
		),
		systemGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "schema_system_state",
				Help: "Current system state values for the schema toolkit.",
			},
			[]string{"metric"},
		),
	}
}

// RecordLatency implements the MetricsCollector interface by recording
// operation latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	status, ok := labels["status"]
	if !ok || status == "" {
		status = "unknown"
	}
	pm.loadDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	status, ok := labels["status"]
	if !ok || status == "" {
		status = "unknown"
	}

	switch metric {
	case "schema_loads_total":
		pm.loadsTotal.WithLabelValues(status).Add(value)
	case "schema_cache_hits_total":
		pm.cacheHits.Add(value)
	default:
		pm.operationCounter.WithLabelValues(metric, status).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case "schema_cache_entries":
		pm.cacheEntries.Set(value)
	default:
		pm.systemGauges.WithLabelValues(metric).Set(value)
	}
}

// RecordHistogram implements the MetricsCollector interface by recording
// values in a Prometheus histogram. Metrics without a dedicated histogram
// are routed through the load duration metric.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	status, ok := labels["status"]
	if !ok || status == "" {
		status = "unknown"
	}

	switch metric {
	case "schema_document_bytes":
		pm.documentBytes.Observe(value)
	default:
		pm.loadDuration.WithLabelValues(metric, status).Observe(value)
	}
}

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
