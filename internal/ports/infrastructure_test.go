package ports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// mockMetricsCollector implements MetricsCollector interface
type mockMetricsCollector struct {
	latencies  []time.Duration
	counters   map[string]float64
	gauges     map[string]float64
	histograms map[string][]float64
}

// newMockMetricsCollector creates a new mock metrics collector for testing.
func newMockMetricsCollector() *mockMetricsCollector {
	return &mockMetricsCollector{
		latencies:  []time.Duration{},
		counters:   make(map[string]float64),
		gauges:     make(map[string]float64),
		histograms: make(map[string][]float64),
	}
}

func (m *mockMetricsCollector) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	m.latencies = append(m.latencies, duration)
}

func (m *mockMetricsCollector) RecordCounter(metric string, value float64, labels map[string]string) {
	m.counters[metric] += value
}

func (m *mockMetricsCollector) RecordGauge(metric string, value float64, labels map[string]string) {
	m.gauges[metric] = value
}

func (m *mockMetricsCollector) RecordHistogram(metric string, value float64, labels map[string]string) {
	m.histograms[metric] = append(m.histograms[metric], value)
}

// Test that the interface is properly defined and can be implemented
func TestInterfaces_Implementation(t *testing.T) {
	var _ MetricsCollector = (*mockMetricsCollector)(nil)
}

func TestMetricsCollector_Recording(t *testing.T) {
	metrics := newMockMetricsCollector()
	labels := map[string]string{"status": "success"}

	// Test RecordLatency
	metrics.RecordLatency("schema_load", 100*time.Millisecond, labels)
	assert.Len(t, metrics.latencies, 1, "RecordLatency() should record one duration")
	assert.Equal(t, 100*time.Millisecond, metrics.latencies[0], "RecordLatency() duration mismatch")

	// Test RecordCounter
	metrics.RecordCounter("schema_loads_total", 1, labels)
	metrics.RecordCounter("schema_loads_total", 2, labels)
	assert.Equal(t, float64(3), metrics.counters["schema_loads_total"], "RecordCounter() sum mismatch")

	// Test RecordGauge
	metrics.RecordGauge("schema_cache_entries", 10, nil)
	metrics.RecordGauge("schema_cache_entries", 5, nil)
	assert.Equal(t, float64(5), metrics.gauges["schema_cache_entries"], "RecordGauge() value mismatch")

	// Test RecordHistogram
	metrics.RecordHistogram("schema_document_bytes", 1024, nil)
	metrics.RecordHistogram("schema_document_bytes", 2048, nil)
	assert.Len(t, metrics.histograms["schema_document_bytes"], 2, "RecordHistogram() should record two values")
}
