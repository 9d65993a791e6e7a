package testutils

import (
	"sync"
	"time"

	"github.com/ahrav/go-sequent/internal/ports"
)

// MockMetrics is a MetricsCollector double that records every
// observation in order, so tests can assert not just final values but
// the sequence of recordings an evaluation produced.
type MockMetrics struct {
	mu sync.Mutex

	// Counters accumulates counter increments by metric name.
	Counters map[string]float64
	// Gauges holds the full recording history per gauge name; the last
	// element is the value currently exported.
	Gauges map[string][]float64
	// Histograms holds every observed value per histogram name.
	Histograms map[string][]float64
	// Latencies holds every observed duration per operation name.
	Latencies map[string][]time.Duration
}

var _ ports.MetricsCollector = (*MockMetrics)(nil)

// NewMockMetrics creates an empty recording collector.
func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Counters:   make(map[string]float64),
		Gauges:     make(map[string][]float64),
		Histograms: make(map[string][]float64),
		Latencies:  make(map[string][]time.Duration),
	}
}

// RecordLatency implements ports.MetricsCollector.
func (m *MockMetrics) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Latencies[operation] = append(m.Latencies[operation], duration)
}

// RecordCounter implements ports.MetricsCollector.
func (m *MockMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Counters[metric] += value
}

// RecordGauge implements ports.MetricsCollector.
func (m *MockMetrics) RecordGauge(metric string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gauges[metric] = append(m.Gauges[metric], value)
}

// RecordHistogram implements ports.MetricsCollector.
func (m *MockMetrics) RecordHistogram(metric string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Histograms[metric] = append(m.Histograms[metric], value)
}

// GaugeHistory returns a copy of the recorded values for a gauge.
func (m *MockMetrics) GaugeHistory(metric string) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	history := make([]float64, len(m.Gauges[metric]))
	copy(history, m.Gauges[metric])
	return history
}
