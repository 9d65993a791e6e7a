package ports

import "time"

// MetricsCollector defines the interface for collecting operational
// metrics from the engine. Implementations should integrate with
// observability platforms like Prometheus or custom monitoring
// solutions; a nil collector disables metrics entirely.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	// This is useful for tracking events like evaluations, rule
	// failures, and cache hits.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric, such as the
	// depth of an in-progress call stack.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram, such as the number
	// of fixed-point rounds an evaluation needed to converge.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
