// Package observability provides the engine's metrics integration.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-sequent/internal/ports"
)

// Compile-time verification that PrometheusMetrics implements
// MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It exposes the engine's evaluation counters, rule-failure
// counts, fixed-point convergence behavior, and evaluation latency.
type PrometheusMetrics struct {
	evaluationsTotal  *prometheus.CounterVec
	ruleFailures      *prometheus.CounterVec
	goalProofs        *prometheus.CounterVec
	evaluationLatency *prometheus.HistogramVec
	fixedPointRounds  *prometheus.HistogramVec
	stackDepth        *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a collector registered in the default
// Prometheus registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	return NewPrometheusMetricsWith(prometheus.DefaultRegisterer)
}

// NewPrometheusMetricsWith creates a collector registered in the given
// registry. Tests use a throwaway registry to avoid duplicate
// registration across constructions.
func NewPrometheusMetricsWith(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		evaluationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "judgment_evaluations_total",
				Help: "Total number of judgment evaluations by outcome status.",
			},
			[]string{"judgment", "status"},
		),
		ruleFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "judgment_rule_failures_total",
				Help: "Total number of recorded (post-commit-point) rule failures.",
			},
			[]string{"judgment", "rule"},
		),
		goalProofs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goal_proofs_total",
				Help: "Total number of knowledge-base goal proofs by disposition.",
			},
			[]string{"disposition"},
		),
		evaluationLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "judgment_evaluation_duration_seconds",
				Help:    "Wall-clock time of judgment evaluations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "judgment"},
		),
		fixedPointRounds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "judgment_fixed_point_rounds",
				Help:    "Number of rounds a judgment needed to reach its fixed point.",
				Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
			},
			[]string{"judgment"},
		),
		stackDepth: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "judgment_call_stack_depth",
				Help: "Depth of the per-judgment call stack at entry.",
			},
			[]string{"judgment"},
		),
	}
}

func judgmentLabel(labels map[string]string) string {
	if j, ok := labels["judgment"]; ok && j != "" {
		return j
	}
	return "unknown"
}

// RecordLatency implements the MetricsCollector interface by recording
// evaluation latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string, duration time.Duration, labels map[string]string,
) {
	pm.evaluationLatency.WithLabelValues(operation, judgmentLabel(labels)).
		Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by routing
// engine counters to their metric-specific vectors.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case "judgment_evaluations_total":
		status := labels["status"]
		if status == "" {
			status = "unknown"
		}
		pm.evaluationsTotal.WithLabelValues(judgmentLabel(labels), status).Add(value)
	case "judgment_rule_failures_total":
		rule := labels["rule"]
		if rule == "" {
			rule = "unknown"
		}
		pm.ruleFailures.WithLabelValues(judgmentLabel(labels), rule).Add(value)
	case "goal_proofs_total":
		disposition := labels["disposition"]
		if disposition == "" {
			disposition = "unknown"
		}
		pm.goalProofs.WithLabelValues(disposition).Add(value)
	default:
		// Unknown counters fold into the evaluation counter under their
		// metric name so they remain visible rather than silently lost.
		pm.evaluationsTotal.WithLabelValues(judgmentLabel(labels), metric).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	// The engine's only gauge is stack depth; route everything there,
	// keyed by judgment.
	_ = metric
	pm.stackDepth.WithLabelValues(judgmentLabel(labels)).Set(value)
}

// RecordHistogram implements the MetricsCollector interface.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case "judgment_fixed_point_rounds":
		pm.fixedPointRounds.WithLabelValues(judgmentLabel(labels)).Observe(value)
	default:
		pm.evaluationLatency.WithLabelValues(metric, judgmentLabel(labels)).Observe(value)
	}
}
