package engine

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ahrav/go-sequent/internal/ports"
)

// tracerName identifies the engine's spans to the tracing collector.
const tracerName = "sequent-engine"

// Run is the explicit evaluation context threaded through judgment
// calls. It owns one isolated call stack per judgment kind, which is the
// scoping that keeps recursive proof search for unrelated judgments from
// being conflated, plus the observability sinks for the evaluation.
//
// A Run models a single thread of synchronous, recursive evaluation and
// is not safe for concurrent use; concurrent callers create one Run per
// goroutine (see EvaluateAll).
type Run struct {
	id      string
	logger  *zap.Logger
	metrics ports.MetricsCollector

	// stacks maps judgment identity to that judgment's
	// *fixedPointStack[I, O]. The engine is the only writer.
	stacks map[any]any
}

// RunOption configures a Run.
type RunOption func(*Run)

// WithLogger attaches a structured logger for rule-level debug output.
// The default is a no-op logger.
func WithLogger(logger *zap.Logger) RunOption {
	return func(r *Run) { r.logger = logger }
}

// WithMetrics attaches a metrics collector for evaluation counters,
// latencies, and fixed-point round histograms. The default is none.
func WithMetrics(metrics ports.MetricsCollector) RunOption {
	return func(r *Run) { r.metrics = metrics }
}

// NewRun creates an evaluation context with a fresh correlation ID and
// empty call stacks.
func NewRun(opts ...RunOption) *Run {
	r := &Run{
		id:     uuid.NewString(),
		logger: zap.NewNop(),
		stacks: make(map[any]any),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(zap.String("run_id", r.id))
	return r
}

// ID returns the run's correlation identifier.
func (r *Run) ID() string { return r.id }

// stackFor returns the run's call stack for judgment j, creating it on
// first use. Each judgment kind gets its own stack; the judgment's
// identity is the declaration pointer.
func stackFor[I comparable, O comparable](r *Run, j *Judgment[I, O]) *fixedPointStack[I, O] {
	if s, ok := r.stacks[j]; ok {
		return s.(*fixedPointStack[I, O])
	}
	s := newFixedPointStack[I, O]()
	r.stacks[j] = s
	return s
}
