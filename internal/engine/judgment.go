package engine

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ahrav/go-sequent/internal/domain"
)

// Judgment is a named relation over typed inputs, proven by an ordered
// list of rules. The input type I is the judgment's argument tuple and
// must carry value semantics: two inputs compare equal iff all
// components compare equal. The output type O is the judgment's common
// output representation.
//
// A judgment is declared once, validated, and is then safe to evaluate
// any number of times; evaluation state lives on the Run, never on the
// judgment itself.
type Judgment[I comparable, O comparable] struct {
	name string

	// debug selects the input fields attached to the judgment's tracing
	// span. Correlation only; no semantic effect.
	debug func(I) []attribute.KeyValue

	// render produces the diagnostic form of a call, e.g. `isEven(3)`.
	render func(I) string

	// preconditions are fatal assertions checked once per call.
	preconditions []precondition[I]

	// trivial fast paths short-circuit the rule engine entirely.
	trivial []fastPath[I, O]

	rules []Rule[I, O]
}

type precondition[I any] struct {
	expr  string
	check func(I) bool
}

type fastPath[I, O any] struct {
	expr   string
	when   func(I) bool
	result func(I) O
}

// NewJudgment declares a judgment with the given name. Rules, fast
// paths, and preconditions are attached afterwards; the declaration is
// complete once every AddRule call has succeeded.
func NewJudgment[I comparable, O comparable](name string) *Judgment[I, O] {
	j := &Judgment[I, O]{name: name}
	j.render = func(input I) string { return fmt.Sprintf("%s(%v)", name, input) }
	return j
}

// Name returns the judgment's declared name.
func (j *Judgment[I, O]) Name() string { return j.name }

// WithDebug sets the input fields attached to the judgment's tracing
// span. The selection is caller-chosen and observability-only.
func (j *Judgment[I, O]) WithDebug(fields func(I) []attribute.KeyValue) *Judgment[I, O] {
	j.debug = fields
	return j
}

// WithRender overrides the diagnostic rendering of a judgment call.
func (j *Judgment[I, O]) WithRender(render func(I) string) *Judgment[I, O] {
	j.render = render
	return j
}

// Assert attaches a fatal precondition. A violated precondition is a
// programming error in the caller, not a recoverable judgment failure:
// evaluation panics immediately.
func (j *Judgment[I, O]) Assert(expr string, check func(I) bool) *Judgment[I, O] {
	j.preconditions = append(j.preconditions, precondition[I]{expr: expr, check: check})
	return j
}

// Trivial attaches a fast path checked before any rule runs. When the
// condition holds, the judgment immediately returns a single-element
// proven set without consulting rules or the fixed-point machinery.
func (j *Judgment[I, O]) Trivial(expr string, when func(I) bool, result func(I) O) *Judgment[I, O] {
	j.trivial = append(j.trivial, fastPath[I, O]{expr: expr, when: when, result: result})
	return j
}

// AddRule appends a rule to the judgment's ordered rule list, validating
// the declaration first.
func (j *Judgment[I, O]) AddRule(r Rule[I, O]) error {
	if err := r.validate(); err != nil {
		return fmt.Errorf("judgment %q: %w", j.name, err)
	}
	for _, existing := range j.rules {
		if existing.Name == r.Name {
			return fmt.Errorf("judgment %q: duplicate rule name %q", j.name, r.Name)
		}
	}
	j.rules = append(j.rules, r)
	return nil
}

// MustAddRule is AddRule for declaration sites where a malformed rule is
// unrecoverable, typically package-level judgment construction.
func (j *Judgment[I, O]) MustAddRule(r Rule[I, O]) *Judgment[I, O] {
	if err := j.AddRule(r); err != nil {
		panic(err)
	}
	return j
}

// Apply evaluates the judgment for input, returning either the proven
// output set or a failure report naming every relevant partially matched
// rule. Evaluation is synchronous and single-threaded; re-entrant calls
// with the same input made by the rules themselves are resolved by the
// run's fixed-point machinery instead of recursing forever.
//
// The context propagates tracing spans only; the engine has no
// cancellation points mid-proof.
func (j *Judgment[I, O]) Apply(ctx context.Context, run *Run, input I) domain.Outcome[O] {
	for _, pre := range j.preconditions {
		if !pre.check(input) {
			panic(fmt.Sprintf("engine: precondition `%s` violated for %s", pre.expr, j.render(input)))
		}
	}

	for _, fast := range j.trivial {
		if fast.when(input) {
			run.logger.Debug("trivial fast path taken",
				zap.String("judgment", j.name),
				zap.String("condition", fast.expr),
			)
			return domain.ProvenValues(fast.result(input))
		}
	}

	start := time.Now()
	rec := &failureRecorder{judgment: j.name}
	output := fixedPoint(ctx, run, j, input, func(ctx context.Context, input I) domain.Set[O] {
		rec.reset()
		return j.round(ctx, run, input, rec)
	})

	var outcome domain.Outcome[O]
	status := "proven"
	if output.IsEmpty() {
		status = "unproven"
		outcome = domain.Unproven[O](domain.NewFailedJudgment(j.render(input), rec.rules))
	} else {
		outcome = domain.Proven(output)
	}

	if run.metrics != nil {
		labels := map[string]string{"judgment": j.name, "status": status}
		run.metrics.RecordCounter("judgment_evaluations_total", 1, labels)
		run.metrics.RecordLatency("judgment_evaluation", time.Since(start), labels)
	}
	return outcome
}

// round evaluates every rule once against input, producing the candidate
// output set for the current fixed-point round. Failures recorded here
// survive only if this turns out to be the final round.
func (j *Judgment[I, O]) round(ctx context.Context, run *Run, input I, rec *failureRecorder) domain.Set[O] {
	output := domain.NewSet[O]()
	frame := Frame{Ctx: ctx, Run: run, Scope: NewScope()}
	for _, rule := range j.rules {
		rule.eval(frame, j.name, input, output, rec)
	}
	return output
}

// failureRecorder accumulates the failed-rule diagnostics of a single
// evaluation round, applying each rule's commit-point filter.
type failureRecorder struct {
	judgment string
	rules    []domain.FailedRule
}

func (rec *failureRecorder) reset() { rec.rules = rec.rules[:0] }

func (rec *failureRecorder) record(f Frame, name string, commit, step int, src domain.Source, cause domain.FailureCause) {
	if step < commit {
		// Pre-commit failures are exploratory and deliberately not
		// surfaced, not even as trace candidates.
		f.Run.logger.Debug("suppressed pre-commit rule failure",
			zap.String("judgment", rec.judgment),
			zap.String("rule", name),
			zap.Int("step", step),
			zap.Stringer("cause", cause),
		)
		return
	}
	f.Run.logger.Debug("rule failed",
		zap.String("judgment", rec.judgment),
		zap.String("rule", name),
		zap.Int("step", step),
		zap.String("source", src.String()),
		zap.Stringer("cause", cause),
	)
	if f.Run.metrics != nil {
		f.Run.metrics.RecordCounter("judgment_rule_failures_total", 1, map[string]string{
			"judgment": rec.judgment,
			"rule":     name,
		})
	}
	rec.rules = append(rec.rules, domain.FailedRule{
		RuleName:  name,
		StepIndex: step,
		Source:    src,
		Cause:     cause,
	})
}
