package engine

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ahrav/go-sequent/internal/domain"
	"github.com/ahrav/go-sequent/internal/ports"
)

// Matcher matches a rule's declared conclusion pattern against the
// actual input tuple before any condition runs. It returns the bindings
// the pattern introduces and whether the rule is applicable at all.
// Component patterns requiring a narrowing coercion are composed by the
// author from domain.Narrow; a failed match means the rule never started
// and contributes no diagnostic.
type Matcher[I any] func(I) (map[string]any, bool)

// BindInput is the identity matcher: it always succeeds and binds the
// whole input tuple under the given name.
func BindInput[I any](name string) Matcher[I] {
	return func(input I) (map[string]any, bool) {
		return map[string]any{name: input}, true
	}
}

// Rule is an ordered conjunction of conditions culminating in a
// conclusion that contributes outputs. Rules are plain data; the engine
// interprets them in declaration order.
type Rule[I comparable, O comparable] struct {
	// Name identifies the rule in diagnostics and traces.
	Name string

	// Match is the top-level pattern against the input tuple. A nil
	// matcher is the identity binding: the input is bound under "input".
	Match Matcher[I]

	// Commit is the match commit point: failures at condition steps
	// strictly before this index are suppressed from diagnostics
	// entirely. The default of zero reports every failure.
	Commit int

	// Conditions is the ordered condition chain.
	Conditions []Condition

	// Conclude produces the rule's output for a binding that satisfied
	// every condition. The value is inserted into the judgment's output
	// set for the current round.
	Conclude func(Frame) O
}

// validate checks that the rule declaration is evaluable.
func (r Rule[I, O]) validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: rule name must not be empty", ports.ErrInvalidRule)
	}
	if r.Conclude == nil {
		return fmt.Errorf("%w: rule %q has no conclusion", ports.ErrInvalidRule, r.Name)
	}
	if r.Commit < 0 || r.Commit > len(r.Conditions) {
		return fmt.Errorf("%w: rule %q commit point %d outside conditions [0, %d]",
			ports.ErrInvalidRule, r.Name, r.Commit, len(r.Conditions))
	}
	for i, c := range r.Conditions {
		var ok bool
		switch c.kind {
		case condIf:
			ok = c.test != nil
		case condIfLet:
			ok = c.eval != nil && c.match != nil
		case condLet:
			ok = c.eval != nil && c.bind != ""
		case condEach:
			ok = c.iterate != nil && c.bind != ""
		}
		if !ok {
			return fmt.Errorf("%w: rule %q condition %d is incomplete",
				ports.ErrInvalidRule, r.Name, i)
		}
	}
	return nil
}

// eval applies the rule to the input for one evaluation round,
// inserting any concluded outputs into out and recording relevant
// failures into rec.
func (r Rule[I, O]) eval(f Frame, judgment string, input I, out domain.Set[O], rec *failureRecorder) {
	bindings, applicable := r.matchInput(input)
	if !applicable {
		// The rule never started; by contract this is not a failure.
		return
	}

	trace.SpanFromContext(f.Ctx).AddEvent("rule.matched", trace.WithAttributes(
		attribute.String("rule", r.Name),
	))
	f.Run.logger.Debug("matched rule",
		zap.String("judgment", judgment),
		zap.String("rule", r.Name),
	)

	r.walk(f.bindAll(bindings), judgment, 0, 0, out, rec)
}

func (r Rule[I, O]) matchInput(input I) (map[string]any, bool) {
	if r.Match == nil {
		return map[string]any{"input": input}, true
	}
	return r.Match(input)
}

// walk evaluates the condition chain from position cond under frame f.
// step counts satisfied conditions for diagnostics; iteration conditions
// fork the walk once per element.
func (r Rule[I, O]) walk(f Frame, judgment string, cond, step int, out domain.Set[O], rec *failureRecorder) {
	if cond == len(r.Conditions) {
		result := r.Conclude(f)
		f.Run.logger.Debug("produced output",
			zap.String("judgment", judgment),
			zap.String("rule", r.Name),
			zap.Any("output", result),
		)
		out.Insert(result)
		return
	}

	c := r.Conditions[cond]
	switch c.kind {
	case condIf:
		if c.test(f) {
			r.walk(f, judgment, cond+1, step+1, out, rec)
			return
		}
		rec.record(f, r.Name, r.Commit, step, c.source, domain.ConditionFalse{Expr: c.label})

	case condIfLet:
		value := domain.CloneValue(c.eval(f))
		bindings, ok := c.match(value)
		if ok {
			r.walk(f.bindAll(bindings), judgment, cond+1, step+1, out, rec)
			return
		}
		rec.record(f, r.Name, r.Commit, step, c.source, domain.PatternMismatch{
			Pattern: c.label,
			Value:   fmt.Sprintf("%v", value),
		})

	case condLet:
		r.walk(f.bind(c.bind, c.eval(f)), judgment, cond+1, step+1, out, rec)

	case condEach:
		seq, err := c.iterate(f)
		if err != nil {
			rec.record(f, r.Name, r.Commit, step, c.source, domain.IterationError{Expr: c.label, Err: err})
			return
		}
		step++
		for _, elem := range seq.Elements() {
			r.walk(f.bind(c.bind, elem), judgment, cond+1, step, out, rec)
		}
	}
}
