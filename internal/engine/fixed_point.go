package engine

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-sequent/internal/domain"
)

// fixedPointStack tracks the inputs of one judgment kind that are
// currently being evaluated, each with its best-known approximation of
// the output set. Entries live only for the duration of an in-progress
// evaluation, including nested re-entries; the stack is empty again once
// the outermost call returns.
type fixedPointStack[I comparable, O comparable] struct {
	entries []fixedPointEntry[I, O]
	index   map[I]int
}

type fixedPointEntry[I comparable, O comparable] struct {
	input I
	value domain.Set[O]
}

func newFixedPointStack[I comparable, O comparable]() *fixedPointStack[I, O] {
	return &fixedPointStack[I, O]{index: make(map[I]int)}
}

// approximation returns the current approximation for input if input is
// on the stack, i.e. a call further up the chain is still evaluating it.
func (s *fixedPointStack[I, O]) approximation(input I) (domain.Set[O], bool) {
	i, ok := s.index[input]
	if !ok {
		return domain.Set[O]{}, false
	}
	return s.entries[i].value, true
}

// push records input with an initial approximation of the empty set.
func (s *fixedPointStack[I, O]) push(input I) {
	if _, ok := s.index[input]; ok {
		panic(fmt.Sprintf("engine: input %v pushed twice onto fixed-point stack", input))
	}
	s.index[input] = len(s.entries)
	s.entries = append(s.entries, fixedPointEntry[I, O]{input: input, value: domain.NewSet[O]()})
}

// update replaces the stored approximation for input in place, so
// recursive re-entries during the next round observe the latest value.
func (s *fixedPointStack[I, O]) update(input I, value domain.Set[O]) {
	i, ok := s.index[input]
	if !ok {
		panic(fmt.Sprintf("engine: update for input %v not on fixed-point stack", input))
	}
	s.entries[i].value = value
}

// pop removes input, which must be the top of the stack, and returns its
// converged value.
func (s *fixedPointStack[I, O]) pop(input I) domain.Set[O] {
	top := len(s.entries) - 1
	if top < 0 || s.entries[top].input != input {
		panic(fmt.Sprintf("engine: pop for input %v does not match stack top", input))
	}
	value := s.entries[top].value
	s.entries = s.entries[:top]
	delete(s.index, input)
	return value
}

func (s *fixedPointStack[I, O]) depth() int { return len(s.entries) }

// fixedPoint resolves a judgment call through least-fixed-point (Kleene)
// iteration over a monotonically growing output set.
//
// A re-entrant call, i.e. one whose exact input is already on this
// judgment's stack, returns the current approximation instead of
// recursing; that is what breaks cycles. Otherwise the input is pushed
// with an empty approximation and the rule set is evaluated repeatedly:
// a round whose candidate set equals the stored approximation has
// converged, and the candidate of every earlier round replaces the
// approximation for the next one.
//
// Termination is guaranteed only when the output domain reachable from
// input is finite; that is a rule-author obligation the engine does not
// enforce.
func fixedPoint[I comparable, O comparable](
	ctx context.Context,
	run *Run,
	j *Judgment[I, O],
	input I,
	next func(ctx context.Context, input I) domain.Set[O],
) domain.Set[O] {
	stack := stackFor(run, j)

	if approx, ok := stack.approximation(input); ok {
		// Cyclic call: answer with what we know so far.
		return approx.Clone()
	}

	opts := []trace.SpanStartOption{}
	if j.debug != nil {
		opts = append(opts, trace.WithAttributes(j.debug(input)...))
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, j.name, opts...)
	defer span.End()

	stack.push(input)
	if run.metrics != nil {
		run.metrics.RecordGauge("judgment_call_stack_depth", float64(stack.depth()),
			map[string]string{"judgment": j.name})
	}

	rounds := 0
	for {
		rounds++
		candidate := next(ctx, input)

		current, ok := stack.approximation(input)
		if !ok {
			panic(fmt.Sprintf("engine: input %v vanished from fixed-point stack", input))
		}
		if candidate.Equal(current) {
			break
		}
		stack.update(input, candidate)
	}

	output := stack.pop(input)
	if run.metrics != nil {
		// Re-record after the pop so the gauge tracks the live depth
		// instead of sticking at the high-water mark.
		run.metrics.RecordGauge("judgment_call_stack_depth", float64(stack.depth()),
			map[string]string{"judgment": j.name})
		run.metrics.RecordHistogram("judgment_fixed_point_rounds", float64(rounds),
			map[string]string{"judgment": j.name})
	}
	if output.IsEmpty() {
		span.SetStatus(codes.Error, "judgment unproven")
	} else {
		span.SetStatus(codes.Ok, "judgment proven")
	}
	return output
}
