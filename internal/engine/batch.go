package engine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-sequent/internal/domain"
)

// batchOptions configures EvaluateAll.
type batchOptions struct {
	limit   int
	runOpts []RunOption
}

// BatchOption configures a batch evaluation.
type BatchOption func(*batchOptions)

// WithConcurrencyLimit caps the number of inputs evaluated at once.
// The default is twice the CPU count.
func WithConcurrencyLimit(limit int) BatchOption {
	return func(o *batchOptions) {
		if limit > 0 {
			o.limit = limit
		}
	}
}

// WithRunOptions forwards options to each per-input Run, e.g. a shared
// logger or metrics collector.
func WithRunOptions(opts ...RunOption) BatchOption {
	return func(o *batchOptions) { o.runOpts = append(o.runOpts, opts...) }
}

// EvaluateAll proves a judgment for many independent inputs
// concurrently. Every input gets its own Run, so the per-judgment call
// stacks of the evaluations are fully isolated; within each evaluation
// the engine's recursive, single-threaded discipline is unchanged.
//
// Results are returned in input order. The only error source is context
// cancellation between evaluations; an unproven input is an ordinary
// failed outcome, not an error.
func EvaluateAll[I comparable, O comparable](
	ctx context.Context,
	j *Judgment[I, O],
	inputs []I,
	opts ...BatchOption,
) ([]domain.Outcome[O], error) {
	options := batchOptions{limit: runtime.NumCPU() * 2}
	for _, opt := range opts {
		opt(&options)
	}

	results := make([]domain.Outcome[O], len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(options.limit)
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			run := NewRun(options.runOpts...)
			results[i] = j.Apply(ctx, run, input)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
