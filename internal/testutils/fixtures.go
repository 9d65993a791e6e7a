package testutils

import (
	"go.opentelemetry.io/otel/attribute"

	"github.com/ahrav/go-sequent/internal/engine"
)

// NewParityJudgment builds the evenness judgment used throughout the
// engine's tests:
//
//	is-even-zero:  (n == 0)             ⊢ isEven(0)
//	is-even-succ:  (n >= 2) (isEven(n-2) => _) ⊢ isEven(n)
//
// Even inputs prove to the single-element set {n}; odd or negative
// inputs fail with causes attributed to both rules at every recursion
// level.
func NewParityJudgment() *engine.Judgment[int, int] {
	j := engine.NewJudgment[int, int]("isEven").
		WithDebug(func(n int) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.Int("n", n)}
		})

	j.MustAddRule(engine.Rule[int, int]{
		Name:  "is-even-zero",
		Match: engine.BindInput[int]("n"),
		Conditions: []engine.Condition{
			engine.If("n == 0", func(f engine.Frame) bool {
				return engine.Value[int](f.Scope, "n") == 0
			}),
		},
		Conclude: func(f engine.Frame) int {
			return engine.Value[int](f.Scope, "n")
		},
	})

	j.MustAddRule(engine.Rule[int, int]{
		Name:  "is-even-succ",
		Match: engine.BindInput[int]("n"),
		Conditions: []engine.Condition{
			engine.If("n >= 2", func(f engine.Frame) bool {
				return engine.Value[int](f.Scope, "n") >= 2
			}),
			engine.Each("_", "isEven(n - 2)", func(f engine.Frame) (engine.Seq, error) {
				n := engine.Value[int](f.Scope, "n")
				return engine.FromOutcome(j.Apply(f.Ctx, f.Run, n-2))
			}),
		},
		Conclude: func(f engine.Frame) int {
			return engine.Value[int](f.Scope, "n")
		},
	})

	return j
}

// NewCountdownJudgment builds a self-recursive judgment with a strictly
// decreasing input and a trivial base case; it must converge for any
// non-negative input.
func NewCountdownJudgment() *engine.Judgment[int, int] {
	j := engine.NewJudgment[int, int]("countdown").
		Assert("n >= 0", func(n int) bool { return n >= 0 })

	j.MustAddRule(engine.Rule[int, int]{
		Name:  "countdown-zero",
		Match: engine.BindInput[int]("n"),
		Conditions: []engine.Condition{
			engine.If("n == 0", func(f engine.Frame) bool {
				return engine.Value[int](f.Scope, "n") == 0
			}),
		},
		Conclude: func(f engine.Frame) int { return 0 },
	})

	j.MustAddRule(engine.Rule[int, int]{
		Name:  "countdown-step",
		Match: engine.BindInput[int]("n"),
		Conditions: []engine.Condition{
			engine.If("n > 0", func(f engine.Frame) bool {
				return engine.Value[int](f.Scope, "n") > 0
			}),
			engine.Each("_", "countdown(n - 1)", func(f engine.Frame) (engine.Seq, error) {
				n := engine.Value[int](f.Scope, "n")
				return engine.FromOutcome(j.Apply(f.Ctx, f.Run, n-1))
			}),
		},
		Conclude: func(f engine.Frame) int {
			return engine.Value[int](f.Scope, "n")
		},
	})

	return j
}

// NewReachabilityJudgment builds the transitive closure of the given
// edge relation. The graph may be cyclic; resolving it exercises the
// coinductive fixed-point machinery, since reach(a) on a cycle re-enters
// reach(a) and must converge instead of recursing forever.
func NewReachabilityJudgment(edges map[string][]string) *engine.Judgment[string, string] {
	j := engine.NewJudgment[string, string]("reach")

	j.MustAddRule(engine.Rule[string, string]{
		Name:  "reach-edge",
		Match: engine.BindInput[string]("x"),
		Conditions: []engine.Condition{
			engine.Each("y", "edges(x)", func(f engine.Frame) (engine.Seq, error) {
				return engine.Items(edges[engine.Value[string](f.Scope, "x")]), nil
			}),
		},
		Conclude: func(f engine.Frame) string {
			return engine.Value[string](f.Scope, "y")
		},
	})

	j.MustAddRule(engine.Rule[string, string]{
		Name:  "reach-transitive",
		Match: engine.BindInput[string]("x"),
		Conditions: []engine.Condition{
			engine.Each("y", "edges(x)", func(f engine.Frame) (engine.Seq, error) {
				return engine.Items(edges[engine.Value[string](f.Scope, "x")]), nil
			}),
			engine.Each("z", "reach(y)", func(f engine.Frame) (engine.Seq, error) {
				return engine.FromOutcome(j.Apply(f.Ctx, f.Run, engine.Value[string](f.Scope, "y")))
			}),
		},
		Conclude: func(f engine.Frame) string {
			return engine.Value[string](f.Scope, "z")
		},
	})

	return j
}
