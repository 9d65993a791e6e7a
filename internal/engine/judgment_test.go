package engine_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-sequent/internal/domain"
	"github.com/ahrav/go-sequent/internal/engine"
	"github.com/ahrav/go-sequent/internal/ports"
	"github.com/ahrav/go-sequent/internal/testutils"
)

// TestParity_EvenInput verifies the canonical recursion scenario: for
// n=4 the evaluation visits 4, 2, 0, proves the base case, and unwinds
// to the single-element proven set {4}.
func TestParity_EvenInput(t *testing.T) {
	j := testutils.NewParityJudgment()

	outcome := j.Apply(context.Background(), engine.NewRun(), 4)

	require.True(t, outcome.IsProven())
	assert.True(t, outcome.MustOutputs().Equal(domain.NewSet(4)))
}

// TestParity_OddInput verifies failure reporting for n=3: both rules
// fail, the base case with a false condition and the recursive rule with
// an iteration error whose cause chains down to isEven(1).
func TestParity_OddInput(t *testing.T) {
	j := testutils.NewParityJudgment()

	outcome := j.Apply(context.Background(), engine.NewRun(), 3)

	require.False(t, outcome.IsProven())
	failure := outcome.Failure()
	require.NotNil(t, failure)
	assert.Equal(t, "isEven(3)", failure.Judgment)
	require.Len(t, failure.Rules, 2)

	// Deterministic ordering: is-even-succ sorts before is-even-zero.
	succ, zero := failure.Rules[0], failure.Rules[1]

	assert.Equal(t, "is-even-zero", zero.RuleName)
	require.IsType(t, domain.ConditionFalse{}, zero.Cause)
	assert.Equal(t, "n == 0", zero.Cause.(domain.ConditionFalse).Expr)

	assert.Equal(t, "is-even-succ", succ.RuleName)
	assert.Equal(t, 1, succ.StepIndex, "the iteration is the second condition")
	iterErr, ok := succ.Cause.(domain.IterationError)
	require.True(t, ok)

	var nested *domain.FailedJudgment
	require.True(t, errors.As(iterErr.Err, &nested))
	assert.Equal(t, "isEven(1)", nested.Judgment)
	assert.Contains(t, failure.Error(), "isEven(1)",
		"the report should chain the nested failure")
}

// TestParity_Determinism verifies that repeated evaluation of equal
// inputs yields equal outcomes, both proven and failed.
func TestParity_Determinism(t *testing.T) {
	j := testutils.NewParityJudgment()

	provenA := j.Apply(context.Background(), engine.NewRun(), 6)
	provenB := j.Apply(context.Background(), engine.NewRun(), 6)
	require.True(t, provenA.IsProven())
	assert.Empty(t, cmp.Diff(provenA.MustOutputs().Items(), provenB.MustOutputs().Items()))

	failedA := j.Apply(context.Background(), engine.NewRun(), 5)
	failedB := j.Apply(context.Background(), engine.NewRun(), 5)
	require.False(t, failedA.IsProven())
	assert.Empty(t, cmp.Diff(failedA.Failure().Error(), failedB.Failure().Error()))
}

// TestStackDepthGauge_ReturnsToZero verifies that the call-stack depth
// gauge is recorded on both entry and exit, so it reports the live depth
// rather than sticking at the evaluation's high-water mark.
func TestStackDepthGauge_ReturnsToZero(t *testing.T) {
	j := testutils.NewParityJudgment()
	metrics := testutils.NewMockMetrics()

	outcome := j.Apply(context.Background(), engine.NewRun(engine.WithMetrics(metrics)), 4)
	require.True(t, outcome.IsProven())

	history := metrics.GaugeHistory("judgment_call_stack_depth")
	require.NotEmpty(t, history)

	var max float64
	for _, depth := range history {
		if depth > max {
			max = depth
		}
	}
	assert.GreaterOrEqual(t, max, 2.0,
		"the recursion through isEven(4) should nest the stack")
	assert.Zero(t, history[len(history)-1],
		"the stack should be empty once the outermost call returns")
}

// TestCountdown_Converges verifies fixed-point convergence for a
// self-recursive judgment with a strictly decreasing input and a base
// case.
func TestCountdown_Converges(t *testing.T) {
	j := testutils.NewCountdownJudgment()

	outcome := j.Apply(context.Background(), engine.NewRun(), 5)

	require.True(t, outcome.IsProven())
	assert.True(t, outcome.MustOutputs().Equal(domain.NewSet(5)))
}

// TestCountdown_AssertViolation verifies that a violated precondition is
// fatal rather than a recoverable failure.
func TestCountdown_AssertViolation(t *testing.T) {
	j := testutils.NewCountdownJudgment()

	assert.Panics(t, func() {
		j.Apply(context.Background(), engine.NewRun(), -1)
	})
}

// TestReachability_CyclicGraph verifies coinductive cycle resolution:
// proving reach(a) on the cycle a -> b -> a re-enters reach(a) and must
// converge to the transitive closure instead of recursing forever. A
// node feeding into the cycle reaches every cycle member but, with no
// inbound edge of its own, never itself.
func TestReachability_CyclicGraph(t *testing.T) {
	j := testutils.NewReachabilityJudgment(map[string][]string{
		"a": {"b"},
		"b": {"a"},
		"c": {"a"},
	})

	outcome := j.Apply(context.Background(), engine.NewRun(), "a")
	require.True(t, outcome.IsProven())
	assert.True(t, outcome.MustOutputs().Equal(domain.NewSet("a", "b")))

	outcome = j.Apply(context.Background(), engine.NewRun(), "c")
	require.True(t, outcome.IsProven())
	assert.True(t, outcome.MustOutputs().Equal(domain.NewSet("a", "b")),
		"c feeds the cycle but is not reachable from it")
}

// TestReachability_NodeOnItsOwnCycle verifies that a node with an
// inbound path from its own successors proves reachability to itself.
func TestReachability_NodeOnItsOwnCycle(t *testing.T) {
	j := testutils.NewReachabilityJudgment(map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {"a"},
	})

	outcome := j.Apply(context.Background(), engine.NewRun(), "c")
	require.True(t, outcome.IsProven())
	assert.True(t, outcome.MustOutputs().Equal(domain.NewSet("a", "b", "c")))
}

// TestReachability_DeadEnd verifies that a node without edges is simply
// unproven.
func TestReachability_DeadEnd(t *testing.T) {
	j := testutils.NewReachabilityJudgment(map[string][]string{"a": {"b"}})

	outcome := j.Apply(context.Background(), engine.NewRun(), "b")
	assert.False(t, outcome.IsProven())
}

// commitVariant builds a judgment with a single rule that fails at its
// first condition, with the commit point at the given index.
func commitVariant(commit int) *engine.Judgment[int, int] {
	j := engine.NewJudgment[int, int]("guarded")
	j.MustAddRule(engine.Rule[int, int]{
		Name:   "guarded-rule",
		Commit: commit,
		Conditions: []engine.Condition{
			engine.If("input < 0", func(f engine.Frame) bool {
				return engine.Value[int](f.Scope, "input") < 0
			}),
			engine.If("true", func(engine.Frame) bool { return true }),
		},
		Conclude: func(f engine.Frame) int {
			return engine.Value[int](f.Scope, "input")
		},
	})
	return j
}

// TestCommitPoint_Suppression verifies that a failure strictly before
// the commit point is suppressed from diagnostics while the outcome's
// proven/failed status is unchanged.
func TestCommitPoint_Suppression(t *testing.T) {
	reported := commitVariant(0).Apply(context.Background(), engine.NewRun(), 7)
	suppressed := commitVariant(1).Apply(context.Background(), engine.NewRun(), 7)

	require.False(t, reported.IsProven())
	require.False(t, suppressed.IsProven())

	assert.Len(t, reported.Failure().Rules, 1,
		"with the default commit point the failure is reported")
	assert.Empty(t, suppressed.Failure().Rules,
		"a pre-commit failure must not appear in diagnostics")
}

// TestOutputSet_DeduplicationAcrossRules verifies that two rules
// concluding the same value contribute a single set element.
func TestOutputSet_DeduplicationAcrossRules(t *testing.T) {
	j := engine.NewJudgment[int, int]("normalize")
	for _, name := range []string{"first", "second"} {
		j.MustAddRule(engine.Rule[int, int]{
			Name: name,
			Conclude: func(f engine.Frame) int {
				return engine.Value[int](f.Scope, "input") * 2
			},
		})
	}

	outcome := j.Apply(context.Background(), engine.NewRun(), 3)

	require.True(t, outcome.IsProven())
	assert.Equal(t, 1, outcome.MustOutputs().Len())
	assert.True(t, outcome.MustOutputs().Contains(6))
}

// TestTrivialFastPath_BypassesRules verifies that a satisfied trivial
// condition returns immediately without consulting any rule.
func TestTrivialFastPath_BypassesRules(t *testing.T) {
	rulesConsulted := false
	j := engine.NewJudgment[int, int]("shortcut").
		Trivial("input == 0", func(n int) bool { return n == 0 }, func(n int) int { return n })
	j.MustAddRule(engine.Rule[int, int]{
		Name: "never-reached",
		Conditions: []engine.Condition{
			engine.If("record", func(engine.Frame) bool {
				rulesConsulted = true
				return true
			}),
		},
		Conclude: func(f engine.Frame) int {
			return engine.Value[int](f.Scope, "input")
		},
	})

	outcome := j.Apply(context.Background(), engine.NewRun(), 0)

	require.True(t, outcome.IsProven())
	assert.True(t, outcome.MustOutputs().Equal(domain.NewSet(0)))
	assert.False(t, rulesConsulted, "trivial fast paths must bypass the rule engine")
}

// TestIfLet_PatternBindingsAndMismatch verifies the pattern condition:
// a matching variant binds and concludes, a mismatching one records a
// pattern-mismatch cause carrying the rendered value.
func TestIfLet_PatternBindingsAndMismatch(t *testing.T) {
	values := map[string]any{"a": 41, "b": "not a number"}

	j := engine.NewJudgment[string, string]("describe")
	j.MustAddRule(engine.Rule[string, string]{
		Name:  "describe-int",
		Match: engine.BindInput[string]("key"),
		Conditions: []engine.Condition{
			engine.Let("raw", func(f engine.Frame) any {
				return values[engine.Value[string](f.Scope, "key")]
			}),
			engine.IfLet("Int(v)", func(f engine.Frame) any {
				return engine.Value[any](f.Scope, "raw")
			}, func(v any) (map[string]any, bool) {
				n, ok := domain.Narrow[int](v)
				if !ok {
					return nil, false
				}
				return map[string]any{"v": n}, true
			}),
		},
		Conclude: func(f engine.Frame) string {
			return fmt.Sprintf("int:%d", engine.Value[int](f.Scope, "v")+1)
		},
	})

	proven := j.Apply(context.Background(), engine.NewRun(), "a")
	require.True(t, proven.IsProven())
	assert.True(t, proven.MustOutputs().Contains("int:42"))

	failed := j.Apply(context.Background(), engine.NewRun(), "b")
	require.False(t, failed.IsProven())
	require.Len(t, failed.Failure().Rules, 1)
	cause, ok := failed.Failure().Rules[0].Cause.(domain.PatternMismatch)
	require.True(t, ok)
	assert.Equal(t, "Int(v)", cause.Pattern)
	assert.Equal(t, "not a number", cause.Value)
	assert.Equal(t, 1, failed.Failure().Rules[0].StepIndex,
		"the let condition counts as a completed step")
}

// TestEach_AbsentOptional verifies the iteration-source-error cause for
// an optional that held no value.
func TestEach_AbsentOptional(t *testing.T) {
	j := engine.NewJudgment[int, int]("fromOptional")
	j.MustAddRule(engine.Rule[int, int]{
		Name: "optional-rule",
		Conditions: []engine.Condition{
			engine.Each("v", "lookup(input)", func(engine.Frame) (engine.Seq, error) {
				return engine.FromOptional(0, false)
			}),
		},
		Conclude: func(f engine.Frame) int {
			return engine.Value[int](f.Scope, "v")
		},
	})

	outcome := j.Apply(context.Background(), engine.NewRun(), 1)

	require.False(t, outcome.IsProven())
	require.Len(t, outcome.Failure().Rules, 1)
	cause, ok := outcome.Failure().Rules[0].Cause.(domain.IterationError)
	require.True(t, ok)
	assert.ErrorIs(t, cause.Err, ports.ErrAbsentValue)
}

// TestEach_ForksPerElement verifies the nested-loop semantics: one rule
// with two iteration conditions contributes the full cross product.
func TestEach_ForksPerElement(t *testing.T) {
	j := engine.NewJudgment[int, int]("pairs")
	j.MustAddRule(engine.Rule[int, int]{
		Name: "cross",
		Conditions: []engine.Condition{
			engine.Each("x", "[1, 2]", func(engine.Frame) (engine.Seq, error) {
				return engine.Items([]int{1, 2}), nil
			}),
			engine.Each("y", "[10, 20]", func(engine.Frame) (engine.Seq, error) {
				return engine.Items([]int{10, 20}), nil
			}),
		},
		Conclude: func(f engine.Frame) int {
			return engine.Value[int](f.Scope, "x") + engine.Value[int](f.Scope, "y")
		},
	})

	outcome := j.Apply(context.Background(), engine.NewRun(), 0)

	require.True(t, outcome.IsProven())
	assert.True(t, outcome.MustOutputs().Equal(domain.NewSet(11, 21, 12, 22)))
}

// TestRuleValidation verifies rejection of malformed rule declarations.
func TestRuleValidation(t *testing.T) {
	j := engine.NewJudgment[int, int]("strict")

	err := j.AddRule(engine.Rule[int, int]{Name: "no-conclusion"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrInvalidRule)

	err = j.AddRule(engine.Rule[int, int]{
		Name:     "bad-commit",
		Commit:   2,
		Conclude: func(engine.Frame) int { return 0 },
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrInvalidRule)

	require.NoError(t, j.AddRule(engine.Rule[int, int]{
		Name:     "ok",
		Conclude: func(engine.Frame) int { return 0 },
	}))
	err = j.AddRule(engine.Rule[int, int]{
		Name:     "ok",
		Conclude: func(engine.Frame) int { return 0 },
	})
	require.Error(t, err, "duplicate rule names must be rejected")
}
