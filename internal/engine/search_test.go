package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-sequent/internal/domain"
	"github.com/ahrav/go-sequent/internal/engine"
	"github.com/ahrav/go-sequent/internal/ports"
	"github.com/ahrav/go-sequent/internal/testutils"
)

// TestProveGoal_AmbiguityShortCircuit verifies that a goal forced
// ambiguous is answered without consulting program clauses, invariants,
// or the derivation at all.
func TestProveGoal_AmbiguityShortCircuit(t *testing.T) {
	db := &testutils.MockDatabase{
		Ambiguous: func(any, any) bool { return true },
	}
	handle := ports.NewHandle(db)

	derived := false
	result := engine.ProveGoal(context.Background(), engine.NewRun(), handle,
		"env", "Eq(?X, u32)",
		func(context.Context, *engine.Run, []ports.Clause, []ports.Invariant) domain.Outcome[string] {
			derived = true
			return domain.ProvenValues("unreachable")
		})

	assert.Equal(t, engine.DispositionAmbiguous, result.Disposition)
	assert.False(t, derived, "derivation must not run for an ambiguous goal")
	assert.Equal(t, 1, db.AmbiguityQueries)
	assert.Zero(t, db.ClauseQueries, "program clauses must not be consulted")
	assert.Zero(t, db.InvariantQueries, "invariants must not be consulted")
}

// TestProveGoal_Derivation verifies the proven and unproven
// dispositions when derivation is allowed.
func TestProveGoal_Derivation(t *testing.T) {
	db := &testutils.MockDatabase{
		Clauses: func(any) []ports.Clause {
			return []ports.Clause{testutils.StringClause("even(0)"), testutils.StringClause("even(s(s(N))) :- even(N)")}
		},
		Invariants: func(any) []ports.Invariant {
			return []ports.Invariant{testutils.StringInvariant("even(N) => nat(N)")}
		},
	}
	handle := ports.NewHandle(db)

	result := engine.ProveGoal(context.Background(), engine.NewRun(), handle,
		"env", "even(4)",
		func(_ context.Context, _ *engine.Run, clauses []ports.Clause, invariants []ports.Invariant) domain.Outcome[string] {
			require.Len(t, clauses, 2, "the clause superset must be handed to the derivation")
			require.Len(t, invariants, 1)
			return domain.ProvenValues("even(4)")
		})

	require.Equal(t, engine.DispositionProven, result.Disposition)
	assert.True(t, result.Outputs.Contains("even(4)"))

	result = engine.ProveGoal(context.Background(), engine.NewRun(), handle,
		"env", "even(3)",
		func(context.Context, *engine.Run, []ports.Clause, []ports.Invariant) domain.Outcome[string] {
			return domain.Unproven[string](domain.NewFailedJudgment("even(3)", nil))
		})

	require.Equal(t, engine.DispositionUnproven, result.Disposition)
	require.NotNil(t, result.Failure)
	assert.Equal(t, "even(3)", result.Failure.Judgment)
}

// TestHandle_Equality verifies the identity-based equality semantics
// that make handles usable inside judgment input tuples. Handle equality
// is the language's == on the wrapped interface value, so the assertions
// use the operator directly; reflection-based equality would conflate
// distinct implementors whose fields happen to be equal.
func TestHandle_Equality(t *testing.T) {
	dbA := &testutils.MockDatabase{}
	dbB := &testutils.MockDatabase{}

	assert.True(t, ports.NewHandle(dbA) == ports.NewHandle(dbA),
		"handles wrapping the same implementor and configuration are equal")
	assert.False(t, ports.NewHandle(dbA) == ports.NewHandle(dbB),
		"handles wrapping distinct implementors differ even when their fields are equal")

	reconfigured := ports.NewHandle(dbA).WithConfiguration(ports.SolverConfiguration(1))
	assert.False(t, ports.NewHandle(dbA) == reconfigured,
		"the configuration tag participates in equality")

	// Handles must be usable as map keys, i.e. as input tuple components;
	// map membership is decided by the same identity semantics.
	seen := map[ports.Handle]bool{ports.NewHandle(dbA): true}
	assert.True(t, seen[ports.NewHandle(dbA)])
	assert.False(t, seen[ports.NewHandle(dbB)],
		"a handle over a different implementor is a different key")
}
