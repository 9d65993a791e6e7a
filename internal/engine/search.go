package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/ahrav/go-sequent/internal/domain"
	"github.com/ahrav/go-sequent/internal/ports"
)

// Disposition classifies the result of a goal proof: proven, ambiguous,
// or unproven. Ambiguous is neither proven nor disproven; the
// surrounding system decides how to treat it.
type Disposition int

const (
	// DispositionProven means derivation succeeded with at least one
	// output.
	DispositionProven Disposition = iota
	// DispositionAmbiguous means the knowledge base forbade derivation
	// for this goal, typically because it contains unresolved inference
	// variables.
	DispositionAmbiguous
	// DispositionUnproven means derivation was attempted and no rule
	// succeeded.
	DispositionUnproven
)

// String returns the disposition name for logs and diagnostics.
func (d Disposition) String() string {
	switch d {
	case DispositionProven:
		return "proven"
	case DispositionAmbiguous:
		return "ambiguous"
	case DispositionUnproven:
		return "unproven"
	default:
		return "unknown"
	}
}

// GoalResult is the outcome of a knowledge-base-driven goal proof.
type GoalResult[G comparable] struct {
	Disposition Disposition

	// Outputs holds the proven goals when Disposition is
	// DispositionProven.
	Outputs domain.Set[G]

	// Failure holds the failure report when Disposition is
	// DispositionUnproven.
	Failure *domain.FailedJudgment
}

// Derivation attempts to prove a goal from the clauses and invariants
// the knowledge base supplies for it. ProgramClauses returns a superset;
// the derivation must re-check each clause's applicability.
type Derivation[G comparable] func(
	ctx context.Context,
	run *Run,
	clauses []ports.Clause,
	invariants []ports.Invariant,
) domain.Outcome[G]

// ProveGoal is the proof-search entry point that honors the knowledge
// base's ambiguity policy. When the handle forces the goal ambiguous,
// the result is DispositionAmbiguous and neither program clauses nor
// invariants are consulted; derivation must not be attempted for such
// goals. Otherwise the clauses and invariants for the goal are fetched
// and handed to derive.
func ProveGoal[G comparable](
	ctx context.Context,
	run *Run,
	handle ports.Handle,
	env any,
	goal any,
	derive Derivation[G],
) GoalResult[G] {
	if handle.ForceAmbiguous(env, goal) {
		run.logger.Debug("goal forced ambiguous",
			zap.Any("goal", goal),
			zap.Stringer("solver", handle.Configuration()),
		)
		if run.metrics != nil {
			run.metrics.RecordCounter("goal_proofs_total", 1,
				map[string]string{"disposition": DispositionAmbiguous.String()})
		}
		return GoalResult[G]{Disposition: DispositionAmbiguous}
	}

	clauses := handle.ProgramClauses(goal)
	invariants := handle.InvariantsFor(goal)
	outcome := derive(ctx, run, clauses, invariants)

	result := GoalResult[G]{}
	if outputs, err := outcome.Outputs(); err == nil {
		result.Disposition = DispositionProven
		result.Outputs = outputs
	} else {
		result.Disposition = DispositionUnproven
		result.Failure = outcome.Failure()
	}
	if run.metrics != nil {
		run.metrics.RecordCounter("goal_proofs_total", 1,
			map[string]string{"disposition": result.Disposition.String()})
	}
	return result
}
