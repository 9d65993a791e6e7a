// Package ports defines the contracts between the judgment engine and
// its collaborators: the knowledge base that supplies clauses and
// invariants during proof search, and the observability sinks the engine
// reports into. These interfaces enable dependency inversion and make
// the engine testable against doubles.
package ports

import "fmt"

// Clause is a fact or implication usable to prove a predicate. Clauses
// flow through the engine as opaque, already-typed values; the engine
// only needs to render them for diagnostics.
type Clause interface {
	fmt.Stringer
}

// Invariant is a structural axiom associated with a goal shape.
// Like clauses, invariants are opaque to the engine.
type Invariant interface {
	fmt.Stringer
}

// KnowledgeBase supplies the clauses, invariants, and ambiguity policy
// consumed by rule conditions during proof search. Implementations are
// owned by the surrounding type system; the engine only reads.
//
// Implementations must be pointer types so a Handle wrapping them has a
// well-defined identity.
type KnowledgeBase interface {
	// ForceAmbiguous reports whether proof search for goal must not
	// attempt derivation and must report ambiguous instead. The goal may
	// contain unresolved inference variables; this is the mechanism that
	// bounds search in their presence.
	ForceAmbiguous(env any, goal any) bool

	// ProgramClauses returns a superset of the clauses usable to prove
	// the given predicate shape. Callers must re-check applicability of
	// each clause.
	ProgramClauses(predicate any) []Clause

	// InvariantsFor returns the structural axioms associated with the
	// given goal shape.
	InvariantsFor(goal any) []Invariant
}

// SolverConfiguration selects the overall proof strategy for a
// knowledge base handle.
type SolverConfiguration int

const (
	// SolverCoinductiveSLD is the co-inductive SLD resolution strategy.
	// It is currently the only strategy; the tag exists so handles can
	// carry alternatives without changing their equality semantics.
	SolverCoinductiveSLD SolverConfiguration = iota
)

// String returns the strategy name for logs and diagnostics.
func (c SolverConfiguration) String() string {
	switch c {
	case SolverCoinductiveSLD:
		return "coinductive-sld"
	default:
		return fmt.Sprintf("solver(%d)", int(c))
	}
}

// Handle is a shared reference to a knowledge base paired with a solver
// configuration. Handles compare equal only when they wrap the same
// underlying implementor (pointer identity) and the same configuration,
// which makes them usable as components of judgment input tuples.
type Handle struct {
	kb  KnowledgeBase
	cfg SolverConfiguration
}

// NewHandle wraps kb with the default solver configuration.
// kb must be a pointer type; handle equality is identity of the
// implementor.
func NewHandle(kb KnowledgeBase) Handle {
	if kb == nil {
		panic("ports: NewHandle called with a nil knowledge base")
	}
	return Handle{kb: kb, cfg: SolverCoinductiveSLD}
}

// WithConfiguration returns a copy of the handle carrying cfg.
// The copy is not equal to the original unless the configurations match.
func (h Handle) WithConfiguration(cfg SolverConfiguration) Handle {
	h.cfg = cfg
	return h
}

// Configuration returns the solver configuration tag.
func (h Handle) Configuration() SolverConfiguration { return h.cfg }

// ForceAmbiguous delegates to the wrapped knowledge base.
func (h Handle) ForceAmbiguous(env any, goal any) bool {
	return h.kb.ForceAmbiguous(env, goal)
}

// ProgramClauses delegates to the wrapped knowledge base.
func (h Handle) ProgramClauses(predicate any) []Clause {
	return h.kb.ProgramClauses(predicate)
}

// InvariantsFor delegates to the wrapped knowledge base.
func (h Handle) InvariantsFor(goal any) []Invariant {
	return h.kb.InvariantsFor(goal)
}

// String renders the handle by configuration only; the implementor is
// deliberately opaque.
func (h Handle) String() string {
	return fmt.Sprintf("Handle(%s)", h.cfg)
}
