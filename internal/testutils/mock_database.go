// Package testutils provides test doubles and judgment fixtures shared
// by the engine's tests and benchmarks.
package testutils

import (
	"sync"

	"github.com/ahrav/go-sequent/internal/ports"
)

// StringClause is a clause rendered from plain text, sufficient for
// engine tests where clause content is opaque.
type StringClause string

// String implements ports.Clause.
func (c StringClause) String() string { return string(c) }

// StringInvariant is an invariant rendered from plain text.
type StringInvariant string

// String implements ports.Invariant.
func (i StringInvariant) String() string { return string(i) }

// MockDatabase is a configurable KnowledgeBase double that records every
// query made against it. Tests asserting the ambiguity short-circuit
// check that ClauseQueries and InvariantQueries stay at zero after
// forcing a goal ambiguous.
type MockDatabase struct {
	mu sync.Mutex

	// Ambiguous decides ForceAmbiguous; nil means never ambiguous.
	Ambiguous func(env any, goal any) bool
	// Clauses supplies ProgramClauses results; nil means none.
	Clauses func(predicate any) []ports.Clause
	// Invariants supplies InvariantsFor results; nil means none.
	Invariants func(goal any) []ports.Invariant

	// AmbiguityQueries counts ForceAmbiguous calls.
	AmbiguityQueries int
	// ClauseQueries counts ProgramClauses calls.
	ClauseQueries int
	// InvariantQueries counts InvariantsFor calls.
	InvariantQueries int
}

var _ ports.KnowledgeBase = (*MockDatabase)(nil)

// ForceAmbiguous implements ports.KnowledgeBase.
func (m *MockDatabase) ForceAmbiguous(env any, goal any) bool {
	m.mu.Lock()
	m.AmbiguityQueries++
	m.mu.Unlock()
	if m.Ambiguous == nil {
		return false
	}
	return m.Ambiguous(env, goal)
}

// ProgramClauses implements ports.KnowledgeBase.
func (m *MockDatabase) ProgramClauses(predicate any) []ports.Clause {
	m.mu.Lock()
	m.ClauseQueries++
	m.mu.Unlock()
	if m.Clauses == nil {
		return nil
	}
	return m.Clauses(predicate)
}

// InvariantsFor implements ports.KnowledgeBase.
func (m *MockDatabase) InvariantsFor(goal any) []ports.Invariant {
	m.mu.Lock()
	m.InvariantQueries++
	m.mu.Unlock()
	if m.Invariants == nil {
		return nil
	}
	return m.Invariants(goal)
}
