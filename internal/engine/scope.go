// Package engine implements the judgment evaluation core: ordered rule
// application with failure-cause tracking, commit points, and a
// coinductive fixed-point evaluator that resolves self-recursive
// judgments without infinite regress.
package engine

import (
	"context"
	"fmt"
)

// Scope is the immutable binding environment a rule's conditions evaluate
// in. Bind returns a new scope; existing scopes are never mutated, which
// is what lets an iteration condition fork one branch per element without
// the branches interfering.
type Scope struct {
	vars map[string]any
}

// NewScope returns an empty binding environment.
func NewScope() Scope {
	return Scope{vars: map[string]any{}}
}

// Bind returns a copy of the scope with name bound to value, shadowing
// any existing binding of the same name.
func (s Scope) Bind(name string, value any) Scope {
	next := make(map[string]any, len(s.vars)+1)
	for k, v := range s.vars {
		next[k] = v
	}
	next[name] = value
	return Scope{vars: next}
}

// BindAll returns a copy of the scope extended with every entry of
// bindings.
func (s Scope) BindAll(bindings map[string]any) Scope {
	if len(bindings) == 0 {
		return s
	}
	next := make(map[string]any, len(s.vars)+len(bindings))
	for k, v := range s.vars {
		next[k] = v
	}
	for k, v := range bindings {
		next[k] = v
	}
	return Scope{vars: next}
}

// Lookup returns the value bound to name, if any.
func (s Scope) Lookup(name string) (any, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Value returns the binding for name narrowed to type T.
// A missing binding or a type mismatch is a programming error in the
// rule's declaration and panics; rules never observe a partially bound
// scope at runtime.
func Value[T any](s Scope, name string) T {
	v, ok := s.vars[name]
	if !ok {
		panic(fmt.Sprintf("engine: no binding named %q in scope", name))
	}
	t, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("engine: binding %q holds %T, not the requested type", name, v))
	}
	return t
}

// Frame is the evaluation context handed to condition and conclusion
// closures: the ambient context for trace propagation, the run that owns
// the call stacks, and the current variable scope. Closures invoke
// sub-judgments through the frame's context and run.
type Frame struct {
	Ctx   context.Context
	Run   *Run
	Scope Scope
}

// bind returns a copy of the frame with one additional scope binding.
func (f Frame) bind(name string, value any) Frame {
	f.Scope = f.Scope.Bind(name, value)
	return f
}

// bindAll returns a copy of the frame with the scope extended by
// bindings.
func (f Frame) bindAll(bindings map[string]any) Frame {
	f.Scope = f.Scope.BindAll(bindings)
	return f
}
