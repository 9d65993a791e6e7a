package engine

import (
	"runtime"

	"github.com/ahrav/go-sequent/internal/domain"
)

// conditionKind discriminates the four condition forms a rule may use.
type conditionKind int

const (
	condIf conditionKind = iota
	condIfLet
	condLet
	condEach
)

// Condition is one step in a rule's ordered condition chain. Conditions
// are plain data descriptors evaluated by the engine's interpreter; the
// closures they carry are author-supplied and must be pure with respect
// to the frame they receive.
type Condition struct {
	kind conditionKind

	// label is the source text shown in diagnostics: the tested
	// expression for If and Each, the pattern for IfLet.
	label string

	// bind names the variable bound by Let and Each.
	bind string

	// source locates the condition's declaration for failure reports.
	source domain.Source

	test    func(Frame) bool
	eval    func(Frame) any
	match   func(any) (map[string]any, bool)
	iterate func(Frame) (Seq, error)
}

// At overrides the condition's source provenance. Rule tables generated
// from a surface syntax use this to point diagnostics at the original
// declaration instead of the generator.
func (c Condition) At(file string, line, column int) Condition {
	c.source = domain.Source{File: file, Line: line, Column: column}
	return c
}

// callerSource captures the file and line of the condition constructor's
// caller. Column information is not available from the Go runtime and is
// reported as zero.
func callerSource() domain.Source {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return domain.Source{File: "?", Line: 0}
	}
	return domain.Source{File: file, Line: line}
}

// If declares a boolean test condition. The rule proceeds when test
// returns true; otherwise it stops with a condition-false cause carrying
// expr, the source text of the test.
func If(expr string, test func(Frame) bool) Condition {
	return Condition{
		kind:   condIf,
		label:  expr,
		source: callerSource(),
		test:   test,
	}
}

// IfLet declares a pattern test on a derived value. eval produces the
// value, which is cloned when it supports cloning, and match attempts the
// structural pattern against it, returning the bindings it introduces.
// On a mismatch the rule stops with a pattern-mismatch cause carrying the
// pattern text and a rendering of the evaluated value.
func IfLet(pattern string, eval func(Frame) any, match func(any) (map[string]any, bool)) Condition {
	return Condition{
		kind:   condIfLet,
		label:  pattern,
		source: callerSource(),
		eval:   eval,
		match:  match,
	}
}

// Let declares an unconditional binding of name to the value eval
// produces. Let always proceeds; it exists for intermediate computation
// and has no failure path.
func Let(name string, eval func(Frame) any) Condition {
	return Condition{
		kind:   condLet,
		label:  name,
		bind:   name,
		source: callerSource(),
		eval:   eval,
	}
}

// Each declares an iteration condition. iterate evaluates an expression
// expected to convert into a sequence of candidate values: the proven
// outputs of a sub-judgment, a plain collection, or an optional. If the
// conversion fails the rule stops with an iteration-source-error cause;
// otherwise evaluation forks, binding name to each element in turn and
// continuing with the remaining conditions, so a single rule can
// contribute many or zero outputs.
func Each(name, expr string, iterate func(Frame) (Seq, error)) Condition {
	return Condition{
		kind:    condEach,
		label:   expr,
		bind:    name,
		source:  callerSource(),
		iterate: iterate,
	}
}
