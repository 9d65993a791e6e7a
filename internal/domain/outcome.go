package domain

import "fmt"

// Outcome is the result of evaluating a judgment: either a non-empty set
// of proven outputs, or a failure report describing every partially
// matched rule. A judgment that could prove nothing always yields a
// failed outcome, never a proven empty set.
type Outcome[O comparable] struct {
	outputs Set[O]
	failure *FailedJudgment
}

// Proven wraps a non-empty output set in a successful outcome.
// Calling Proven with an empty set is a programming error and panics;
// the engine only constructs proven outcomes from non-empty sets.
func Proven[O comparable](outputs Set[O]) Outcome[O] {
	if outputs.IsEmpty() {
		panic("domain: Proven called with an empty output set")
	}
	return Outcome[O]{outputs: outputs}
}

// ProvenValues is shorthand for Proven(NewSet(values...)).
func ProvenValues[O comparable](values ...O) Outcome[O] {
	return Proven(NewSet(values...))
}

// Unproven wraps a failure report in a failed outcome.
func Unproven[O comparable](failure *FailedJudgment) Outcome[O] {
	if failure == nil {
		panic("domain: Unproven called with a nil failure")
	}
	return Outcome[O]{failure: failure}
}

// IsProven reports whether the judgment produced at least one output.
func (o Outcome[O]) IsProven() bool { return o.failure == nil }

// Outputs returns the proven output set, or an error carrying the
// failure report when the judgment was not proven.
func (o Outcome[O]) Outputs() (Set[O], error) {
	if o.failure != nil {
		return Set[O]{}, o.failure
	}
	return o.outputs, nil
}

// MustOutputs returns the proven output set and panics if the judgment
// was not proven. Intended for tests and examples.
func (o Outcome[O]) MustOutputs() Set[O] {
	if o.failure != nil {
		panic(fmt.Sprintf("domain: MustOutputs on failed outcome: %v", o.failure))
	}
	return o.outputs
}

// Failure returns the failure report, or nil when the judgment was
// proven.
func (o Outcome[O]) Failure() *FailedJudgment { return o.failure }

// String renders either the output set or the failure report.
func (o Outcome[O]) String() string {
	if o.failure != nil {
		return o.failure.Error()
	}
	return o.outputs.String()
}
