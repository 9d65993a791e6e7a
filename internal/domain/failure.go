package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Source identifies where a rule condition was declared.
// When a condition is constructed in Go code the file and line come from
// the call site and the column is zero; rule tables generated from a
// surface syntax may carry a meaningful column.
type Source struct {
	File   string
	Line   int
	Column int
}

// String renders the source as "file:line:column".
func (s Source) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// FailureCause explains why a single rule condition stopped a rule.
// Exactly three causes exist: a boolean test was false, a structural
// pattern did not match, or an iteration source could not be converted
// into a sequence.
type FailureCause interface {
	failureCause()
	String() string
}

// ConditionFalse records a boolean test that evaluated to false.
type ConditionFalse struct {
	// Expr is the source text of the failed test.
	Expr string
}

func (ConditionFalse) failureCause() {}

func (c ConditionFalse) String() string {
	return fmt.Sprintf("condition evaluated to false: `%s`", c.Expr)
}

// PatternMismatch records a structural pattern that failed to match a
// derived value.
type PatternMismatch struct {
	// Pattern is the source text of the pattern.
	Pattern string
	// Value is the rendering of the value the pattern was matched against.
	Value string
}

func (PatternMismatch) failureCause() {}

func (c PatternMismatch) String() string {
	return fmt.Sprintf("pattern `%s` did not match value `%s`", c.Pattern, c.Value)
}

// IterationError records an iteration source that could not be converted
// into a sequence, e.g. an absent optional or an unproven sub-judgment.
type IterationError struct {
	// Expr is the source text of the iterated expression.
	Expr string
	// Err is the conversion failure. It may wrap a *FailedJudgment when
	// the source was an unproven sub-judgment, chaining provenance.
	Err error
}

func (IterationError) failureCause() {}

func (c IterationError) String() string {
	return fmt.Sprintf("could not iterate `%s`: %v", c.Expr, c.Err)
}

// FailedRule describes one rule whose conditions were attempted but did
// not reach the rule's conclusion.
type FailedRule struct {
	// RuleName is the declared name of the rule.
	RuleName string
	// StepIndex is the condition position at which the rule stopped.
	StepIndex int
	// Source locates the failing condition.
	Source Source
	// Cause explains the failure.
	Cause FailureCause
}

// String renders a single-line description of the failed rule.
func (r FailedRule) String() string {
	return fmt.Sprintf("rule %q failed at step %d (%s) because %s",
		r.RuleName, r.StepIndex, r.Source, r.Cause)
}

// FailedJudgment aggregates every relevant rule failure for one judgment
// evaluation that proved nothing. It implements error so callers can
// propagate it through ordinary error chains, and so an unproven
// sub-judgment can become the cause of an outer rule's iteration error.
type FailedJudgment struct {
	// Judgment is the rendered judgment call, e.g. `isEven(3)`.
	Judgment string
	// Rules holds the deduplicated failures from the final evaluation
	// round, ordered by rule name then step index.
	Rules []FailedRule
}

// NewFailedJudgment builds a FailedJudgment from the given failures,
// deduplicating structurally identical entries and imposing the
// deterministic ordering diagnostics rely on.
func NewFailedJudgment(judgment string, rules []FailedRule) *FailedJudgment {
	seen := make(map[string]struct{}, len(rules))
	deduped := make([]FailedRule, 0, len(rules))
	for _, r := range rules {
		key := r.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, r)
	}
	sort.Slice(deduped, func(i, j int) bool {
		if deduped[i].RuleName != deduped[j].RuleName {
			return deduped[i].RuleName < deduped[j].RuleName
		}
		if deduped[i].StepIndex != deduped[j].StepIndex {
			return deduped[i].StepIndex < deduped[j].StepIndex
		}
		return deduped[i].Cause.String() < deduped[j].Cause.String()
	})
	return &FailedJudgment{Judgment: judgment, Rules: deduped}
}

// Error renders a multi-line failure report: the judgment call followed
// by one indented line per failed rule, with nested judgment failures
// indented below the rule that iterated them.
func (e *FailedJudgment) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "judgment %s was not proven", e.Judgment)
	if len(e.Rules) == 0 {
		b.WriteString(": no rule applied")
		return b.String()
	}
	for _, r := range e.Rules {
		b.WriteString("\n  ")
		b.WriteString(r.String())

		var nested *FailedJudgment
		if cause, ok := r.Cause.(IterationError); ok && errors.As(cause.Err, &nested) {
			for _, line := range strings.Split(nested.Error(), "\n") {
				b.WriteString("\n    ")
				b.WriteString(line)
			}
		}
	}
	return b.String()
}
