package engine

import (
	"fmt"

	"github.com/ahrav/go-sequent/internal/domain"
	"github.com/ahrav/go-sequent/internal/ports"
)

// Seq is a materialized sequence of candidate values produced by an
// iteration condition. Elements are evaluated in order; for sequences
// derived from sets the order is the set's deterministic rendering
// order.
type Seq interface {
	Elements() []any
}

type sliceSeq []any

func (s sliceSeq) Elements() []any { return s }

// Items converts a plain collection into an iteration source.
// A nil or empty slice is a valid, empty sequence, not an error.
func Items[T any](items []T) Seq {
	elems := make([]any, len(items))
	for i, v := range items {
		elems[i] = v
	}
	return sliceSeq(elems)
}

// FromSet converts an output set into an iteration source.
func FromSet[T comparable](s domain.Set[T]) Seq {
	return Items(s.Items())
}

// FromOutcome converts a sub-judgment's outcome into an iteration
// source. A proven outcome yields its output set; an unproven outcome is
// a conversion failure whose error wraps the sub-judgment's failure
// report, so the outer rule records an iteration-source-error with full
// provenance.
func FromOutcome[O comparable](o domain.Outcome[O]) (Seq, error) {
	outputs, err := o.Outputs()
	if err != nil {
		return nil, err
	}
	return FromSet(outputs), nil
}

// FromOptional converts an optional value into an iteration source.
// An absent value is a conversion failure, mirroring the treatment of
// unproven sub-judgments; rule authors who want "zero iterations" for an
// absent optional should use Items with an empty slice instead.
func FromOptional[T any](v T, present bool) (Seq, error) {
	if !present {
		return nil, fmt.Errorf("%w (%T)", ports.ErrAbsentValue, v)
	}
	return sliceSeq{v}, nil
}
