// Package domain contains the pure, dependency-free core types of the
// judgment evaluation engine: output sets, outcomes, and failure
// diagnostics.
package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Set is an unordered, deduplicated collection of judgment outputs.
// Membership is purely structural: two values are the same element iff
// they compare equal, and inserting an equal value twice is a no-op.
//
// The zero value is not usable; construct sets with NewSet.
type Set[T comparable] struct {
	elems map[T]struct{}
}

// NewSet creates a set containing the given items.
// Duplicate items collapse to a single element.
func NewSet[T comparable](items ...T) Set[T] {
	s := Set[T]{elems: make(map[T]struct{}, len(items))}
	for _, item := range items {
		s.elems[item] = struct{}{}
	}
	return s
}

// Insert adds v to the set.
// It returns true if v was not already present.
func (s Set[T]) Insert(v T) bool {
	if _, ok := s.elems[v]; ok {
		return false
	}
	s.elems[v] = struct{}{}
	return true
}

// Contains reports whether v is an element of the set.
func (s Set[T]) Contains(v T) bool {
	_, ok := s.elems[v]
	return ok
}

// Len returns the number of elements in the set.
func (s Set[T]) Len() int { return len(s.elems) }

// IsEmpty reports whether the set has no elements.
func (s Set[T]) IsEmpty() bool { return len(s.elems) == 0 }

// Equal reports whether both sets contain exactly the same elements,
// independent of insertion order.
func (s Set[T]) Equal(other Set[T]) bool {
	if len(s.elems) != len(other.elems) {
		return false
	}
	for v := range s.elems {
		if _, ok := other.elems[v]; !ok {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the set.
// Mutating the copy does not affect the original.
func (s Set[T]) Clone() Set[T] {
	clone := Set[T]{elems: make(map[T]struct{}, len(s.elems))}
	for v := range s.elems {
		clone.elems[v] = struct{}{}
	}
	return clone
}

// Items returns the elements in a deterministic order, sorted by their
// rendered representation. The ordering has no semantic meaning; it
// exists so diagnostics and logs are stable across runs.
func (s Set[T]) Items() []T {
	items := make([]T, 0, len(s.elems))
	for v := range s.elems {
		items = append(items, v)
	}
	sort.Slice(items, func(i, j int) bool {
		return fmt.Sprint(items[i]) < fmt.Sprint(items[j])
	})
	return items
}

// String renders the set as "{a, b, c}" in deterministic order.
func (s Set[T]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, v := range s.Items() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v", v)
	}
	b.WriteByte('}')
	return b.String()
}
