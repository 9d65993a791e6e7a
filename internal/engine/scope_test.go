package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScope_Bind verifies copy-on-write binding semantics.
func TestScope_Bind(t *testing.T) {
	base := NewScope().Bind("n", 4)
	forked := base.Bind("m", 2)

	_, ok := base.Lookup("m")
	assert.False(t, ok, "binding in a fork must not leak into the parent scope")

	n, ok := forked.Lookup("n")
	require.True(t, ok)
	assert.Equal(t, 4, n)

	shadowed := forked.Bind("n", 7)
	assert.Equal(t, 7, Value[int](shadowed, "n"))
	assert.Equal(t, 4, Value[int](forked, "n"), "shadowing must not mutate the original")
}

// TestScope_BindAll verifies bulk extension.
func TestScope_BindAll(t *testing.T) {
	s := NewScope().BindAll(map[string]any{"a": 1, "b": "two"})

	assert.Equal(t, 1, Value[int](s, "a"))
	assert.Equal(t, "two", Value[string](s, "b"))
}

// TestValue_Panics verifies that an unbound name or a type mismatch is
// treated as a programming error.
func TestValue_Panics(t *testing.T) {
	s := NewScope().Bind("n", 4)

	assert.Panics(t, func() { Value[int](s, "missing") },
		"a missing binding must panic")
	assert.Panics(t, func() { Value[string](s, "n") },
		"a type mismatch must panic")
}
