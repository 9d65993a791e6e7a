package domain

// The engine treats the terms flowing through rules as opaque,
// already-typed values. The two coercions rule authors need are a safe
// narrowing from a shared representation to a concrete variant, and a
// widening from a concrete value into a judgment's common output
// representation. Both are expressed over tagged-union style interface
// values, never via open-ended reflection.

// Narrow attempts to downcast an opaque value to the concrete type T.
// It returns the narrowed value and true when the value's runtime shape
// matches, or the zero value and false otherwise.
func Narrow[T any](v any) (T, bool) {
	t, ok := v.(T)
	return t, ok
}

// Widener is implemented by concrete values that can widen themselves
// into a judgment's common output representation O.
type Widener[O any] interface {
	Widen() O
}

// Widen converts a slice of concrete values into the shared
// representation O.
func Widen[O any, T Widener[O]](values []T) []O {
	out := make([]O, len(values))
	for i, v := range values {
		out[i] = v.Widen()
	}
	return out
}

// Cloner is implemented by values that can produce an independent copy
// of themselves. The rule engine clones a derived value before matching
// a structural pattern against it when the value supports cloning, so
// pattern bindings never alias state owned by the producing expression.
type Cloner interface {
	Clone() any
}

// CloneValue returns v.Clone() when v implements Cloner, and v itself
// otherwise. Plain comparable values are safe to share without copying.
func CloneValue(v any) any {
	if c, ok := v.(Cloner); ok {
		return c.Clone()
	}
	return v
}
