package engine

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/ahrav/go-sequent/internal/ports"
)

// foldCaser is a package-level Unicode case folder so name comparison
// does not allocate a caser per lookup.
var foldCaser = cases.Fold()

// Declaration is the registry's view of a judgment: any generic
// Judgment[I, O] satisfies it.
type Declaration interface {
	Name() string
}

// Registry indexes judgment declarations by name so surface syntax and
// tooling can resolve references to them. Lookups that miss return an
// error carrying close-match suggestions ranked by edit distance over
// case-folded names.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Declaration

	// maxDistance bounds the edit distance for a suggestion.
	maxDistance int
	// maxResults bounds how many suggestions a lookup error carries.
	maxResults int
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithSuggestionLimits overrides the suggestion thresholds: the maximum
// edit distance for a name to qualify and the maximum number of
// suggestions returned.
func WithSuggestionLimits(maxDistance, maxResults int) RegistryOption {
	return func(r *Registry) {
		r.maxDistance = maxDistance
		r.maxResults = maxResults
	}
}

// NewRegistry creates an empty judgment registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		entries:     make(map[string]Declaration),
		maxDistance: 3,
		maxResults:  3,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a declaration under its name.
// It returns an error for an empty name or a name already taken.
func (r *Registry) Register(decl Declaration) error {
	if decl == nil || decl.Name() == "" {
		return fmt.Errorf("registry: declaration must have a non-empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[decl.Name()]; exists {
		return fmt.Errorf("registry: %q: %w", decl.Name(), ports.ErrDuplicateJudgment)
	}
	r.entries[decl.Name()] = decl
	return nil
}

// Lookup resolves a judgment by name. A miss returns an
// *UnknownJudgmentError listing the nearest registered names.
func (r *Registry) Lookup(name string) (Declaration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if decl, ok := r.entries[name]; ok {
		return decl, nil
	}
	return nil, &UnknownJudgmentError{Name: name, Suggestions: r.suggest(name)}
}

// Names returns the registered judgment names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// suggest ranks registered names by case-folded Levenshtein distance to
// the missed name. Callers hold at least a read lock.
func (r *Registry) suggest(name string) []string {
	folded := foldCaser.String(name)

	type scored struct {
		name     string
		distance int
	}
	candidates := make([]scored, 0, len(r.entries))
	for candidate := range r.entries {
		d := levenshtein.ComputeDistance(folded, foldCaser.String(candidate))
		if d <= r.maxDistance {
			candidates = append(candidates, scored{name: candidate, distance: d})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].name < candidates[j].name
	})

	if len(candidates) > r.maxResults {
		candidates = candidates[:r.maxResults]
	}
	suggestions := make([]string, len(candidates))
	for i, c := range candidates {
		suggestions[i] = c.name
	}
	return suggestions
}

// UnknownJudgmentError reports a registry lookup miss along with the
// closest registered names.
type UnknownJudgmentError struct {
	Name        string
	Suggestions []string
}

// Error renders the miss and any suggestions.
func (e *UnknownJudgmentError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown judgment %q", e.Name)
	}
	return fmt.Sprintf("unknown judgment %q (did you mean %s?)",
		e.Name, strings.Join(e.Suggestions, ", "))
}

// Unwrap ties the typed error to the ports sentinel.
func (e *UnknownJudgmentError) Unwrap() error { return ports.ErrUnknownJudgment }
