package ports

import "errors"

// Common errors shared across the engine's boundary surfaces.
var (
	// ErrUnknownJudgment indicates a registry lookup for a judgment name
	// that was never registered.
	ErrUnknownJudgment = errors.New("unknown judgment")

	// ErrDuplicateJudgment indicates an attempt to register a judgment
	// under a name that is already taken.
	ErrDuplicateJudgment = errors.New("judgment already registered")

	// ErrInvalidRule indicates a rule declaration that cannot be
	// evaluated, e.g. a missing conclusion or an out-of-range commit
	// point.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrAbsentValue indicates an iteration source backed by an optional
	// that held no value.
	ErrAbsentValue = errors.New("optional value absent")

	// ErrConfigNotFound indicates that required engine configuration is
	// missing.
	ErrConfigNotFound = errors.New("configuration not found")
)
