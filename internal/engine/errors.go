package engine

import "errors"

// Precondition errors, returned before any search work is done.
var (
	ErrInvalidMaxSide     = errors.New("max side must be positive")
	ErrInvalidDiscardStep = errors.New("discard step must not be negative")
	ErrInvalidRect        = errors.New("rect dimensions must be positive")
	ErrDuplicateRect      = errors.New("rect appears more than once in the input")
	ErrNoHeuristics       = errors.New("at least one ordering heuristic is required")
	ErrUnknownHeuristic   = errors.New("unknown ordering heuristic")
)

// Internal failures. Both abort the pack call before any callback fires.
var (
	// ErrPoolExhausted is returned when a tree needs more nodes than the
	// configured node capacity allows.
	ErrPoolExhausted = errors.New("node pool exhausted")

	// ErrInvariant signals a geometry bug: a leaf created to hold a rect
	// reported the rect as too big.
	ErrInvariant = errors.New("packing tree invariant violated")
)
