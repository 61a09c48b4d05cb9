package engine

import "errors"

var (
	// ErrInvalidDepth is returned before any recursion when the requested
	// depth is out of range.
	ErrInvalidDepth = errors.New("engine: invalid search depth")

	// ErrOracleInvariant means the rules oracle failed to apply or undo a
	// move it reported as legal. The position can no longer be trusted.
	ErrOracleInvariant = errors.New("engine: rules oracle invariant violated")
)
