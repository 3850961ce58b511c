package engine

import "github.com/dshills/editcore/internal/engine/multiedit"

// Errors returned by engine operations.
var (
	// ErrEditsOverlap indicates a batch contained intersecting edits.
	// The *multiedit.OverlapError returned alongside carries the pairs.
	ErrEditsOverlap = multiedit.ErrOverlap
)
