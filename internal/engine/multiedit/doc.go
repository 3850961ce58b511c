// Package multiedit applies sets of independently targeted edits to a
// buffer as one mutation.
//
// Every edit in a MultiEdit is positioned against the same unmodified
// buffer. Apply first checks all pairs for overlapping deleted ranges and
// rejects the whole batch with an *OverlapError if any intersect. It then
// applies edits in descending position order, so removing or inserting at
// a higher offset never moves the target of a lower one:
//
//	m := multiedit.New(
//		history.Insertion(0, "// "),
//		history.Insertion(12, "// "),
//	)
//	res, err := m.Apply(buf)
//	if errors.Is(err, multiedit.ErrOverlap) {
//		// buf is untouched
//	}
//
// Result.Applied can be recorded as a single undo group.
//
// ColumnSelection builds batches for rectangular block editing. Lines that
// are missing or shorter than the block's left column are reported as
// LineSkip values instead of being edited somewhere else.
package multiedit
