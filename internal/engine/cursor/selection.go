package cursor

import (
	"fmt"

	"github.com/dshills/editcore/internal/engine/buffer"
)

// Position is an alias for buffer.Position for convenience.
type Position = buffer.Position

// Indexer resolves positions against a document. *buffer.Buffer satisfies it.
type Indexer interface {
	OffsetOf(p Position) int
	CharOffsetOf(p Position) int
}

// Selection is a text range between two positions. Start and End are not
// intrinsically ordered; End is where the cursor sits after an extending
// motion. Selection is an immutable value type.
type Selection struct {
	Start Position
	End   Position
}

// NewSelection creates a selection from start to end.
func NewSelection(start, end Position) Selection {
	return Selection{Start: start, End: end}
}

// Collapsed creates an empty selection at p.
func Collapsed(p Position) Selection {
	return Selection{Start: p, End: p}
}

// IsEmpty returns true if the selection has no extent.
func (s Selection) IsEmpty() bool {
	return s.Start == s.End
}

// Normalize returns the selection with Start <= End.
func (s Selection) Normalize() Selection {
	if s.End.Before(s.Start) {
		return Selection{Start: s.End, End: s.Start}
	}
	return s
}

// IsBackward returns true if End comes before Start.
func (s Selection) IsBackward() bool {
	return s.End.Before(s.Start)
}

// Contains reports whether p lies within the normalized selection. Both
// endpoints are inclusive, and columns are only checked on the first and
// last line of the range.
func (s Selection) Contains(p Position) bool {
	n := s.Normalize()
	if p.Line < n.Start.Line || p.Line > n.End.Line {
		return false
	}
	if p.Line == n.Start.Line && p.Column < n.Start.Column {
		return false
	}
	if p.Line == n.End.Line && p.Column > n.End.Column {
		return false
	}
	return true
}

// Len returns the number of characters between the normalized endpoints.
func (s Selection) Len(idx Indexer) int {
	n := s.Normalize()
	return max(0, idx.CharOffsetOf(n.End)-idx.CharOffsetOf(n.Start))
}

// Range returns the normalized selection as a byte range.
func (s Selection) Range(idx Indexer) buffer.Range {
	n := s.Normalize()
	return buffer.Range{Start: idx.OffsetOf(n.Start), End: idx.OffsetOf(n.End)}
}

// Flip swaps Start and End.
func (s Selection) Flip() Selection {
	return Selection{Start: s.End, End: s.Start}
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	return fmt.Sprintf("Selection(%s -> %s)", s.Start, s.End)
}
