package multiedit

import (
	"sort"
	"strings"

	"github.com/dshills/editcore/internal/engine/buffer"
	"github.com/dshills/editcore/internal/engine/history"
)

// SkipReason describes why an edit, or half of one, was not applied.
type SkipReason uint8

const (
	// SkipDeleteOutOfBounds means the deleted range ran past the buffer end.
	SkipDeleteOutOfBounds SkipReason = iota + 1
	// SkipInsertOutOfBounds means the insert position was past the buffer end.
	SkipInsertOutOfBounds
	// SkipNotCharBoundary means a position fell inside a UTF-8 sequence.
	SkipNotCharBoundary
)

// String returns the string representation of the reason.
func (r SkipReason) String() string {
	switch r {
	case SkipDeleteOutOfBounds:
		return "delete out of bounds"
	case SkipInsertOutOfBounds:
		return "insert out of bounds"
	case SkipNotCharBoundary:
		return "not a character boundary"
	default:
		return "unknown"
	}
}

// Skip reports an edit that was not fully applied.
type Skip struct {
	Edit   history.Edit
	Reason SkipReason
	Len    int // buffer length when the skip happened
}

// Result describes the outcome of applying a batch.
type Result struct {
	// Applied lists what actually changed, in application order. Each
	// entry's DeletedText is the text that was removed, so the list can be
	// recorded as an undo group directly.
	Applied []history.Edit

	// Skipped lists edits whose deletion or insertion fell outside the
	// buffer.
	Skipped []Skip
}

// MultiEdit is a set of edits targeted against one unmodified buffer and
// applied as a single mutation. The order edits are added in does not
// affect the outcome.
type MultiEdit struct {
	edits []history.Edit
}

// New creates a batch from edits.
func New(edits ...history.Edit) *MultiEdit {
	m := &MultiEdit{}
	for _, e := range edits {
		m.Add(e)
	}
	return m
}

// Add appends an edit to the batch.
func (m *MultiEdit) Add(e history.Edit) {
	m.edits = append(m.edits, e)
}

// Insert adds an insertion of text at offset.
func (m *MultiEdit) Insert(offset int, text string) {
	m.Add(history.Insertion(offset, text))
}

// Replace adds an edit replacing the range [start, end) of buf with text.
// The deleted text is captured from buf.
func (m *MultiEdit) Replace(buf *buffer.Buffer, start, end int, text string) {
	m.Add(history.Edit{Position: start, DeletedText: buf.Slice(start, end), InsertedText: text})
}

// Edits returns the edits in the order they were added.
func (m *MultiEdit) Edits() []history.Edit {
	out := make([]history.Edit, len(m.edits))
	copy(out, m.edits)
	return out
}

// Len returns the number of edits in the batch.
func (m *MultiEdit) Len() int {
	return len(m.edits)
}

// IsEmpty returns true if the batch has no edits.
func (m *MultiEdit) IsEmpty() bool {
	return len(m.edits) == 0
}

// Overlaps returns every pair of edits whose deleted ranges intersect.
// Two ranges [a, b) and [c, d) intersect iff a < d and c < b, so an
// insertion only conflicts when it falls strictly inside a deletion.
func (m *MultiEdit) Overlaps() []Conflict {
	sorted := m.Edits()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	var conflicts []Conflict
	for i, a := range sorted {
		ar := a.DeletedRange()
		for _, b := range sorted[i+1:] {
			br := b.DeletedRange()
			if br.Start >= ar.End {
				break
			}
			if ar.Overlaps(br) {
				conflicts = append(conflicts, Conflict{First: a, Second: b})
			}
		}
	}
	return conflicts
}

// Sorted returns the edits in application order: descending position.
// At one position a longer deletion goes first, and insertions are
// ordered so the result reads in ascending text order.
func (m *MultiEdit) Sorted() []history.Edit {
	sorted := m.Edits()
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Position != b.Position {
			return a.Position > b.Position
		}
		if len(a.DeletedText) != len(b.DeletedText) {
			return len(a.DeletedText) > len(b.DeletedText)
		}
		if c := strings.Compare(a.InsertedText, b.InsertedText); c != 0 {
			return c > 0
		}
		return a.DeletedText > b.DeletedText
	})
	return sorted
}

// Apply applies the batch to buf.
//
// If any two edits overlap, Apply returns an *OverlapError and buf is not
// modified. Otherwise edits are applied in descending position order so
// no edit shifts the target of another. A deletion running past the end
// of the buffer, or an insertion past it, is skipped and reported in the
// result rather than redirected.
func (m *MultiEdit) Apply(buf *buffer.Buffer) (Result, error) {
	if conflicts := m.Overlaps(); len(conflicts) > 0 {
		return Result{}, &OverlapError{Conflicts: conflicts}
	}

	var res Result
	for _, e := range m.Sorted() {
		applied := history.Edit{Position: e.Position}

		if e.DeletedText != "" {
			end := e.Position + len(e.DeletedText)
			switch {
			case e.Position < 0 || end > buf.LenBytes():
				res.Skipped = append(res.Skipped, Skip{Edit: e, Reason: SkipDeleteOutOfBounds, Len: buf.LenBytes()})
			default:
				removed := buf.Slice(e.Position, end)
				if err := buf.Remove(e.Position, end); err != nil {
					res.Skipped = append(res.Skipped, Skip{Edit: e, Reason: SkipNotCharBoundary, Len: buf.LenBytes()})
				} else {
					applied.DeletedText = removed
				}
			}
		}

		if e.InsertedText != "" {
			switch {
			case e.Position < 0 || e.Position > buf.LenBytes():
				res.Skipped = append(res.Skipped, Skip{Edit: e, Reason: SkipInsertOutOfBounds, Len: buf.LenBytes()})
			default:
				if _, err := buf.Insert(e.Position, e.InsertedText); err != nil {
					res.Skipped = append(res.Skipped, Skip{Edit: e, Reason: SkipNotCharBoundary, Len: buf.LenBytes()})
				} else {
					applied.InsertedText = e.InsertedText
				}
			}
		}

		if !applied.IsNoop() {
			res.Applied = append(res.Applied, applied)
		}
	}
	return res, nil
}
