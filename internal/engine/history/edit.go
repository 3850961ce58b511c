package history

import (
	"errors"
	"fmt"

	"github.com/dshills/editcore/internal/engine/buffer"
)

// ErrReplayMismatch is returned when an edit's deleted text does not match
// the buffer content at its position.
var ErrReplayMismatch = errors.New("buffer content does not match edit")

// Edit is a reversible record of one change: applying it removes
// len(DeletedText) bytes at Position, then inserts InsertedText there.
type Edit struct {
	Position     int // byte offset
	DeletedText  string
	InsertedText string
}

// Insertion creates an edit that inserts text at offset.
func Insertion(offset int, text string) Edit {
	return Edit{Position: offset, InsertedText: text}
}

// Deletion creates an edit that removes deleted at offset.
func Deletion(offset int, deleted string) Edit {
	return Edit{Position: offset, DeletedText: deleted}
}

// Invert returns the edit that undoes e.
func (e Edit) Invert() Edit {
	return Edit{Position: e.Position, DeletedText: e.InsertedText, InsertedText: e.DeletedText}
}

// IsNoop returns true if the edit changes nothing.
func (e Edit) IsNoop() bool {
	return e.DeletedText == e.InsertedText
}

// DeletedRange returns the byte range e removes, measured before it is
// applied.
func (e Edit) DeletedRange() buffer.Range {
	return buffer.Range{Start: e.Position, End: e.Position + len(e.DeletedText)}
}

// End returns the offset just past the inserted text once e is applied.
func (e Edit) End() int {
	return e.Position + len(e.InsertedText)
}

// Apply performs the edit on buf. The text at Position must equal
// DeletedText, otherwise ErrReplayMismatch is returned and buf is
// unchanged.
func (e Edit) Apply(buf *buffer.Buffer) error {
	r := e.DeletedRange()
	if r.End > buf.LenBytes() || buf.Slice(r.Start, r.End) != e.DeletedText {
		return fmt.Errorf("%w at %d", ErrReplayMismatch, e.Position)
	}
	if e.DeletedText != "" {
		if err := buf.Remove(r.Start, r.End); err != nil {
			return err
		}
	}
	if e.InsertedText != "" {
		if _, err := buf.Insert(e.Position, e.InsertedText); err != nil {
			return err
		}
	}
	return nil
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	switch {
	case e.DeletedText == "":
		return fmt.Sprintf("Insert(%d, %q)", e.Position, e.InsertedText)
	case e.InsertedText == "":
		return fmt.Sprintf("Delete(%d, %q)", e.Position, e.DeletedText)
	default:
		return fmt.Sprintf("Replace(%d, %q -> %q)", e.Position, e.DeletedText, e.InsertedText)
	}
}

// lowest returns the edit with the smallest position. Edits applied at
// that same position are merged into one: each later edit lands in front
// of the earlier ones, so the merged End is past all of their text.
func lowest(edits []Edit) Edit {
	low := edits[0]
	for _, e := range edits[1:] {
		if e.Position < low.Position {
			low = e
		}
	}

	merged := Edit{Position: low.Position}
	for _, e := range edits {
		if e.Position != low.Position {
			continue
		}
		merged.DeletedText += e.DeletedText
		merged.InsertedText = e.InsertedText + merged.InsertedText
	}
	return merged
}
