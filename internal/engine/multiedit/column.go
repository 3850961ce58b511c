package multiedit

import (
	"fmt"

	"github.com/dshills/editcore/internal/engine/buffer"
	"github.com/dshills/editcore/internal/engine/cursor"
	"github.com/dshills/editcore/internal/engine/history"
)

// LineSkipReason describes why a line of a column selection was left out.
type LineSkipReason uint8

const (
	// LineBeyondDocument means the line index is past the last line.
	LineBeyondDocument LineSkipReason = iota + 1
	// ColumnBeyondLine means the line is shorter than the target column.
	ColumnBeyondLine
)

// String returns the string representation of the reason.
func (r LineSkipReason) String() string {
	switch r {
	case LineBeyondDocument:
		return "line beyond document"
	case ColumnBeyondLine:
		return "column beyond line"
	default:
		return "unknown"
	}
}

// LineSkip reports a line of a column selection that produced no edit.
type LineSkip struct {
	Line   int
	Column int
	Reason LineSkipReason
}

func (s LineSkip) String() string {
	return fmt.Sprintf("line %d column %d: %s", s.Line, s.Column, s.Reason)
}

// ColumnSelection is a rectangular block selection. Start is always the
// top-left corner and End the bottom-right.
type ColumnSelection struct {
	Start buffer.Position
	End   buffer.Position
}

// NewColumnSelection creates a block selection from any two opposite
// corners.
func NewColumnSelection(a, b buffer.Position) ColumnSelection {
	return ColumnSelection{
		Start: buffer.Pos(min(a.Line, b.Line), min(a.Column, b.Column)),
		End:   buffer.Pos(max(a.Line, b.Line), max(a.Column, b.Column)),
	}
}

// Lines returns the number of lines the block covers.
func (cs ColumnSelection) Lines() int {
	return cs.End.Line - cs.Start.Line + 1
}

// MultiCursor returns one cursor per covered line at the left column.
func (cs ColumnSelection) MultiCursor() *cursor.MultiCursor {
	mc := cursor.NewMultiCursor(cs.Start)
	for line := cs.Start.Line + 1; line <= cs.End.Line; line++ {
		mc.Add(buffer.Pos(line, cs.Start.Column))
	}
	return mc
}

// validate checks that line exists and reaches the left column.
func (cs ColumnSelection) validate(buf *buffer.Buffer, line int) (LineSkip, bool) {
	if line < 0 || line >= buf.LenLines() {
		return LineSkip{Line: line, Column: cs.Start.Column, Reason: LineBeyondDocument}, false
	}
	if cs.Start.Column > buf.LineLen(line) {
		return LineSkip{Line: line, Column: cs.Start.Column, Reason: ColumnBeyondLine}, false
	}
	return LineSkip{}, true
}

// Insert builds a batch inserting text at the left column of every covered
// line. Lines that do not exist or are too short are reported and get no
// edit.
func (cs ColumnSelection) Insert(buf *buffer.Buffer, text string) (*MultiEdit, []LineSkip) {
	m := &MultiEdit{}
	var skipped []LineSkip
	for line := cs.Start.Line; line <= cs.End.Line; line++ {
		if skip, ok := cs.validate(buf, line); !ok {
			skipped = append(skipped, skip)
			continue
		}
		m.Insert(buf.OffsetOf(buffer.Pos(line, cs.Start.Column)), text)
	}
	return m, skipped
}

// Delete builds a batch removing the block's columns from every covered
// line. Lines shorter than the right column lose only what they have.
func (cs ColumnSelection) Delete(buf *buffer.Buffer) (*MultiEdit, []LineSkip) {
	m := &MultiEdit{}
	var skipped []LineSkip
	for line := cs.Start.Line; line <= cs.End.Line; line++ {
		if skip, ok := cs.validate(buf, line); !ok {
			skipped = append(skipped, skip)
			continue
		}
		start := buf.OffsetOf(buffer.Pos(line, cs.Start.Column))
		end := buf.OffsetOf(buffer.Pos(line, cs.End.Column))
		if end > start {
			m.Add(history.Deletion(start, buf.Slice(start, end)))
		}
	}
	return m, skipped
}
