package buffer

// Position codec.
//
// A column never addresses a line terminator: LineLen excludes "\n" (and a
// "\r" immediately before it), and every column clamps to LineLen. This
// keeps PositionAt(OffsetOf(p)) == Clamp(p) for every p, and a clamped
// position never spills onto the following line.

// contentEnd returns the byte offset where line's terminator begins, or
// the end of the buffer on the last line.
func (b *Buffer) contentEnd(line int) int {
	end := b.rope.LineEnd(line)
	if line < b.rope.LineCount()-1 && end > b.rope.LineStart(line) {
		if c, ok := b.rope.ByteAt(end - 1); ok && c == '\r' {
			end--
		}
	}
	return end
}

// LineLen returns the number of characters on line, excluding its
// terminator. Out-of-range lines have length 0.
func (b *Buffer) LineLen(line int) int {
	if line < 0 || line >= b.rope.LineCount() {
		return 0
	}
	start := b.rope.LineStart(line)
	end := b.contentEnd(line)
	return b.rope.ByteToChar(end) - b.rope.ByteToChar(start)
}

// Clamp returns the nearest addressable position to p.
func (b *Buffer) Clamp(p Position) Position {
	p.Line = max(0, min(p.Line, b.rope.LineCount()-1))
	p.Column = max(0, min(p.Column, b.LineLen(p.Line)))
	return p
}

// OffsetOf returns the byte offset of p after clamping.
func (b *Buffer) OffsetOf(p Position) int {
	p = b.Clamp(p)
	start := b.rope.LineStart(p.Line)
	if p.Column == 0 {
		return start
	}
	return b.rope.CharToByte(b.rope.ByteToChar(start) + p.Column)
}

// CharOffsetOf returns the char offset of p after clamping.
func (b *Buffer) CharOffsetOf(p Position) int {
	p = b.Clamp(p)
	return b.LineToChar(p.Line) + p.Column
}

// PositionAt returns the position of a byte offset. Offsets are clamped to
// the buffer and rounded down to a character boundary; an offset between
// "\r" and "\n" maps to the end of the line's content.
func (b *Buffer) PositionAt(offset int) Position {
	offset = max(0, min(offset, b.rope.Len()))
	line := b.rope.ByteToLine(offset)
	col := b.rope.ByteToChar(offset) - b.rope.ByteToChar(b.rope.LineStart(line))
	return Position{Line: line, Column: min(col, b.LineLen(line))}
}

// PositionAtChar returns the position of a char offset.
func (b *Buffer) PositionAtChar(char int) Position {
	return b.PositionAt(b.rope.CharToByte(max(char, 0)))
}

// PointAt returns the row and byte column of a byte offset.
func (b *Buffer) PointAt(offset int) Point {
	offset = max(0, min(offset, b.rope.Len()))
	row := b.rope.ByteToLine(offset)
	return Point{Row: row, Column: offset - b.rope.LineStart(row)}
}

// LineContent returns line i without its terminator.
func (b *Buffer) LineContent(i int) (string, bool) {
	if i < 0 || i >= b.rope.LineCount() {
		return "", false
	}
	return b.rope.Slice(b.rope.LineStart(i), b.contentEnd(i)), true
}
