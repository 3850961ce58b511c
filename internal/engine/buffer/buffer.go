package buffer

import (
	"errors"
	"io"
	"unicode/utf8"

	"github.com/dshills/editcore/internal/engine/rope"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrNotCharBoundary  = errors.New("offset is not on a character boundary")
)

// Change describes one mutation as a byte delta with matching row/byte
// column points, the shape incremental parsers consume.
type Change struct {
	StartByte  int
	OldEndByte int
	NewEndByte int
	Start      Point
	OldEnd     Point
	NewEnd     Point
}

// Buffer wraps a Rope with editor-level indexing and mutation reporting.
//
// A Buffer is not safe for concurrent mutation; the owning Editor
// serializes access. Rope() returns an immutable snapshot that may be read
// from any goroutine.
type Buffer struct {
	rope       rope.Rope
	revisionID RevisionID
	observer   func(Change)
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		rope:       rope.New(),
		revisionID: NewRevisionID(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBufferFromString creates a buffer with initial content.
// The text is stored verbatim; line endings are not normalized.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.rope = rope.FromString(s)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	rp, err := rope.FromReader(r)
	if err != nil {
		return nil, err
	}
	b := NewBuffer(opts...)
	b.rope = rp
	return b, nil
}

// SetObserver installs fn to receive every Change. A nil fn removes the
// observer.
func (b *Buffer) SetObserver(fn func(Change)) {
	b.observer = fn
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	return b.rope.String()
}

// String implements fmt.Stringer.
func (b *Buffer) String() string {
	return b.rope.String()
}

// Rope returns the current immutable rope.
func (b *Buffer) Rope() rope.Rope {
	return b.rope
}

// Slice returns the text in the byte range [start, end), clamped to the
// buffer.
func (b *Buffer) Slice(start, end int) string {
	return b.rope.Slice(start, end)
}

// LenBytes returns the total byte length of the buffer.
func (b *Buffer) LenBytes() int {
	return b.rope.Len()
}

// LenChars returns the number of characters in the buffer.
func (b *Buffer) LenChars() int {
	return b.rope.CharCount()
}

// LenLines returns the number of lines. An empty buffer has one line.
func (b *Buffer) LenLines() int {
	return b.rope.LineCount()
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	return b.rope.IsEmpty()
}

// Line returns line i including its terminator, if any.
// Returns false if i is out of range.
func (b *Buffer) Line(i int) (string, bool) {
	if i < 0 || i >= b.rope.LineCount() {
		return "", false
	}
	return b.rope.Slice(b.rope.LineStart(i), b.rope.LineStart(i+1)), true
}

// LineToByte returns the byte offset of the first byte of line.
func (b *Buffer) LineToByte(line int) int {
	return b.rope.LineStart(line)
}

// LineToChar returns the char offset of the first character of line.
func (b *Buffer) LineToChar(line int) int {
	return b.rope.ByteToChar(b.rope.LineStart(line))
}

// ByteToLine returns the line containing the byte offset.
func (b *Buffer) ByteToLine(offset int) int {
	return b.rope.ByteToLine(offset)
}

// CharToLine returns the line containing the char offset.
func (b *Buffer) CharToLine(char int) int {
	return b.rope.ByteToLine(b.rope.CharToByte(char))
}

// ByteToChar converts a byte offset to a char offset.
func (b *Buffer) ByteToChar(offset int) int {
	return b.rope.ByteToChar(offset)
}

// CharToByte converts a char offset to a byte offset.
func (b *Buffer) CharToByte(char int) int {
	return b.rope.CharToByte(char)
}

// RuneAt returns the rune at the given byte offset.
// Returns utf8.RuneError and size 0 if offset is out of range.
func (b *Buffer) RuneAt(offset int) (rune, int) {
	if offset < 0 || offset >= b.rope.Len() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(b.rope.Slice(offset, offset+utf8.UTFMax))
}

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	return b.revisionID
}

// Write Operations

// Insert inserts text at the given byte offset.
// Returns the end offset of the inserted text.
func (b *Buffer) Insert(offset int, text string) (int, error) {
	if err := b.checkOffset(offset); err != nil {
		return 0, err
	}
	if text == "" {
		return offset, nil
	}
	return b.replace(offset, offset, text), nil
}

// Remove deletes text in the byte range [start, end).
func (b *Buffer) Remove(start, end int) error {
	if err := b.checkRange(start, end); err != nil {
		return err
	}
	if start == end {
		return nil
	}
	b.replace(start, end, "")
	return nil
}

// Replace replaces the byte range [start, end) with text.
// Returns the end offset of the replacement text.
func (b *Buffer) Replace(start, end int, text string) (int, error) {
	if err := b.checkRange(start, end); err != nil {
		return 0, err
	}
	if start == end && text == "" {
		return start, nil
	}
	return b.replace(start, end, text), nil
}

// SetText replaces the whole content.
func (b *Buffer) SetText(text string) {
	b.Restore(rope.FromString(text))
}

// Restore replaces the content with a previously captured rope.
func (b *Buffer) Restore(r rope.Rope) {
	oldEnd := b.PointAt(b.rope.Len())
	oldLen := b.rope.Len()

	b.rope = r
	b.revisionID = NewRevisionID()
	b.notify(Change{
		OldEndByte: oldLen,
		NewEndByte: r.Len(),
		OldEnd:     oldEnd,
		NewEnd:     b.PointAt(r.Len()),
	})
}

// Clone returns an independent buffer with the same content and no
// observer.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{rope: b.rope, revisionID: b.revisionID}
}

func (b *Buffer) replace(start, end int, text string) int {
	var change Change
	if b.observer != nil {
		change.StartByte = start
		change.OldEndByte = end
		change.NewEndByte = start + len(text)
		change.Start = b.PointAt(start)
		change.OldEnd = b.PointAt(end)
		change.NewEnd = change.Start.advance(text)
	}

	b.rope = b.rope.Replace(start, end, text)
	b.revisionID = NewRevisionID()
	b.notify(change)
	return start + len(text)
}

func (b *Buffer) notify(c Change) {
	if b.observer != nil {
		b.observer(c)
	}
}

func (b *Buffer) checkOffset(offset int) error {
	if offset < 0 || offset > b.rope.Len() {
		return ErrOffsetOutOfRange
	}
	if !b.isCharBoundary(offset) {
		return ErrNotCharBoundary
	}
	return nil
}

func (b *Buffer) checkRange(start, end int) error {
	if start < 0 || start > end || end > b.rope.Len() {
		return ErrRangeInvalid
	}
	if !b.isCharBoundary(start) || !b.isCharBoundary(end) {
		return ErrNotCharBoundary
	}
	return nil
}

func (b *Buffer) isCharBoundary(offset int) bool {
	c, ok := b.rope.ByteAt(offset)
	return !ok || utf8.RuneStart(c)
}
