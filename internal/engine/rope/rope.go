package rope

import (
	"io"
	"strings"
)

// Rope is an immutable rope data structure for efficient text storage.
// Operations return new Rope values; the original is never modified.
// This enables cheap snapshots and thread-safe concurrent read access.
//
// All offsets are byte offsets unless a method name says otherwise.
// Offsets past the end are clamped to Len.
type Rope struct {
	root *Node
}

// New creates an empty rope.
func New() Rope {
	return Rope{root: newLeafNode()}
}

// FromString creates a rope from a string.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	return buildFromChunks(splitIntoChunks(s))
}

// FromReader creates a rope from an io.Reader.
func FromReader(r io.Reader) (Rope, error) {
	var builder Builder
	if _, err := builder.ReadFrom(r); err != nil {
		return Rope{}, err
	}
	return builder.Build(), nil
}

// buildFromChunks builds a balanced rope from a slice of chunks.
func buildFromChunks(chunks []Chunk) Rope {
	if len(chunks) == 0 {
		return New()
	}

	leaves := make([]*Node, 0, len(chunks)/MaxChunksPerLeaf+1)
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := min(i+MaxChunksPerLeaf, len(chunks))
		leafChunks := make([]Chunk, end-i)
		copy(leafChunks, chunks[i:end])
		leaves = append(leaves, newLeafNodeWithChunks(leafChunks))
	}

	return Rope{root: buildNodeFromChildren(leaves)}
}

// Len returns the total byte length.
func (r Rope) Len() int {
	if r.root == nil {
		return 0
	}
	return r.root.Len()
}

// CharCount returns the number of Unicode scalar values.
func (r Rope) CharCount() int {
	if r.root == nil {
		return 0
	}
	return r.root.summary.Chars
}

// LineCount returns the number of lines (newlines + 1).
// An empty rope has one line.
func (r Rope) LineCount() int {
	if r.root == nil {
		return 1
	}
	return r.root.summary.Lines + 1
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// String returns the full text as a string.
// Use sparingly for large ropes.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}

	var sb strings.Builder
	sb.Grow(r.Len())
	r.root.appendTo(&sb)
	return sb.String()
}

// Slice returns the text in the byte range [start, end).
func (r Rope) Slice(start, end int) string {
	start, end = r.clampRange(start, end)
	if r.root == nil || start >= end {
		return ""
	}

	var sb strings.Builder
	sb.Grow(end - start)
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// ByteAt returns the byte at the given offset.
// Returns 0 and false if offset is out of range.
func (r Rope) ByteAt(offset int) (byte, bool) {
	if r.root == nil || offset < 0 || offset >= r.Len() {
		return 0, false
	}
	return r.root.byteAt(offset), true
}

// Insert inserts text at the given byte offset.
// Returns a new rope; original is unchanged.
func (r Rope) Insert(offset int, text string) Rope {
	if len(text) == 0 {
		return r
	}
	if r.root == nil || r.Len() == 0 {
		return FromString(text)
	}

	offset = r.clampOffset(offset)
	if offset == 0 {
		return FromString(text).Concat(r)
	}
	if offset == r.Len() {
		return r.Concat(FromString(text))
	}

	left, right := r.Split(offset)
	return left.Concat(FromString(text)).Concat(right)
}

// Delete removes text in the byte range [start, end).
// Returns a new rope; original is unchanged.
func (r Rope) Delete(start, end int) Rope {
	start, end = r.clampRange(start, end)
	if r.root == nil || start >= end {
		return r
	}

	ropeLen := r.Len()
	if start == 0 && end == ropeLen {
		return New()
	}
	if start == 0 {
		_, right := r.Split(end)
		return right
	}
	if end == ropeLen {
		left, _ := r.Split(start)
		return left
	}

	left, rest := r.Split(start)
	_, right := rest.Split(end - start)
	return left.Concat(right)
}

// Replace replaces text in the byte range [start, end) with new text.
// Returns a new rope; original is unchanged.
func (r Rope) Replace(start, end int, text string) Rope {
	start, end = r.clampRange(start, end)
	if start >= end {
		return r.Insert(start, text)
	}
	if len(text) == 0 {
		return r.Delete(start, end)
	}
	return r.Delete(start, end).Insert(start, text)
}

// Split splits the rope at offset, returning two ropes.
// Left rope contains [0, offset), right contains [offset, end).
func (r Rope) Split(offset int) (Rope, Rope) {
	if r.root == nil || offset <= 0 {
		return New(), r
	}
	if offset >= r.Len() {
		return r, New()
	}

	leftRoot, rightRoot := r.root.split(offset)
	return Rope{root: leftRoot}, Rope{root: rightRoot}
}

// Concat concatenates two ropes.
// Returns a new rope; originals are unchanged.
func (r Rope) Concat(other Rope) Rope {
	if r.root == nil || r.Len() == 0 {
		if other.root == nil {
			return New()
		}
		return other
	}
	if other.root == nil || other.Len() == 0 {
		return r
	}
	return Rope{root: concat(r.root, other.root)}
}

// Summary returns the aggregated metrics for the entire rope.
func (r Rope) Summary() TextSummary {
	if r.root == nil {
		return TextSummary{Flags: FlagASCII}
	}
	return r.root.summary
}

// LineStart returns the byte offset of the first byte of line.
// Lines past the last line return Len.
func (r Rope) LineStart(line int) int {
	if r.root == nil || line <= 0 {
		return 0
	}
	if line >= r.LineCount() {
		return r.Len()
	}
	return r.root.lineStart(line)
}

// LineEnd returns the byte offset of the end of line, excluding its
// trailing '\n'. A preceding '\r' is not stripped.
func (r Rope) LineEnd(line int) int {
	if r.root == nil {
		return 0
	}
	if line < 0 {
		line = 0
	}
	if line >= r.LineCount()-1 {
		return r.Len()
	}
	return r.LineStart(line+1) - 1
}

// ByteToLine returns the line containing the byte offset.
func (r Rope) ByteToLine(offset int) int {
	if r.root == nil {
		return 0
	}
	_, lines := r.root.metricsBefore(r.clampOffset(offset))
	return lines
}

// ByteToChar returns the number of characters before the byte offset.
// Offsets inside a multi-byte character count that character as not yet
// reached.
func (r Rope) ByteToChar(offset int) int {
	if r.root == nil {
		return 0
	}
	chars, _ := r.root.metricsBefore(r.clampOffset(offset))
	return chars
}

// CharToByte returns the byte offset of the char-th character.
// Char indexes past the end return Len.
func (r Rope) CharToByte(char int) int {
	if r.root == nil || char <= 0 {
		return 0
	}
	return r.root.byteOfChar(char)
}

// Height returns the height of the rope tree.
// Useful for debugging and testing balance.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return int(r.root.height) + 1
}

// ChunkCount returns the total number of chunks in the rope.
// Useful for debugging.
func (r Rope) ChunkCount() int {
	if r.root == nil {
		return 0
	}
	return countChunks(r.root)
}

func countChunks(n *Node) int {
	if n.IsLeaf() {
		return len(n.chunks)
	}
	count := 0
	for _, child := range n.children {
		count += countChunks(child)
	}
	return count
}

// Equals returns true if two ropes contain the same text.
// Note: This compares content, not structure.
func (r Rope) Equals(other Rope) bool {
	if r.Len() != other.Len() {
		return false
	}
	if r.root == other.root {
		return true
	}

	it1, it2 := r.Chunks(), other.Chunks()
	var a, b string
	for {
		if len(a) == 0 {
			if !it1.Next() {
				break
			}
			a = it1.Chunk().String()
		}
		if len(b) == 0 {
			if !it2.Next() {
				break
			}
			b = it2.Chunk().String()
		}
		n := min(len(a), len(b))
		if a[:n] != b[:n] {
			return false
		}
		a, b = a[n:], b[n:]
	}
	return true
}

func (r Rope) clampOffset(offset int) int {
	return max(0, min(offset, r.Len()))
}

func (r Rope) clampRange(start, end int) (int, int) {
	return r.clampOffset(start), r.clampOffset(end)
}
