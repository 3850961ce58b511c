package rope

import "unicode/utf8"

// chunkIterFrame represents a position in the tree traversal for chunk iteration.
type chunkIterFrame struct {
	node *Node
	idx  int // next child (internal) or chunk (leaf) to visit
}

// ChunkIterator iterates over chunks in a rope.
type ChunkIterator struct {
	stack  []chunkIterFrame
	chunk  Chunk
	offset int
	next   int
}

// Chunks returns an iterator over all chunks in the rope.
func (r Rope) Chunks() *ChunkIterator {
	it := &ChunkIterator{stack: make([]chunkIterFrame, 0, 16)}
	if r.root != nil {
		it.stack = append(it.stack, chunkIterFrame{node: r.root})
	}
	return it
}

// Next advances to the next chunk.
// Returns true if there is a chunk, false if iteration is complete.
func (it *ChunkIterator) Next() bool {
	for len(it.stack) > 0 {
		frame := &it.stack[len(it.stack)-1]
		node := frame.node

		if node.IsLeaf() {
			if frame.idx < len(node.chunks) {
				it.chunk = node.chunks[frame.idx]
				frame.idx++
				it.offset = it.next
				it.next += it.chunk.Len()
				return true
			}
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}

		if frame.idx < len(node.children) {
			child := node.children[frame.idx]
			frame.idx++
			it.stack = append(it.stack, chunkIterFrame{node: child})
			continue
		}
		it.stack = it.stack[:len(it.stack)-1]
	}
	return false
}

// Chunk returns the current chunk.
func (it *ChunkIterator) Chunk() Chunk {
	return it.chunk
}

// Offset returns the byte offset of the start of the current chunk.
func (it *ChunkIterator) Offset() int {
	return it.offset
}

// LineIterator iterates over lines in a rope.
type LineIterator struct {
	rope    Rope
	line    int
	start   int
	end     int
	text    string
	started bool
}

// Lines returns an iterator over all lines in the rope.
// An empty rope yields one empty line.
func (r Rope) Lines() *LineIterator {
	return &LineIterator{rope: r}
}

// Next advances to the next line.
func (it *LineIterator) Next() bool {
	if it.started {
		it.line++
	}
	it.started = true
	if it.line >= it.rope.LineCount() {
		return false
	}

	it.start = it.rope.LineStart(it.line)
	it.end = it.rope.LineEnd(it.line)
	it.text = it.rope.Slice(it.start, it.end)
	return true
}

// Text returns the text of the current line (without newline).
func (it *LineIterator) Text() string {
	return it.text
}

// Line returns the current line number (0-indexed).
func (it *LineIterator) Line() int {
	return it.line
}

// StartOffset returns the byte offset of the start of the current line.
func (it *LineIterator) StartOffset() int {
	return it.start
}

// EndOffset returns the byte offset of the end of the current line.
func (it *LineIterator) EndOffset() int {
	return it.end
}

// RuneIterator iterates over runes in a rope.
type RuneIterator struct {
	chunks  *ChunkIterator
	data    string
	base    int
	idx     int
	current rune
	size    int
}

// Runes returns an iterator over all runes in the rope.
func (r Rope) Runes() *RuneIterator {
	return &RuneIterator{chunks: r.Chunks()}
}

// Next advances to the next rune.
func (it *RuneIterator) Next() bool {
	it.idx += it.size
	for it.idx >= len(it.data) {
		if !it.chunks.Next() {
			it.size = 0
			return false
		}
		it.data = it.chunks.Chunk().String()
		it.base = it.chunks.Offset()
		it.idx = 0
	}
	it.current, it.size = utf8.DecodeRuneInString(it.data[it.idx:])
	return true
}

// Rune returns the current rune.
func (it *RuneIterator) Rune() rune {
	return it.current
}

// Size returns the byte size of the current rune.
func (it *RuneIterator) Size() int {
	return it.size
}

// Offset returns the byte offset of the current rune.
func (it *RuneIterator) Offset() int {
	return it.base + it.idx
}
