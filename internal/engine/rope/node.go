package rope

import "strings"

// Tree structure constants
const (
	// MaxChildren is the maximum children per internal node before splitting.
	MaxChildren = 8

	// MaxChunksPerLeaf is the maximum chunks in a leaf node.
	MaxChunksPerLeaf = 4
)

// Node is a node in the rope B+ tree.
// Leaf nodes (height == 0) hold text chunks; internal nodes hold children
// and a copy of each child's summary for seeking.
type Node struct {
	height  uint8
	summary TextSummary

	children       []*Node
	childSummaries []TextSummary

	chunks []Chunk
}

func newLeafNode() *Node {
	return &Node{chunks: make([]Chunk, 0, MaxChunksPerLeaf)}
}

func newLeafNodeWithChunks(chunks []Chunk) *Node {
	n := &Node{chunks: chunks}
	for _, c := range chunks {
		n.summary = n.summary.Add(c.Summary())
	}
	if n.summary.Bytes == 0 {
		n.summary.Flags = FlagASCII
	}
	return n
}

func newInternalNode(children []*Node) *Node {
	if len(children) == 0 {
		return newLeafNode()
	}

	summaries := make([]TextSummary, len(children))
	var total TextSummary
	for i, child := range children {
		summaries[i] = child.summary
		total = total.Add(child.summary)
	}

	return &Node{
		height:         children[0].height + 1,
		summary:        total,
		children:       children,
		childSummaries: summaries,
	}
}

// IsLeaf returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.height == 0
}

// Len returns the byte length of text in this subtree.
func (n *Node) Len() int {
	return n.summary.Bytes
}

func (n *Node) appendTo(sb *strings.Builder) {
	if n.IsLeaf() {
		for _, chunk := range n.chunks {
			sb.WriteString(chunk.String())
		}
		return
	}
	for _, child := range n.children {
		child.appendTo(sb)
	}
}

// appendRange appends the bytes in [start, end) of this subtree.
func (n *Node) appendRange(sb *strings.Builder, start, end int) {
	if start >= end {
		return
	}

	if n.IsLeaf() {
		offset := 0
		for _, chunk := range n.chunks {
			chunkEnd := offset + chunk.Len()
			if chunkEnd <= start {
				offset = chunkEnd
				continue
			}
			if offset >= end {
				return
			}
			lo := max(start-offset, 0)
			hi := min(end-offset, chunk.Len())
			sb.WriteString(chunk.String()[lo:hi])
			offset = chunkEnd
		}
		return
	}

	offset := 0
	for i, child := range n.children {
		childEnd := offset + n.childSummaries[i].Bytes
		if childEnd <= start {
			offset = childEnd
			continue
		}
		if offset >= end {
			return
		}
		child.appendRange(sb, max(start-offset, 0), min(end, childEnd)-offset)
		offset = childEnd
	}
}

// split splits the node at a byte offset: left holds [0, offset), right
// holds [offset, Len()).
func (n *Node) split(offset int) (*Node, *Node) {
	if offset <= 0 {
		return newLeafNode(), n
	}
	if offset >= n.Len() {
		return n, newLeafNode()
	}

	if n.IsLeaf() {
		var left, right []Chunk
		pos := 0
		for _, chunk := range n.chunks {
			switch {
			case pos+chunk.Len() <= offset:
				left = append(left, chunk)
			case pos >= offset:
				right = append(right, chunk)
			default:
				l, r := chunk.Split(offset - pos)
				if !l.IsEmpty() {
					left = append(left, l)
				}
				if !r.IsEmpty() {
					right = append(right, r)
				}
			}
			pos += chunk.Len()
		}
		return newLeafNodeWithChunks(left), newLeafNodeWithChunks(right)
	}

	var left, right []*Node
	pos := 0
	for i, child := range n.children {
		childLen := n.childSummaries[i].Bytes
		switch {
		case pos+childLen <= offset:
			left = append(left, child)
		case pos >= offset:
			right = append(right, child)
		default:
			l, r := child.split(offset - pos)
			if l.Len() > 0 {
				left = append(left, l)
			}
			if r.Len() > 0 {
				right = append(right, r)
			}
		}
		pos += childLen
	}
	return buildNodeFromChildren(left), buildNodeFromChildren(right)
}

// buildNodeFromChildren creates a balanced tree over a list of nodes.
// Children of mixed heights are lifted to the tallest height first.
func buildNodeFromChildren(children []*Node) *Node {
	switch len(children) {
	case 0:
		return newLeafNode()
	case 1:
		return children[0]
	}

	var height uint8
	for _, c := range children {
		height = max(height, c.height)
	}
	for i, c := range children {
		for c.height < height {
			c = newInternalNode([]*Node{c})
		}
		children[i] = c
	}

	if len(children) <= MaxChildren {
		return newInternalNode(children)
	}

	parents := make([]*Node, 0, len(children)/MaxChildren+1)
	for i := 0; i < len(children); i += MaxChildren {
		end := min(i+MaxChildren, len(children))
		group := make([]*Node, end-i)
		copy(group, children[i:end])
		parents = append(parents, newInternalNode(group))
	}
	return buildNodeFromChildren(parents)
}

// concat joins two subtrees.
func concat(left, right *Node) *Node {
	if left == nil || left.Len() == 0 {
		if right == nil {
			return newLeafNode()
		}
		return right
	}
	if right == nil || right.Len() == 0 {
		return left
	}

	switch {
	case left.IsLeaf() && right.IsLeaf():
		return concatLeaves(left, right)

	case left.height > right.height:
		last := len(left.children) - 1
		seam := concat(left.children[last], right)
		children := make([]*Node, 0, len(left.children)+MaxChildren)
		children = append(children, left.children[:last]...)
		children = appendSeam(children, seam, left.height)
		return buildNodeFromChildren(children)

	case right.height > left.height:
		seam := concat(left, right.children[0])
		children := make([]*Node, 0, len(right.children)+MaxChildren)
		children = appendSeam(children, seam, right.height)
		children = append(children, right.children[1:]...)
		return buildNodeFromChildren(children)
	}

	last := len(left.children) - 1
	seam := concat(left.children[last], right.children[0])
	children := make([]*Node, 0, len(left.children)+len(right.children)+MaxChildren)
	children = append(children, left.children[:last]...)
	children = appendSeam(children, seam, left.height)
	children = append(children, right.children[1:]...)
	return buildNodeFromChildren(children)
}

// appendSeam appends the result of a seam concat as children of a node at
// the given height, unwrapping it when the concat grew a level.
func appendSeam(children []*Node, seam *Node, height uint8) []*Node {
	if seam.height >= height {
		return append(children, seam.children...)
	}
	return append(children, seam)
}

// concatLeaves joins two leaves, coalescing the chunks at the seam when
// they fit in one chunk so that keystroke-sized inserts do not fragment
// the tree.
func concatLeaves(left, right *Node) *Node {
	chunks := make([]Chunk, 0, len(left.chunks)+len(right.chunks))
	chunks = append(chunks, left.chunks...)

	rightChunks := right.chunks
	if len(chunks) > 0 && len(rightChunks) > 0 {
		last := chunks[len(chunks)-1]
		first := rightChunks[0]
		if last.Len()+first.Len() <= MaxChunkSize {
			chunks[len(chunks)-1] = NewChunk(last.String() + first.String())
			rightChunks = rightChunks[1:]
		}
	}
	chunks = append(chunks, rightChunks...)

	if len(chunks) <= MaxChunksPerLeaf {
		return newLeafNodeWithChunks(chunks)
	}

	leaves := make([]*Node, 0, len(chunks)/MaxChunksPerLeaf+1)
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := min(i+MaxChunksPerLeaf, len(chunks))
		group := make([]Chunk, end-i)
		copy(group, chunks[i:end])
		leaves = append(leaves, newLeafNodeWithChunks(group))
	}
	return buildNodeFromChildren(leaves)
}

// lineStart returns the byte offset just past the line-th newline in the
// subtree. The caller guarantees 1 <= line <= summary.Lines.
func (n *Node) lineStart(line int) int {
	offset := 0
	node := n
	for !node.IsLeaf() {
		idx := len(node.children) - 1
		for i, s := range node.childSummaries {
			if s.Lines >= line {
				idx = i
				break
			}
			line -= s.Lines
			offset += s.Bytes
		}
		node = node.children[idx]
	}

	for _, chunk := range node.chunks {
		s := chunk.Summary()
		if s.Lines >= line {
			return offset + nthNewline(chunk.String(), line) + 1
		}
		line -= s.Lines
		offset += chunk.Len()
	}
	return offset
}

// metricsBefore returns the summary of the bytes in [0, offset).
// The offset is rounded down to a character boundary.
func (n *Node) metricsBefore(offset int) (chars, lines int) {
	if offset >= n.summary.Bytes {
		return n.summary.Chars, n.summary.Lines
	}

	node := n
	for !node.IsLeaf() {
		idx := len(node.children) - 1
		for i, s := range node.childSummaries {
			if offset < s.Bytes {
				idx = i
				break
			}
			offset -= s.Bytes
			chars += s.Chars
			lines += s.Lines
		}
		node = node.children[idx]
	}

	for _, chunk := range node.chunks {
		if offset >= chunk.Len() {
			s := chunk.Summary()
			chars += s.Chars
			lines += s.Lines
			offset -= chunk.Len()
			continue
		}
		chars += chunk.charOfByte(offset)
		lines += countNewlines(chunk.String()[:floorCharBoundary(chunk.String(), offset)])
		return chars, lines
	}
	return chars, lines
}

// byteOfChar returns the byte offset of the char-th character.
func (n *Node) byteOfChar(char int) int {
	if char >= n.summary.Chars {
		return n.summary.Bytes
	}

	offset := 0
	node := n
	for !node.IsLeaf() {
		idx := len(node.children) - 1
		for i, s := range node.childSummaries {
			if char < s.Chars {
				idx = i
				break
			}
			char -= s.Chars
			offset += s.Bytes
		}
		node = node.children[idx]
	}

	for _, chunk := range node.chunks {
		s := chunk.Summary()
		if char < s.Chars {
			return offset + chunk.byteOfChar(char)
		}
		char -= s.Chars
		offset += chunk.Len()
	}
	return offset
}

// byteAt returns the byte at offset. The caller guarantees offset < Len().
func (n *Node) byteAt(offset int) byte {
	node := n
	for !node.IsLeaf() {
		idx := len(node.children) - 1
		for i, s := range node.childSummaries {
			if offset < s.Bytes {
				idx = i
				break
			}
			offset -= s.Bytes
		}
		node = node.children[idx]
	}
	for _, chunk := range node.chunks {
		if offset < chunk.Len() {
			return chunk.String()[offset]
		}
		offset -= chunk.Len()
	}
	return 0
}
