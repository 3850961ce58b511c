package cursor

import "github.com/dshills/editcore/internal/engine/buffer"

// TransformOffset updates an offset after a buffer change.
//
// Transformation rules:
//   - If the change ends at or before offset: shift by the change's delta
//   - If the change starts at or after offset: offset unchanged
//   - If the change spans offset: move offset to the end of the new text
//
// A pure insertion exactly at offset leaves the offset in place; use
// TransformOffsetSticky to choose.
func TransformOffset(offset int, c buffer.Change) int {
	if c.StartByte == c.OldEndByte && c.StartByte == offset {
		return offset
	}
	if c.OldEndByte <= offset {
		return offset + c.NewEndByte - c.OldEndByte
	}
	if c.StartByte >= offset {
		return offset
	}
	return c.NewEndByte
}

// TransformOffsetSticky is like TransformOffset but decides what happens
// when an insertion lands exactly at the offset. If sticky is true the
// offset stays before the inserted text; otherwise it moves past it.
func TransformOffsetSticky(offset int, c buffer.Change, sticky bool) int {
	if c.StartByte == c.OldEndByte && c.StartByte == offset {
		if sticky {
			return offset
		}
		return c.NewEndByte
	}
	return TransformOffset(offset, c)
}

// TransformOffsets applies a sequence of changes, in the order they were
// made, to every offset in place. Insertions at an offset move it past the
// inserted text.
func TransformOffsets(offsets []int, changes []buffer.Change) {
	for _, c := range changes {
		for i, off := range offsets {
			offsets[i] = TransformOffsetSticky(off, c, false)
		}
	}
}
