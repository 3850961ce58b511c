// Package buffer provides the editable text document used by the engine,
// built on top of the rope data structure.
//
// The buffer package provides:
//
//   - Byte-addressed mutation (Insert, Remove, Replace, SetText, Restore)
//   - Line, char and byte indexing in O(log n)
//   - A position codec converting Position (line, char column) to and from
//     byte and char offsets, with a fixed clamp policy
//   - Change notifications carrying byte and point deltas for incremental
//     parsers
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//	buf.Insert(7, "Beautiful ")  // "Hello, Beautiful World!"
//	buf.Remove(0, 7)             // "Beautiful World!"
//
//	off := buf.OffsetOf(buffer.Pos(0, 9))
//	pos := buf.PositionAt(off)   // (0:9)
//
// Coordinate Types:
//
//   - byte offset: raw index into the UTF-8 text
//   - char offset: index in Unicode scalar values
//   - Position: line and char column, as shown to users
//   - Point: row and byte column, as consumed by syntax trees
//
// Line terminators are never addressable by a column. Columns clamp to the
// line's character count excluding "\n" or "\r\n", lines clamp to the last
// line, and negative values clamp to zero.
package buffer
