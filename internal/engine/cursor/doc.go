// Package cursor provides selection and multi-cursor management for text
// editing.
//
// The cursor package handles:
//
//   - Text selections between two line/column positions via Selection
//   - Multiple simultaneous cursors via MultiCursor
//   - Offset transformation after buffer changes
//
// Selection Model:
//
// A Selection holds Start and End positions in either order. Normalize
// returns the ordered form; Contains and Len operate on it. Contains is
// inclusive at both ends and only compares columns on the first and last
// line of the range.
//
// Basic usage:
//
//	sel := cursor.NewSelection(buffer.Pos(2, 4), buffer.Pos(0, 1))
//	sel.Normalize()              // (0:1) -> (2:4)
//	sel.Contains(buffer.Pos(1, 99))  // true
//	sel.Len(buf)                 // chars between the endpoints
//
//	mc := cursor.NewMultiCursor(buffer.Pos(0, 0))
//	mc.Add(buffer.Pos(1, 0))
//	mc.Count()                   // 2
//
// Thread Safety:
//
// Selection is an immutable value type and safe for concurrent use.
// MultiCursor is not thread-safe and should be protected by external
// synchronization if accessed concurrently.
package cursor
