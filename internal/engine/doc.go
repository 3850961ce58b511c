// Package engine provides the core text editing engine for editcore.
//
// The engine package serves as the main facade. An Editor combines a
// rope-backed buffer, a cursor and optional selection, a linear undo/redo
// journal, atomic multi-location edits and an incremental syntax tree
// into one document.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - rope: B+ tree rope for efficient text storage (O(log n) operations)
//   - buffer: mutable buffer with line/char/byte indexing and position conversion
//   - cursor: selections, multi-cursors and offset transformation
//   - history: reversible edits and the undo/redo journal
//   - multiedit: overlap-checked batches applied in descending order
//   - syntax: language table and incremental tree-sitter sessions
//   - search: find, find-next and replace-all
//
// # Coordinates
//
// Positions are (line, column) pairs counting characters. Out-of-range
// positions clamp: the line to the last line, the column to the line's
// length without its terminator. A clamped position never lands on the
// following line.
//
// # Basic Usage
//
//	e := engine.New()
//	e.InsertText("Hello")
//	e.InsertText(" World")
//	e.Content() // "Hello World"
//
//	e.Undo()    // "Hello"
//	e.Redo()    // "Hello World"
//
// # Selections
//
// Delete removes the selection when it is non-empty and deletes the
// character after the cursor otherwise:
//
//	e.SetSelection(engine.Pos(0, 0), engine.Pos(0, 6))
//	e.Delete() // "World", cursor (0,0), selection cleared
//
// MoveCursor never clears the selection; call ClearSelection for that.
//
// # Batches
//
// ApplyMultiEdit applies edits computed against the current document as
// one mutation and one undo unit. Overlapping edits reject the whole
// batch:
//
//	m := multiedit.New(history.Insertion(0, "a"), history.Insertion(5, "b"))
//	if _, err := e.ApplyMultiEdit(m); errors.Is(err, engine.ErrEditsOverlap) {
//		// document unchanged
//	}
//
// InsertColumn, DeleteColumn, InsertAtCursors and ReplaceAll are built on
// the same path.
//
// # Syntax
//
// SetLanguage picks a grammar from a closed set. After each mutation the
// exact byte and point delta is fed to the previous tree before reparsing,
// so unchanged subtrees are reused. Plain text and Dart have no tree.
//
// # Thread Safety
//
// An Editor is not safe for concurrent use. Independent editors share no
// state and may be used from different goroutines; a host sharing one
// editor must serialize access.
package engine
