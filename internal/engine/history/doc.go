// Package history provides undo/redo for the text editor engine.
//
// # Edits
//
// An Edit is a reversible record of one change at a byte offset:
//
//	Edit{Position: 6, DeletedText: "World", InsertedText: "Go"}
//
// Applying it removes len(DeletedText) bytes at Position and then inserts
// InsertedText there. Invert swaps the two texts, so applying an edit and
// then its inverse restores the original bytes exactly. Apply refuses to
// run when the buffer does not hold DeletedText at Position.
//
// # Journal
//
// The Journal keeps two stacks. Recording an edit pushes it to the undo
// stack and clears the redo stack, so history is linear:
//
//	j := NewJournal(1000)
//	j.Record(Insertion(0, "Hello"))
//
//	edit, err := j.Undo(buf) // cursor goes to edit.Position
//	edit, err = j.Redo(buf)  // cursor goes to edit.End()
//
// At capacity the oldest entry is evicted when a new one is recorded,
// never when undoing.
//
// # Grouping
//
// Several edits can form one undo unit:
//
//	j.BeginGroup("Replace All")
//	// ... record edits ...
//	j.EndGroup()
//
// RecordGroup does the same for edits that were applied as a batch. A
// group undoes in reverse application order.
package history
