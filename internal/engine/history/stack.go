package history

import (
	"errors"
	"time"

	"github.com/dshills/editcore/internal/engine/buffer"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries is the undo bound used when none is configured.
const DefaultMaxEntries = 1000

// entry is one undo unit: a single edit or a group applied together.
// Edits are kept in application order.
type entry struct {
	label     string
	edits     []Edit
	timestamp time.Time
}

// EntryInfo provides read-only info about an undo unit.
// Used for displaying undo/redo history to users.
type EntryInfo struct {
	Label     string
	Edits     int
	Timestamp time.Time
}

func (e *entry) info() EntryInfo {
	return EntryInfo{Label: e.label, Edits: len(e.edits), Timestamp: e.timestamp}
}

// Journal is a linear undo/redo history over two stacks.
//
// Recording a new edit clears the redo stack; history never branches.
// When a new entry would exceed MaxEntries, the oldest entry is evicted.
// Journal is not safe for concurrent use.
type Journal struct {
	undoStack []*entry
	redoStack []*entry

	// Grouping state
	grouping   bool
	groupLabel string
	groupEdits []Edit

	maxEntries int
}

// NewJournal creates a journal holding at most maxEntries undo units.
// A non-positive value selects DefaultMaxEntries.
func NewJournal(maxEntries int) *Journal {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Journal{maxEntries: maxEntries}
}

// Record pushes an already-applied edit onto the undo stack and clears
// redo. No-op edits are ignored.
func (j *Journal) Record(e Edit) {
	if e.IsNoop() {
		return
	}
	if j.grouping {
		j.groupEdits = append(j.groupEdits, e)
		return
	}
	j.push(&entry{edits: []Edit{e}, timestamp: time.Now()})
}

// RecordGroup pushes already-applied edits, in application order, as a
// single undo unit.
func (j *Journal) RecordGroup(label string, edits []Edit) {
	kept := make([]Edit, 0, len(edits))
	for _, e := range edits {
		if !e.IsNoop() {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		return
	}
	if j.grouping {
		j.groupEdits = append(j.groupEdits, kept...)
		return
	}
	j.push(&entry{label: label, edits: kept, timestamp: time.Now()})
}

func (j *Journal) push(e *entry) {
	if len(j.undoStack) >= j.maxEntries {
		excess := len(j.undoStack) - j.maxEntries + 1
		j.undoStack = append(j.undoStack[:0:0], j.undoStack[excess:]...)
	}
	j.undoStack = append(j.undoStack, e)
	j.redoStack = nil
}

// Undo reverts the most recent undo unit on buf and moves it to the redo
// stack. It returns the unit's lowest-position edit, whose Position is
// where the cursor belongs afterwards.
//
// If the buffer no longer matches the recorded edits, buf is restored to
// its state before the call, the stacks are left unchanged and the error
// is returned.
func (j *Journal) Undo(buf *buffer.Buffer) (Edit, error) {
	if len(j.undoStack) == 0 {
		return Edit{}, ErrNothingToUndo
	}
	e := j.undoStack[len(j.undoStack)-1]

	snapshot := buf.Rope()
	for i := len(e.edits) - 1; i >= 0; i-- {
		if err := e.edits[i].Invert().Apply(buf); err != nil {
			buf.Restore(snapshot)
			return Edit{}, err
		}
	}

	j.undoStack = j.undoStack[:len(j.undoStack)-1]
	j.redoStack = append(j.redoStack, e)
	return lowest(e.edits), nil
}

// Redo re-applies the most recently undone unit and moves it back to the
// undo stack. It returns the unit's lowest-position edit; the cursor
// belongs at its End.
func (j *Journal) Redo(buf *buffer.Buffer) (Edit, error) {
	if len(j.redoStack) == 0 {
		return Edit{}, ErrNothingToRedo
	}
	e := j.redoStack[len(j.redoStack)-1]

	snapshot := buf.Rope()
	for _, edit := range e.edits {
		if err := edit.Apply(buf); err != nil {
			buf.Restore(snapshot)
			return Edit{}, err
		}
	}

	j.redoStack = j.redoStack[:len(j.redoStack)-1]
	j.undoStack = append(j.undoStack, e)
	return lowest(e.edits), nil
}

// CanUndo returns true if undo is available.
func (j *Journal) CanUndo() bool {
	return len(j.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (j *Journal) CanRedo() bool {
	return len(j.redoStack) > 0
}

// UndoCount returns the number of undo units available.
func (j *Journal) UndoCount() int {
	return len(j.undoStack)
}

// RedoCount returns the number of redo units available.
func (j *Journal) RedoCount() int {
	return len(j.redoStack)
}

// Clear removes all undo/redo history and abandons any open group.
func (j *Journal) Clear() {
	j.undoStack = nil
	j.redoStack = nil
	j.grouping = false
	j.groupEdits = nil
}

// PeekUndo returns info about the next undo unit without removing it.
func (j *Journal) PeekUndo() (EntryInfo, bool) {
	if len(j.undoStack) == 0 {
		return EntryInfo{}, false
	}
	return j.undoStack[len(j.undoStack)-1].info(), true
}

// PeekRedo returns info about the next redo unit without removing it.
func (j *Journal) PeekRedo() (EntryInfo, bool) {
	if len(j.redoStack) == 0 {
		return EntryInfo{}, false
	}
	return j.redoStack[len(j.redoStack)-1].info(), true
}

// SetMaxEntries changes the maximum number of undo units.
// If the current stack is larger, oldest entries are removed.
func (j *Journal) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	j.maxEntries = max

	if len(j.undoStack) > max {
		excess := len(j.undoStack) - max
		j.undoStack = j.undoStack[excess:]
	}
}

// MaxEntries returns the maximum number of undo units.
func (j *Journal) MaxEntries() int {
	return j.maxEntries
}
