package engine

import (
	"context"
	"errors"
	"io"

	"github.com/dshills/editcore/internal/engine/buffer"
	"github.com/dshills/editcore/internal/engine/cursor"
	"github.com/dshills/editcore/internal/engine/history"
	"github.com/dshills/editcore/internal/engine/syntax"
	"github.com/dshills/editcore/internal/logging"
	"github.com/google/uuid"
	sitter "github.com/smacker/go-tree-sitter"
)

// Re-export commonly used types for convenience.
type (
	// Position is a zero-indexed line and character column.
	Position = buffer.Position

	// Selection is a pair of positions, not necessarily ordered.
	Selection = cursor.Selection

	// Language identifies a supported language.
	Language = syntax.Language
)

// Pos creates a Position.
func Pos(line, column int) Position {
	return buffer.Pos(line, column)
}

// Editor is the main facade for the text editing engine. It combines the
// buffer, cursor and selection, undo/redo journal and syntax session into
// one document.
//
// Ordinary operations never fail: positions clamp to the document and
// operations with nothing to do are no-ops. Only batch operations, which
// can be rejected as a whole, return errors.
//
// An Editor is not safe for concurrent use. Independent editors share no
// state.
type Editor struct {
	id uuid.UUID

	// Core components
	buf     *buffer.Buffer
	journal *history.Journal
	syntax  *syntax.Session
	logger  *logging.Logger

	// Document state
	cursor    Position
	selection *Selection
	lang      syntax.Language
	dirty     bool

	// changes collects buffer changes during one operation
	changes []buffer.Change

	// Configuration
	maxUndo       int
	syntaxEnabled bool

	// Initialization
	initContent string
}

// New creates a new Editor with the given options.
func New(opts ...Option) *Editor {
	e := newEditor(opts)
	e.buf = buffer.NewBufferFromString(e.initContent, buffer.WithObserver(e.observe))
	e.init()
	return e
}

// NewFromReader creates an Editor with content read from r.
func NewFromReader(r io.Reader, opts ...Option) (*Editor, error) {
	e := newEditor(opts)
	var err error
	e.buf, err = buffer.NewBufferFromReader(r, buffer.WithObserver(e.observe))
	if err != nil {
		return nil, err
	}
	e.init()
	return e, nil
}

func newEditor(opts []Option) *Editor {
	e := &Editor{
		maxUndo:       DefaultMaxUndoHistory,
		syntaxEnabled: true,
		lang:          syntax.PlainText,
		logger:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.id == uuid.Nil {
		e.id = uuid.New()
	}
	e.logger = e.logger.WithField("editor", e.id.String()[:8])
	return e
}

func (e *Editor) init() {
	e.journal = history.NewJournal(e.maxUndo)
	e.syntax = syntax.NewSession()
	e.SetLanguage(e.lang)
}

// observe receives every buffer change. The syntax tree is adjusted
// immediately so consecutive changes compose.
func (e *Editor) observe(c buffer.Change) {
	e.changes = append(e.changes, c)
	e.syntax.Edit(c)
}

// ID returns the editor's unique identifier.
func (e *Editor) ID() uuid.UUID {
	return e.id
}

// Close releases the parser and syntax tree. The editor stays usable as
// plain text.
func (e *Editor) Close() {
	e.syntax.Close()
}

// ============================================================================
// Content
// ============================================================================

// Content returns the full document text.
func (e *Editor) Content() string {
	return e.buf.Text()
}

// SetContent replaces the whole document. The cursor moves to (0,0), the
// selection and undo/redo history are cleared and the document is marked
// dirty.
func (e *Editor) SetContent(text string) {
	e.begin()
	e.buf.SetText(text)
	e.cursor = Position{}
	e.selection = nil
	e.journal.Clear()
	e.commit()
	e.dirty = true
}

// LineCount returns the number of lines; an empty document has one.
func (e *Editor) LineCount() int {
	return e.buf.LenLines()
}

// Line returns line i including its terminator, or false if i is out of
// range.
func (e *Editor) Line(i int) (string, bool) {
	return e.buf.Line(i)
}

// LineLen returns the number of characters on line i, terminator
// excluded.
func (e *Editor) LineLen(i int) int {
	return e.buf.LineLen(i)
}

// Len returns the document length in bytes.
func (e *Editor) Len() int {
	return e.buf.LenBytes()
}

// Buffer returns the underlying buffer for read access. Mutating it
// directly bypasses history.
func (e *Editor) Buffer() *buffer.Buffer {
	return e.buf
}

// IsDirty returns true if the document changed since the last MarkSaved.
func (e *Editor) IsDirty() bool {
	return e.dirty
}

// MarkSaved clears the dirty flag.
func (e *Editor) MarkSaved() {
	e.dirty = false
}

// ============================================================================
// Editing
// ============================================================================

// InsertText inserts text at the cursor and moves the cursor past it.
// An active selection is kept and stays on the text it covered; text
// inserted at one of its edges lands outside it.
func (e *Editor) InsertText(text string) {
	if text == "" {
		return
	}
	sel := e.selectionOffsets()
	defer e.followSelection(sel)
	e.begin()
	offset := e.buf.OffsetOf(e.cursor)
	end, err := e.buf.Insert(offset, text)
	if err != nil {
		e.logger.Error("insert at %d: %v", offset, err)
		e.commit()
		return
	}
	e.journal.Record(history.Insertion(offset, text))
	e.cursor = e.buf.PositionAt(end)
	e.commit()
}

// Delete removes the selected text if the selection is non-empty, clearing
// the selection and moving the cursor to its start. Otherwise it deletes
// the character after the cursor; at the end of a line the whole line
// terminator goes. At the end of the document it does nothing.
func (e *Editor) Delete() {
	if e.selection != nil && !e.selection.IsEmpty() {
		r := e.selection.Range(e.buf)
		if r.IsEmpty() {
			e.selection = nil
			return
		}
		e.begin()
		e.remove(r.Start, r.End)
		e.selection = nil
		e.cursor = e.buf.PositionAt(r.Start)
		e.commit()
		return
	}

	offset := e.buf.OffsetOf(e.cursor)
	if offset >= e.buf.LenBytes() {
		return
	}
	sel := e.selectionOffsets()
	defer e.followSelection(sel)
	r, size := e.buf.RuneAt(offset)
	if r == '\r' && offset+1 < e.buf.LenBytes() {
		if next, _ := e.buf.RuneAt(offset + 1); next == '\n' {
			size = 2
		}
	}
	e.begin()
	e.remove(offset, offset+size)
	e.cursor = e.buf.PositionAt(offset)
	e.commit()
}

// selectionOffsets returns the byte offsets of the selection endpoints, or
// nil when there is no selection.
func (e *Editor) selectionOffsets() []int {
	if e.selection == nil {
		return nil
	}
	return []int{e.buf.OffsetOf(e.selection.Start), e.buf.OffsetOf(e.selection.End)}
}

// followSelection moves the selection through the changes of the current
// operation. offsets come from selectionOffsets before the operation.
func (e *Editor) followSelection(offsets []int) {
	if offsets == nil || e.selection == nil {
		return
	}
	lo, hi := 0, 1
	if offsets[1] < offsets[0] {
		lo, hi = 1, 0
	}
	wide := offsets[lo] != offsets[hi]
	for _, c := range e.changes {
		offsets[lo] = cursor.TransformOffsetSticky(offsets[lo], c, false)
		offsets[hi] = cursor.TransformOffsetSticky(offsets[hi], c, wide)
	}
	sel := cursor.NewSelection(e.buf.PositionAt(offsets[0]), e.buf.PositionAt(offsets[1]))
	e.selection = &sel
}

// remove deletes [start, end) and records it.
func (e *Editor) remove(start, end int) {
	deleted := e.buf.Slice(start, end)
	if err := e.buf.Remove(start, end); err != nil {
		e.logger.Error("delete %d-%d: %v", start, end, err)
		return
	}
	e.journal.Record(history.Deletion(start, deleted))
}

// ============================================================================
// Undo/Redo
// ============================================================================

// Undo reverts the most recent edit or batch and moves the cursor to where
// it happened. It returns false if there was nothing to undo.
func (e *Editor) Undo() bool {
	e.begin()
	edit, err := e.journal.Undo(e.buf)
	if err != nil {
		e.historyFailed("undo", err)
		return false
	}
	e.cursor = e.buf.PositionAt(edit.Position)
	e.commit()
	return true
}

// Redo re-applies the most recently undone edit and moves the cursor past
// its inserted text. It returns false if there was nothing to redo.
func (e *Editor) Redo() bool {
	e.begin()
	edit, err := e.journal.Redo(e.buf)
	if err != nil {
		e.historyFailed("redo", err)
		return false
	}
	e.cursor = e.buf.PositionAt(edit.End())
	e.commit()
	return true
}

func (e *Editor) historyFailed(op string, err error) {
	// A failed replay restores the rope wholesale, so the tree edits
	// observed on the way are no longer valid.
	if len(e.changes) > 0 {
		e.resetSyntax()
	}
	e.changes = nil
	if !errors.Is(err, history.ErrNothingToUndo) && !errors.Is(err, history.ErrNothingToRedo) {
		e.logger.Error("%s: %v", op, err)
	}
}

// CanUndo returns true if undo is available.
func (e *Editor) CanUndo() bool {
	return e.journal.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Editor) CanRedo() bool {
	return e.journal.CanRedo()
}

// UndoCount returns the number of undo entries.
func (e *Editor) UndoCount() int {
	return e.journal.UndoCount()
}

// RedoCount returns the number of redo entries.
func (e *Editor) RedoCount() int {
	return e.journal.RedoCount()
}

// SetMaxUndoHistory changes the undo bound. If more entries are held, the
// oldest are dropped.
func (e *Editor) SetMaxUndoHistory(max int) {
	e.journal.SetMaxEntries(max)
}

// ============================================================================
// Cursor and Selection
// ============================================================================

// Cursor returns the cursor position.
func (e *Editor) Cursor() Position {
	return e.cursor
}

// MoveCursor moves the cursor to p, clamped to the document. An active
// selection is not cleared.
func (e *Editor) MoveCursor(p Position) {
	e.cursor = e.buf.Clamp(p)
}

// CursorOffset returns the cursor as a byte offset.
func (e *Editor) CursorOffset() int {
	return e.buf.OffsetOf(e.cursor)
}

// Selection returns the active selection, if any.
func (e *Editor) Selection() (Selection, bool) {
	if e.selection == nil {
		return Selection{}, false
	}
	return *e.selection, true
}

// SetSelection sets the selection. Both ends are clamped to the document;
// their order is kept.
func (e *Editor) SetSelection(start, end Position) {
	sel := cursor.NewSelection(e.buf.Clamp(start), e.buf.Clamp(end))
	e.selection = &sel
}

// ClearSelection removes the selection.
func (e *Editor) ClearSelection() {
	e.selection = nil
}

// SelectedText returns the text covered by the selection.
func (e *Editor) SelectedText() string {
	if e.selection == nil {
		return ""
	}
	r := e.selection.Range(e.buf)
	return e.buf.Slice(r.Start, r.End)
}

// ============================================================================
// Language and Syntax
// ============================================================================

// Language returns the document language.
func (e *Editor) Language() Language {
	return e.lang
}

// SetLanguage switches the document language and rebuilds the syntax tree.
// Languages without a grammar have no tree.
func (e *Editor) SetLanguage(lang Language) {
	if lang != e.lang {
		e.logger.Debug("language %s -> %s", e.lang, lang)
	}
	e.lang = lang
	e.resetSyntax()
}

// SetLanguageID sets the language from an id such as "rs" or "python".
// Unknown ids select plain text.
func (e *Editor) SetLanguageID(id string) {
	e.SetLanguage(syntax.ParseLanguage(id))
}

func (e *Editor) resetSyntax() {
	target := e.lang
	if !e.syntaxEnabled {
		target = syntax.PlainText
	}
	if err := e.syntax.SetLanguage(context.Background(), target, []byte(e.buf.Text())); err != nil {
		e.logger.Error("parse: %v", err)
	}
}

// SyntaxTree returns the latest syntax tree, or nil for plain text.
func (e *Editor) SyntaxTree() *sitter.Tree {
	return e.syntax.Tree()
}

// HasSyntaxError returns true if the syntax tree contains errors.
func (e *Editor) HasSyntaxError() bool {
	return e.syntax.HasError()
}

// Highlights returns classified spans for lines [startLine, endLine).
func (e *Editor) Highlights(startLine, endLine int) []syntax.Span {
	if endLine <= startLine {
		return nil
	}
	start := e.buf.LineToByte(max(startLine, 0))
	end := e.buf.LenBytes()
	if endLine < e.buf.LenLines() {
		end = e.buf.LineToByte(endLine)
	}
	return e.syntax.Highlights(start, end)
}

// ============================================================================
// Mutation bookkeeping
// ============================================================================

// begin starts collecting buffer changes for one operation.
func (e *Editor) begin() {
	e.changes = e.changes[:0]
}

// commit finishes an operation: if the buffer changed, the document is
// marked dirty and reparsed.
func (e *Editor) commit() {
	if len(e.changes) == 0 {
		return
	}
	e.dirty = true
	if err := e.syntax.Reparse(context.Background(), []byte(e.buf.Text())); err != nil {
		e.logger.Error("reparse: %v", err)
	}
}
