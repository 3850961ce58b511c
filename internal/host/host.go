package host

import (
	"sync"
	"unicode/utf8"

	"github.com/dshills/editcore/internal/engine"
	"github.com/dshills/editcore/internal/engine/syntax"
	"github.com/dshills/editcore/internal/logging"
)

// Handle identifies an editor owned by a Registry. The zero Handle is
// never issued, and handles are not reused after Free.
type Handle uint64

// slot holds one editor. mu serializes every operation on it.
type slot struct {
	mu     sync.Mutex
	editor *engine.Editor
	freed  bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger for handle lifecycle messages. Editors
// created by the registry log through the same logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithEditorOptions sets options applied to every editor the registry
// creates.
func WithEditorOptions(opts ...engine.Option) Option {
	return func(r *Registry) {
		r.editorOpts = append(r.editorOpts, opts...)
	}
}

// Registry is an arena of editors indexed by Handle.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	slots map[Handle]*slot
	next  Handle

	logger     *logging.Logger
	editorOpts []engine.Option
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		slots:  make(map[Handle]*slot),
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("host")
	return r
}

// Create creates an empty plain text editor and returns its handle.
func (r *Registry) Create() Handle {
	return r.add(nil)
}

// CreateWithContent creates an editor holding content with the language
// named by lang. Unrecognized language ids select plain text. If either
// argument is not valid UTF-8 no editor is created and the zero Handle is
// returned.
func (r *Registry) CreateWithContent(content, lang []byte) (Handle, ResultCode) {
	if !utf8.Valid(content) || !utf8.Valid(lang) {
		return 0, ResultInvalidUTF8
	}
	return r.add([]engine.Option{
		engine.WithContent(string(content)),
		engine.WithLanguage(syntax.ParseLanguage(string(lang))),
	}), ResultOK
}

func (r *Registry) add(opts []engine.Option) Handle {
	all := make([]engine.Option, 0, len(r.editorOpts)+len(opts)+1)
	all = append(all, engine.WithLogger(r.logger))
	all = append(all, r.editorOpts...)
	all = append(all, opts...)
	ed := engine.New(all...)

	r.mu.Lock()
	r.next++
	h := r.next
	r.slots[h] = &slot{editor: ed}
	r.mu.Unlock()

	r.logger.Debug("created handle %d (editor %s, %s)", h, ed.ID(), ed.Language())
	return h
}

// Free releases the editor behind h. Freeing an unknown or already freed
// handle returns ResultInvalidHandle.
func (r *Registry) Free(h Handle) ResultCode {
	r.mu.Lock()
	s, ok := r.slots[h]
	if ok {
		delete(r.slots, h)
	}
	r.mu.Unlock()

	if !ok {
		r.logger.Warn("free of invalid handle %d", h)
		return ResultInvalidHandle
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.freed = true
	s.editor.Close()
	s.editor = nil
	r.logger.Debug("freed handle %d", h)
	return ResultOK
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots)
}

// Close frees every live handle.
func (r *Registry) Close() {
	r.mu.Lock()
	slots := r.slots
	r.slots = make(map[Handle]*slot)
	r.mu.Unlock()

	for _, s := range slots {
		s.mu.Lock()
		if !s.freed {
			s.freed = true
			s.editor.Close()
			s.editor = nil
		}
		s.mu.Unlock()
	}
	if len(slots) > 0 {
		r.logger.Debug("closed registry with %d live handles", len(slots))
	}
}

// with runs fn with exclusive access to the editor behind h.
func (r *Registry) with(h Handle, fn func(*engine.Editor)) ResultCode {
	r.mu.RLock()
	s, ok := r.slots[h]
	r.mu.RUnlock()
	if !ok {
		return ResultInvalidHandle
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.freed {
		return ResultInvalidHandle
	}
	fn(s.editor)
	return ResultOK
}

// Content returns the full document text.
func (r *Registry) Content(h Handle) (string, ResultCode) {
	var text string
	rc := r.with(h, func(e *engine.Editor) {
		text = e.Content()
	})
	return text, rc
}

// SetContent replaces the whole document. It clears undo history.
func (r *Registry) SetContent(h Handle, text []byte) ResultCode {
	if !utf8.Valid(text) {
		return r.rejectUTF8(h, "set content")
	}
	return r.with(h, func(e *engine.Editor) {
		e.SetContent(string(text))
	})
}

// InsertText inserts text at the cursor and moves the cursor past it. An
// active selection is kept, not replaced.
func (r *Registry) InsertText(h Handle, text []byte) ResultCode {
	if !utf8.Valid(text) {
		return r.rejectUTF8(h, "insert")
	}
	return r.with(h, func(e *engine.Editor) {
		e.InsertText(string(text))
	})
}

// rejectUTF8 reports invalid input, preferring ResultInvalidHandle when the
// handle is dead as well.
func (r *Registry) rejectUTF8(h Handle, op string) ResultCode {
	if rc := r.with(h, func(*engine.Editor) {}); rc != ResultOK {
		return rc
	}
	r.logger.Warn("%s on handle %d: rejected invalid UTF-8", op, h)
	return ResultInvalidUTF8
}

// Delete removes the selection, or the character after the cursor.
func (r *Registry) Delete(h Handle) ResultCode {
	return r.with(h, func(e *engine.Editor) {
		e.Delete()
	})
}

// Cursor returns the cursor line and column.
func (r *Registry) Cursor(h Handle) (line, column int, rc ResultCode) {
	rc = r.with(h, func(e *engine.Editor) {
		p := e.Cursor()
		line, column = p.Line, p.Column
	})
	return line, column, rc
}

// MoveCursor moves the cursor, clamping to the document.
func (r *Registry) MoveCursor(h Handle, line, column int) ResultCode {
	return r.with(h, func(e *engine.Editor) {
		e.MoveCursor(engine.Pos(line, column))
	})
}

// SetSelection selects from the start position to the end position.
// Both positions are clamped.
func (r *Registry) SetSelection(h Handle, startLine, startCol, endLine, endCol int) ResultCode {
	return r.with(h, func(e *engine.Editor) {
		e.SetSelection(engine.Pos(startLine, startCol), engine.Pos(endLine, endCol))
	})
}

// ClearSelection removes the selection.
func (r *Registry) ClearSelection(h Handle) ResultCode {
	return r.with(h, func(e *engine.Editor) {
		e.ClearSelection()
	})
}

// Undo reverts the most recent edit or batch.
func (r *Registry) Undo(h Handle) HistoryResult {
	return r.history(h, "undo", (*engine.Editor).CanUndo, (*engine.Editor).Undo)
}

// Redo re-applies the most recently undone edit or batch.
func (r *Registry) Redo(h Handle) HistoryResult {
	return r.history(h, "redo", (*engine.Editor).CanRedo, (*engine.Editor).Redo)
}

func (r *Registry) history(h Handle, op string, can, do func(*engine.Editor) bool) HistoryResult {
	result := HistoryError
	rc := r.with(h, func(e *engine.Editor) {
		switch {
		case !can(e):
			result = HistoryEmpty
		case do(e):
			result = HistoryPerformed
		default:
			r.logger.Error("%s on handle %d failed", op, h)
		}
	})
	if rc != ResultOK {
		return HistoryError
	}
	return result
}

// SetLanguage sets the document language from an id such as "rs" or
// "python". Unrecognized ids select plain text.
func (r *Registry) SetLanguage(h Handle, id []byte) ResultCode {
	if !utf8.Valid(id) {
		return r.rejectUTF8(h, "set language")
	}
	return r.with(h, func(e *engine.Editor) {
		e.SetLanguageID(string(id))
	})
}

// LineCount returns the number of lines.
func (r *Registry) LineCount(h Handle) (int, ResultCode) {
	var n int
	rc := r.with(h, func(e *engine.Editor) {
		n = e.LineCount()
	})
	return n, rc
}

// Line returns line i including its terminator. The boolean is false if
// i is out of bounds.
func (r *Registry) Line(h Handle, i int) (string, bool, ResultCode) {
	var (
		line string
		ok   bool
	)
	rc := r.with(h, func(e *engine.Editor) {
		line, ok = e.Line(i)
	})
	return line, ok, rc
}

// IsDirty reports whether the document changed since it was last saved.
func (r *Registry) IsDirty(h Handle) (bool, ResultCode) {
	var dirty bool
	rc := r.with(h, func(e *engine.Editor) {
		dirty = e.IsDirty()
	})
	return dirty, rc
}

// MarkSaved clears the dirty flag.
func (r *Registry) MarkSaved(h Handle) ResultCode {
	return r.with(h, func(e *engine.Editor) {
		e.MarkSaved()
	})
}
