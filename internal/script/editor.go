package script

import (
	"github.com/dshills/editcore/internal/engine"
	"github.com/dshills/editcore/internal/engine/multiedit"
	"github.com/dshills/editcore/internal/engine/search"
	"github.com/dshills/editcore/internal/logging"
	lua "github.com/yuin/gopher-lua"
)

// editorModule implements the editor Lua module.
type editorModule struct {
	editor *engine.Editor
	logger *logging.Logger
}

// registerEditor preloads the module and installs it as a global.
func registerEditor(L *lua.LState, m *editorModule) {
	L.PreloadModule("editor", m.loader)
	L.Push(L.GetGlobal("require"))
	L.Push(lua.LString("editor"))
	L.Call(1, 1)
	L.SetGlobal("editor", L.Get(-1))
	L.Pop(1)
}

func (m *editorModule) loader(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"content":          m.content,
		"set_content":      m.setContent,
		"line_count":       m.lineCount,
		"line":             m.line,
		"insert":           m.insert,
		"delete":           m.delete,
		"cursor":           m.cursor,
		"move":             m.move,
		"select":           m.selectRange,
		"clear_selection":  m.clearSelection,
		"selected_text":    m.selectedText,
		"undo":             m.undo,
		"redo":             m.redo,
		"find":             m.find,
		"find_next":        m.findNext,
		"replace_all":      m.replaceAll,
		"insert_column":    m.insertColumn,
		"language":         m.language,
		"set_language":     m.setLanguage,
		"dirty":            m.dirty,
		"has_syntax_error": m.hasSyntaxError,
		"log":              m.log,
	})
	L.Push(mod)
	return 1
}

// content() -> string
func (m *editorModule) content(L *lua.LState) int {
	L.Push(lua.LString(m.editor.Content()))
	return 1
}

// set_content(text)
// Replaces the document and clears undo history.
func (m *editorModule) setContent(L *lua.LState) int {
	m.editor.SetContent(L.CheckString(1))
	return 0
}

// line_count() -> number
func (m *editorModule) lineCount(L *lua.LState) int {
	L.Push(lua.LNumber(m.editor.LineCount()))
	return 1
}

// line(n) -> string|nil
// Returns line n with its terminator.
func (m *editorModule) line(L *lua.LState) int {
	text, ok := m.editor.Line(L.CheckInt(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(text))
	return 1
}

// insert(text)
// Inserts at the cursor.
func (m *editorModule) insert(L *lua.LState) int {
	m.editor.InsertText(L.CheckString(1))
	return 0
}

// delete()
// Deletes the selection, or the character after the cursor.
func (m *editorModule) delete(L *lua.LState) int {
	m.editor.Delete()
	return 0
}

// cursor() -> line, column
func (m *editorModule) cursor(L *lua.LState) int {
	return pushPosition(L, m.editor.Cursor())
}

// move(line, column)
func (m *editorModule) move(L *lua.LState) int {
	m.editor.MoveCursor(checkPosition(L, 1))
	return 0
}

// select(start_line, start_col, end_line, end_col)
func (m *editorModule) selectRange(L *lua.LState) int {
	m.editor.SetSelection(checkPosition(L, 1), checkPosition(L, 3))
	return 0
}

func (m *editorModule) clearSelection(L *lua.LState) int {
	m.editor.ClearSelection()
	return 0
}

// selected_text() -> string
func (m *editorModule) selectedText(L *lua.LState) int {
	L.Push(lua.LString(m.editor.SelectedText()))
	return 1
}

// undo() -> bool
func (m *editorModule) undo(L *lua.LState) int {
	L.Push(lua.LBool(m.editor.Undo()))
	return 1
}

// redo() -> bool
func (m *editorModule) redo(L *lua.LState) int {
	L.Push(lua.LBool(m.editor.Redo()))
	return 1
}

// find(query [, opts]) -> {match, ...}
func (m *editorModule) find(L *lua.LState) int {
	matches, err := m.editor.Find(L.CheckString(1), checkOptions(L, 2))
	if err != nil {
		L.RaiseError("find: %v", err)
		return 0
	}
	t := L.CreateTable(len(matches), 0)
	for _, match := range matches {
		t.Append(matchTable(L, match))
	}
	L.Push(t)
	return 1
}

// find_next(query [, opts]) -> match|nil
// Selects the match and moves the cursor past it.
func (m *editorModule) findNext(L *lua.LState) int {
	match, ok, err := m.editor.FindNext(L.CheckString(1), checkOptions(L, 2))
	if err != nil {
		L.RaiseError("find_next: %v", err)
		return 0
	}
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(matchTable(L, match))
	return 1
}

// replace_all(query, replacement [, opts]) -> count
func (m *editorModule) replaceAll(L *lua.LState) int {
	n, err := m.editor.ReplaceAll(L.CheckString(1), L.CheckString(2), checkOptions(L, 3))
	if err != nil {
		L.RaiseError("replace_all: %v", err)
		return 0
	}
	L.Push(lua.LNumber(n))
	return 1
}

// insert_column(start_line, start_col, end_line, end_col, text) -> skipped
// Returns the number of lines too short to receive the text.
func (m *editorModule) insertColumn(L *lua.LState) int {
	cs := multiedit.NewColumnSelection(checkPosition(L, 1), checkPosition(L, 3))
	skipped, err := m.editor.InsertColumn(cs, L.CheckString(5))
	if err != nil {
		L.RaiseError("insert_column: %v", err)
		return 0
	}
	L.Push(lua.LNumber(len(skipped)))
	return 1
}

// language() -> string
func (m *editorModule) language(L *lua.LState) int {
	L.Push(lua.LString(m.editor.Language().String()))
	return 1
}

// set_language(id)
func (m *editorModule) setLanguage(L *lua.LState) int {
	m.editor.SetLanguageID(L.CheckString(1))
	return 0
}

func (m *editorModule) dirty(L *lua.LState) int {
	L.Push(lua.LBool(m.editor.IsDirty()))
	return 1
}

func (m *editorModule) hasSyntaxError(L *lua.LState) int {
	L.Push(lua.LBool(m.editor.HasSyntaxError()))
	return 1
}

// log(message)
func (m *editorModule) log(L *lua.LState) int {
	m.logger.Info("%s", L.CheckString(1))
	return 0
}

func checkPosition(L *lua.LState, n int) engine.Position {
	return engine.Pos(L.CheckInt(n), L.CheckInt(n+1))
}

func pushPosition(L *lua.LState, p engine.Position) int {
	L.Push(lua.LNumber(p.Line))
	L.Push(lua.LNumber(p.Column))
	return 2
}

// checkOptions reads an optional search options table with the fields
// case_sensitive, whole_word, regex and backwards.
func checkOptions(L *lua.LState, n int) search.Options {
	t := L.OptTable(n, nil)
	if t == nil {
		return search.Options{}
	}
	return search.Options{
		CaseSensitive: lua.LVAsBool(t.RawGetString("case_sensitive")),
		WholeWord:     lua.LVAsBool(t.RawGetString("whole_word")),
		Regex:         lua.LVAsBool(t.RawGetString("regex")),
		Backwards:     lua.LVAsBool(t.RawGetString("backwards")),
	}
}

func matchTable(L *lua.LState, m search.Match) *lua.LTable {
	t := L.CreateTable(0, 5)
	t.RawSetString("line", lua.LNumber(m.Start.Line))
	t.RawSetString("col", lua.LNumber(m.Start.Column))
	t.RawSetString("end_line", lua.LNumber(m.End.Line))
	t.RawSetString("end_col", lua.LNumber(m.End.Column))
	t.RawSetString("text", lua.LString(m.Text))
	return t
}
