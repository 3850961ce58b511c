// Package script runs Lua scripts against an Editor.
//
// Scripts execute in a sandboxed gopher-lua state: only the base, string,
// table and math libraries are available, file loading functions are
// removed and require only resolves those libraries plus the "editor"
// module, which is also installed as the global editor.
//
// Positions in the editor module are zero-based (line, column) pairs, the
// same as the engine's. Every edit a script makes is recorded in the
// editor's undo history.
//
//	local n = editor.replace_all("teh", "the")
//	editor.move(0, 0)
//	editor.insert("-- fixed " .. n .. " typos\n")
package script
