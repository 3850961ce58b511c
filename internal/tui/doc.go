// Package tui is a minimal terminal front-end for an engine.Editor.
//
// The App draws the document with syntax colors and a status line, and
// maps keys to editor operations:
//
//	arrows, Home, End, PgUp, PgDn   move (Shift extends the selection)
//	Enter, Tab, printable keys      insert
//	Backspace, Delete               delete
//	Ctrl-A                          select all
//	Ctrl-Z, Ctrl-Y                  undo, redo
//	Ctrl-S                          save
//	Ctrl-Q                          quit (twice if there are unsaved changes)
//
// Rendering goes through the Screen interface, which tcell.Screen
// satisfies.
package tui
