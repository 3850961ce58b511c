package tui

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Action is an editor operation bound to a key.
type Action uint8

// Actions.
const (
	ActionNone Action = iota
	ActionInsert
	ActionNewline
	ActionTab
	ActionBackspace
	ActionDelete
	ActionLeft
	ActionRight
	ActionUp
	ActionDown
	ActionHome
	ActionEnd
	ActionPageUp
	ActionPageDown
	ActionSelectAll
	ActionUndo
	ActionRedo
	ActionSave
	ActionQuit
)

var actionNames = [...]string{
	ActionNone:      "none",
	ActionInsert:    "insert",
	ActionNewline:   "newline",
	ActionTab:       "tab",
	ActionBackspace: "backspace",
	ActionDelete:    "delete",
	ActionLeft:      "left",
	ActionRight:     "right",
	ActionUp:        "up",
	ActionDown:      "down",
	ActionHome:      "home",
	ActionEnd:       "end",
	ActionPageUp:    "pageup",
	ActionPageDown:  "pagedown",
	ActionSelectAll: "selectall",
	ActionUndo:      "undo",
	ActionRedo:      "redo",
	ActionSave:      "save",
	ActionQuit:      "quit",
}

// String returns the action name.
func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// IsMotion returns true for cursor movements.
func (a Action) IsMotion() bool {
	return a >= ActionLeft && a <= ActionPageDown
}

// Command is a resolved key press.
type Command struct {
	Action Action

	// Rune is the character to insert for ActionInsert.
	Rune rune

	// Extend is set for Shift+motion, which extends the selection.
	Extend bool
}

// ctrlRunes binds Ctrl+letter when the terminal reports it as a modified
// rune rather than a control key.
var ctrlRunes = map[rune]Command{
	'a': {Action: ActionSelectAll},
	'z': {Action: ActionUndo},
	'y': {Action: ActionRedo},
	's': {Action: ActionSave},
	'q': {Action: ActionQuit},
}

// MapKey resolves a key event to a command. Unbound keys yield ActionNone.
func MapKey(ev *tcell.EventKey) Command {
	shift := ev.Modifiers()&tcell.ModShift != 0

	switch ev.Key() {
	case tcell.KeyRune:
		mods := ev.Modifiers()
		if mods&(tcell.ModAlt|tcell.ModMeta) != 0 {
			return Command{}
		}
		if mods&tcell.ModCtrl != 0 {
			return ctrlRunes[unicode.ToLower(ev.Rune())]
		}
		return Command{Action: ActionInsert, Rune: ev.Rune()}
	case tcell.KeyEnter:
		return Command{Action: ActionNewline}
	case tcell.KeyTab:
		return Command{Action: ActionTab}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return Command{Action: ActionBackspace}
	case tcell.KeyDelete:
		return Command{Action: ActionDelete}
	case tcell.KeyLeft:
		return Command{Action: ActionLeft, Extend: shift}
	case tcell.KeyRight:
		return Command{Action: ActionRight, Extend: shift}
	case tcell.KeyUp:
		return Command{Action: ActionUp, Extend: shift}
	case tcell.KeyDown:
		return Command{Action: ActionDown, Extend: shift}
	case tcell.KeyHome:
		return Command{Action: ActionHome, Extend: shift}
	case tcell.KeyEnd:
		return Command{Action: ActionEnd, Extend: shift}
	case tcell.KeyPgUp:
		return Command{Action: ActionPageUp, Extend: shift}
	case tcell.KeyPgDn:
		return Command{Action: ActionPageDown, Extend: shift}
	case tcell.KeyCtrlA:
		return Command{Action: ActionSelectAll}
	case tcell.KeyCtrlZ:
		return Command{Action: ActionUndo}
	case tcell.KeyCtrlY:
		return Command{Action: ActionRedo}
	case tcell.KeyCtrlS:
		return Command{Action: ActionSave}
	case tcell.KeyCtrlQ:
		return Command{Action: ActionQuit}
	default:
		return Command{}
	}
}
