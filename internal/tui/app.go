package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/editcore/internal/engine"
	"github.com/dshills/editcore/internal/logging"
)

// DefaultTabWidth is the tab stop used when none is configured.
const DefaultTabWidth = 4

// Screen is the subset of tcell.Screen the App draws on.
type Screen interface {
	Init() error
	Fini()
	Size() (width, height int)
	Clear()
	Show()
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	ShowCursor(x, y int)
	HideCursor()
	PollEvent() tcell.Event
	PostEvent(ev tcell.Event) error
}

// Option configures an App.
type Option func(*App)

// WithScreen sets the screen instead of opening the terminal.
func WithScreen(s Screen) Option {
	return func(a *App) {
		a.screen = s
	}
}

// WithPath sets the file the document is saved to.
func WithPath(path string) Option {
	return func(a *App) {
		a.path = path
	}
}

// WithTabWidth sets the tab stop width.
func WithTabWidth(n int) Option {
	return func(a *App) {
		if n > 0 {
			a.tabWidth = n
		}
	}
}

// WithTheme sets the colors.
func WithTheme(t Theme) Option {
	return func(a *App) {
		a.theme = t
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// App is an interactive terminal session on one Editor.
type App struct {
	screen Screen
	editor *engine.Editor
	path   string
	theme  Theme
	logger *logging.Logger

	tabWidth int

	// viewport origin: first visible line and display column
	top, left int

	// goal is the display column vertical motion aims for, or -1. It holds
	// only while the cursor is still at goalAt.
	goal   int
	goalAt engine.Position

	status    string
	quitArmed bool
}

// New creates an App editing ed. Without WithScreen the terminal is used.
func New(ed *engine.Editor, opts ...Option) (*App, error) {
	a := &App{
		editor:   ed,
		theme:    DefaultTheme(),
		logger:   logging.Nop(),
		tabWidth: DefaultTabWidth,
		goal:     -1,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.WithComponent("tui")

	if a.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("open terminal: %w", err)
		}
		a.screen = screen
	}
	return a, nil
}

// Editor returns the document being edited.
func (a *App) Editor() *engine.Editor {
	return a.editor
}

// Status returns the current status message.
func (a *App) Status() string {
	return a.status
}

// Run initializes the screen and processes events until the user quits
// or the screen is finalized.
func (a *App) Run() error {
	if err := a.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer a.screen.Fini()

	a.Draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if err := a.HandleEvent(ev); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			a.status = err.Error()
			a.logger.Error("%v", err)
		}
		a.Draw()
	}
}

// HandleEvent processes one screen event. It returns ErrQuit when the
// user asks to exit.
func (a *App) HandleEvent(ev tcell.Event) error {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return a.Apply(MapKey(e))
	case *tcell.EventResize:
		a.left = 0
		return nil
	case *tcell.EventInterrupt:
		if fn, ok := e.Data().(func() error); ok && fn != nil {
			return fn()
		}
		return nil
	default:
		return nil
	}
}

// Post queues fn to run on the event loop. Use it to touch the editor
// from another goroutine. An error returned by fn is handled like a key
// handler error; ErrQuit ends Run.
func (a *App) Post(fn func() error) error {
	return a.screen.PostEvent(tcell.NewEventInterrupt(fn))
}

// Quit asks a running App to exit.
func (a *App) Quit() error {
	return a.Post(func() error { return ErrQuit })
}

// SetTabWidth changes the tab stop width. Non-positive values are ignored.
func (a *App) SetTabWidth(n int) {
	if n > 0 {
		a.tabWidth = n
	}
}

// Apply performs a command on the editor.
func (a *App) Apply(cmd Command) error {
	if cmd.Action != ActionQuit {
		a.quitArmed = false
	}
	if cmd.Action != ActionNone && !cmd.Action.IsMotion() {
		a.status = ""
	}
	if cmd.Action != ActionUp && cmd.Action != ActionDown &&
		cmd.Action != ActionPageUp && cmd.Action != ActionPageDown {
		a.goal = -1
	}

	ed := a.editor
	switch cmd.Action {
	case ActionInsert:
		a.insert(string(cmd.Rune))
	case ActionNewline:
		a.insert(ed.Buffer().LineEnding().Sequence())
	case ActionTab:
		a.insert("\t")
	case ActionBackspace:
		a.backspace()
	case ActionDelete:
		ed.Delete()
	case ActionSelectAll:
		last := ed.LineCount() - 1
		end := engine.Pos(last, ed.LineLen(last))
		ed.SetSelection(engine.Pos(0, 0), end)
		ed.MoveCursor(end)
	case ActionUndo:
		if !ed.Undo() {
			a.status = "nothing to undo"
		}
	case ActionRedo:
		if !ed.Redo() {
			a.status = "nothing to redo"
		}
	case ActionSave:
		return a.Save()
	case ActionQuit:
		if ed.IsDirty() && !a.quitArmed {
			a.quitArmed = true
			a.status = "unsaved changes: press Ctrl-Q again to quit"
			return nil
		}
		return ErrQuit
	default:
		if cmd.Action.IsMotion() {
			a.move(cmd.Action, cmd.Extend)
		}
	}
	return nil
}

// insert replaces the selection, if any, with text.
func (a *App) insert(text string) {
	if sel, ok := a.editor.Selection(); ok && !sel.IsEmpty() {
		a.editor.Delete()
	}
	a.editor.ClearSelection()
	a.editor.InsertText(text)
}

func (a *App) backspace() {
	ed := a.editor
	if sel, ok := ed.Selection(); ok && !sel.IsEmpty() {
		ed.Delete()
		return
	}
	ed.ClearSelection()
	cur := ed.Cursor()
	if cur.Line == 0 && cur.Column == 0 {
		return
	}
	ed.MoveCursor(a.left1(cur))
	ed.Delete()
}

// left1 returns the position one character before p, wrapping to the end
// of the previous line.
func (a *App) left1(p engine.Position) engine.Position {
	if p.Column > 0 {
		return engine.Pos(p.Line, p.Column-1)
	}
	if p.Line > 0 {
		return engine.Pos(p.Line-1, a.editor.LineLen(p.Line-1))
	}
	return p
}

// right1 returns the position one character after p, wrapping to the
// start of the next line.
func (a *App) right1(p engine.Position) engine.Position {
	if p.Column < a.editor.LineLen(p.Line) {
		return engine.Pos(p.Line, p.Column+1)
	}
	if p.Line < a.editor.LineCount()-1 {
		return engine.Pos(p.Line+1, 0)
	}
	return p
}

func (a *App) move(action Action, extend bool) {
	ed := a.editor
	cur := ed.Cursor()

	anchor := cur
	if sel, ok := ed.Selection(); ok && extend {
		anchor = sel.Start
	}

	var next engine.Position
	switch action {
	case ActionLeft:
		next = a.left1(cur)
	case ActionRight:
		next = a.right1(cur)
	case ActionHome:
		next = engine.Pos(cur.Line, 0)
	case ActionEnd:
		next = engine.Pos(cur.Line, ed.LineLen(cur.Line))
	case ActionUp:
		next = a.vertical(cur, -1)
	case ActionDown:
		next = a.vertical(cur, 1)
	case ActionPageUp:
		next = a.vertical(cur, -a.pageSize())
	case ActionPageDown:
		next = a.vertical(cur, a.pageSize())
	default:
		return
	}

	ed.MoveCursor(next)
	if extend {
		ed.SetSelection(anchor, ed.Cursor())
	} else {
		ed.ClearSelection()
	}
}

// vertical moves p by delta lines, keeping the goal display column. The
// goal is recomputed when the cursor has moved since the last vertical
// motion, whatever moved it.
func (a *App) vertical(p engine.Position, delta int) engine.Position {
	if a.goal < 0 || p != a.goalAt {
		a.goal = a.displayColumn(p)
	}
	line := min(max(p.Line+delta, 0), a.editor.LineCount()-1)
	a.goalAt = engine.Pos(line, a.columnAt(line, a.goal))
	return a.goalAt
}

func (a *App) pageSize() int {
	_, h := a.screen.Size()
	return max(h-2, 1)
}

// Save writes the document to its file and marks it saved.
func (a *App) Save() error {
	if a.path == "" {
		return ErrNoPath
	}
	if err := os.WriteFile(a.path, []byte(a.editor.Content()), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", a.path, err)
	}
	a.editor.MarkSaved()
	a.status = fmt.Sprintf("wrote %d lines to %s", a.editor.LineCount(), a.path)
	a.logger.Info("saved %s", a.path)
	return nil
}
