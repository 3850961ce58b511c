package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/editcore/internal/engine"
	"github.com/dshills/editcore/internal/engine/syntax"
)

// fakeScreen records drawn cells and replays queued events.
type fakeScreen struct {
	width, height int
	cells         map[[2]int]rune
	styles        map[[2]int]tcell.Style
	cursorX       int
	cursorY       int
	cursorShown   bool
	events        []tcell.Event
	initialized   bool
	finalized     bool
}

func newFakeScreen(w, h int) *fakeScreen {
	return &fakeScreen{width: w, height: h}
}

func (s *fakeScreen) Init() error {
	s.initialized = true
	s.Clear()
	return nil
}

func (s *fakeScreen) Fini() { s.finalized = true }

func (s *fakeScreen) Size() (int, int) { return s.width, s.height }

func (s *fakeScreen) Clear() {
	s.cells = make(map[[2]int]rune)
	s.styles = make(map[[2]int]tcell.Style)
}

func (s *fakeScreen) Show() {}

func (s *fakeScreen) SetContent(x, y int, primary rune, _ []rune, style tcell.Style) {
	s.cells[[2]int{x, y}] = primary
	s.styles[[2]int{x, y}] = style
}

func (s *fakeScreen) ShowCursor(x, y int) {
	s.cursorX, s.cursorY, s.cursorShown = x, y, true
}

func (s *fakeScreen) HideCursor() { s.cursorShown = false }

func (s *fakeScreen) PostEvent(ev tcell.Event) error {
	s.events = append(s.events, ev)
	return nil
}

func (s *fakeScreen) PollEvent() tcell.Event {
	if len(s.events) == 0 {
		return nil
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev
}

// row returns screen row y with trailing spaces removed.
func (s *fakeScreen) row(y int) string {
	var sb strings.Builder
	for x := 0; x < s.width; x++ {
		r, ok := s.cells[[2]int{x, y}]
		if !ok || r == 0 {
			r = ' '
		}
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

func newTestApp(t *testing.T, content string, opts ...Option) (*App, *fakeScreen) {
	t.Helper()
	screen := newFakeScreen(40, 6)
	ed := engine.New(engine.WithContent(content), engine.WithSyntax(false))
	app, err := New(ed, append([]Option{WithScreen(screen)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return app, screen
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func typeString(t *testing.T, app *App, s string) {
	t.Helper()
	for _, r := range s {
		if err := app.HandleEvent(runeKey(r)); err != nil {
			t.Fatalf("type %q: %v", r, err)
		}
	}
}

// ============================================================================
// Key mapping
// ============================================================================

func TestMapKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want Command
	}{
		{"rune", runeKey('x'), Command{Action: ActionInsert, Rune: 'x'}},
		{"enter", key(tcell.KeyEnter), Command{Action: ActionNewline}},
		{"tab", key(tcell.KeyTab), Command{Action: ActionTab}},
		{"backspace", key(tcell.KeyBackspace2), Command{Action: ActionBackspace}},
		{"delete", key(tcell.KeyDelete), Command{Action: ActionDelete}},
		{"left", key(tcell.KeyLeft), Command{Action: ActionLeft}},
		{"shift right", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModShift), Command{Action: ActionRight, Extend: true}},
		{"page down", key(tcell.KeyPgDn), Command{Action: ActionPageDown}},
		{"undo", key(tcell.KeyCtrlZ), Command{Action: ActionUndo}},
		{"redo", key(tcell.KeyCtrlY), Command{Action: ActionRedo}},
		{"save", key(tcell.KeyCtrlS), Command{Action: ActionSave}},
		{"quit", key(tcell.KeyCtrlQ), Command{Action: ActionQuit}},
		{"select all", key(tcell.KeyCtrlA), Command{Action: ActionSelectAll}},
		{"unbound", key(tcell.KeyF5), Command{}},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt), Command{}},
		{"ctrl rune", tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModCtrl), Command{Action: ActionSave}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapKey(tt.ev); got != tt.want {
				t.Errorf("MapKey() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestActionString(t *testing.T) {
	if ActionPageDown.String() != "pagedown" {
		t.Errorf("String() = %q", ActionPageDown.String())
	}
	if Action(200).String() != "unknown" {
		t.Errorf("String() = %q", Action(200).String())
	}
	if !ActionHome.IsMotion() || ActionUndo.IsMotion() {
		t.Error("IsMotion classification wrong")
	}
}

// ============================================================================
// Editing
// ============================================================================

func TestTypingAndUndo(t *testing.T) {
	app, _ := newTestApp(t, "")
	ed := app.Editor()

	typeString(t, app, "hi")
	app.HandleEvent(key(tcell.KeyEnter))
	typeString(t, app, "yo")

	if ed.Content() != "hi\nyo" {
		t.Fatalf("Content = %q, want %q", ed.Content(), "hi\nyo")
	}

	app.HandleEvent(key(tcell.KeyCtrlZ))
	if ed.Content() != "hi\ny" {
		t.Errorf("after undo = %q, want %q", ed.Content(), "hi\ny")
	}
	app.HandleEvent(key(tcell.KeyCtrlY))
	if ed.Content() != "hi\nyo" {
		t.Errorf("after redo = %q, want %q", ed.Content(), "hi\nyo")
	}
}

func TestNewlineKeepsLineEnding(t *testing.T) {
	app, _ := newTestApp(t, "a\r\nb")
	ed := app.Editor()

	ed.MoveCursor(engine.Pos(1, 1))
	app.HandleEvent(key(tcell.KeyEnter))
	if ed.Content() != "a\r\nb\r\n" {
		t.Errorf("Content = %q, want CRLF inserted", ed.Content())
	}
}

func TestBackspace(t *testing.T) {
	tests := []struct {
		name    string
		content string
		cursor  engine.Position
		want    string
		wantCur engine.Position
	}{
		{"mid line", "abc", engine.Pos(0, 2), "ac", engine.Pos(0, 1)},
		{"join lines", "ab\ncd", engine.Pos(1, 0), "abcd", engine.Pos(0, 2)},
		{"join crlf", "ab\r\ncd", engine.Pos(1, 0), "abcd", engine.Pos(0, 2)},
		{"document start", "abc", engine.Pos(0, 0), "abc", engine.Pos(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t, tt.content)
			ed := app.Editor()
			ed.MoveCursor(tt.cursor)

			app.HandleEvent(key(tcell.KeyBackspace2))
			if ed.Content() != tt.want {
				t.Errorf("Content = %q, want %q", ed.Content(), tt.want)
			}
			if ed.Cursor() != tt.wantCur {
				t.Errorf("Cursor = %v, want %v", ed.Cursor(), tt.wantCur)
			}
		})
	}
}

func TestTypingReplacesSelection(t *testing.T) {
	app, _ := newTestApp(t, "hello world")
	ed := app.Editor()

	// Shift+Right five times from the start selects "hello".
	for i := 0; i < 5; i++ {
		app.HandleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModShift))
	}
	if got := ed.SelectedText(); got != "hello" {
		t.Fatalf("SelectedText = %q, want %q", got, "hello")
	}

	typeString(t, app, "J")
	if ed.Content() != "J world" {
		t.Errorf("Content = %q, want %q", ed.Content(), "J world")
	}
	if _, ok := ed.Selection(); ok {
		t.Error("selection should be cleared after typing")
	}
}

func TestSelectAllAndDelete(t *testing.T) {
	app, _ := newTestApp(t, "one\ntwo")
	ed := app.Editor()

	app.HandleEvent(key(tcell.KeyCtrlA))
	app.HandleEvent(key(tcell.KeyDelete))
	if ed.Content() != "" {
		t.Errorf("Content = %q, want empty", ed.Content())
	}
}

// ============================================================================
// Motion
// ============================================================================

func TestMotion(t *testing.T) {
	app, _ := newTestApp(t, "abcdef\nxy\nlonger line")
	ed := app.Editor()
	ed.MoveCursor(engine.Pos(0, 5))

	steps := []struct {
		k    tcell.Key
		want engine.Position
	}{
		{tcell.KeyDown, engine.Pos(1, 2)},  // clamped to the short line
		{tcell.KeyDown, engine.Pos(2, 5)},  // goal column restored
		{tcell.KeyUp, engine.Pos(1, 2)},
		{tcell.KeyRight, engine.Pos(2, 0)}, // wraps to next line
		{tcell.KeyLeft, engine.Pos(1, 2)},  // wraps back
		{tcell.KeyHome, engine.Pos(1, 0)},
		{tcell.KeyEnd, engine.Pos(1, 2)},
		{tcell.KeyPgUp, engine.Pos(0, 2)},
	}
	for i, step := range steps {
		app.HandleEvent(key(step.k))
		if got := ed.Cursor(); got != step.want {
			t.Fatalf("step %d: Cursor = %v, want %v", i, got, step.want)
		}
	}
}

func TestMotionWithTabs(t *testing.T) {
	app, _ := newTestApp(t, "\tx\nabcdefgh", WithTabWidth(4))
	ed := app.Editor()
	ed.MoveCursor(engine.Pos(1, 2))

	// Display column 2 falls inside the tab, which snaps to its start.
	app.HandleEvent(key(tcell.KeyUp))
	if got := ed.Cursor(); got != engine.Pos(0, 0) {
		t.Errorf("Cursor = %v, want (0:0)", got)
	}

	ed.MoveCursor(engine.Pos(1, 5))
	app.HandleEvent(key(tcell.KeyUp))
	if got := ed.Cursor(); got != engine.Pos(0, 2) {
		t.Errorf("Cursor = %v, want (0:2)", got)
	}
}

func TestMotionGoalFollowsExternalMoves(t *testing.T) {
	app, _ := newTestApp(t, "abcdef\nxy\nlonger line")
	ed := app.Editor()
	ed.MoveCursor(engine.Pos(0, 5))

	app.HandleEvent(key(tcell.KeyDown))
	if got := ed.Cursor(); got != engine.Pos(1, 2) {
		t.Fatalf("Cursor = %v, want (1:2)", got)
	}

	ed.MoveCursor(engine.Pos(1, 1))
	app.HandleEvent(key(tcell.KeyDown))
	if got := ed.Cursor(); got != engine.Pos(2, 1) {
		t.Errorf("Cursor = %v, want (2:1)", got)
	}
}

func TestPlainMotionClearsSelection(t *testing.T) {
	app, _ := newTestApp(t, "abc")
	ed := app.Editor()

	app.HandleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModShift))
	app.HandleEvent(key(tcell.KeyRight))
	if _, ok := ed.Selection(); ok {
		t.Error("plain motion should clear the selection")
	}
}

// ============================================================================
// Save and quit
// ============================================================================

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	app, _ := newTestApp(t, "draft", WithPath(path))
	ed := app.Editor()

	typeString(t, app, "!")
	if err := app.HandleEvent(key(tcell.KeyCtrlS)); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "!draft" {
		t.Errorf("file = %q, want %q", data, "!draft")
	}
	if ed.IsDirty() {
		t.Error("save should clear dirty")
	}
	if !strings.Contains(app.Status(), "wrote") {
		t.Errorf("Status = %q", app.Status())
	}
}

func TestSaveWithoutPath(t *testing.T) {
	app, _ := newTestApp(t, "x")
	if err := app.HandleEvent(key(tcell.KeyCtrlS)); !errors.Is(err, ErrNoPath) {
		t.Errorf("err = %v, want ErrNoPath", err)
	}
}

func TestQuit(t *testing.T) {
	app, _ := newTestApp(t, "x")
	if err := app.HandleEvent(key(tcell.KeyCtrlQ)); !errors.Is(err, ErrQuit) {
		t.Errorf("clean quit err = %v, want ErrQuit", err)
	}

	typeString(t, app, "y")
	if err := app.HandleEvent(key(tcell.KeyCtrlQ)); err != nil {
		t.Errorf("first quit on dirty doc = %v, want nil", err)
	}
	if !strings.Contains(app.Status(), "unsaved") {
		t.Errorf("Status = %q", app.Status())
	}
	if err := app.HandleEvent(key(tcell.KeyCtrlQ)); !errors.Is(err, ErrQuit) {
		t.Errorf("second quit err = %v, want ErrQuit", err)
	}
}

func TestQuitDisarmedByEdit(t *testing.T) {
	app, _ := newTestApp(t, "")
	typeString(t, app, "a")

	app.HandleEvent(key(tcell.KeyCtrlQ))
	typeString(t, app, "b")
	if err := app.HandleEvent(key(tcell.KeyCtrlQ)); err != nil {
		t.Errorf("quit after edit = %v, want confirmation again", err)
	}
}

// ============================================================================
// Rendering
// ============================================================================

func TestDraw(t *testing.T) {
	app, screen := newTestApp(t, "hello\n\tworld", WithPath("/tmp/greet.txt"), WithTabWidth(4))
	app.Editor().MoveCursor(engine.Pos(1, 1))
	screen.Init()
	app.Draw()

	if got := screen.row(0); got != "hello" {
		t.Errorf("row 0 = %q", got)
	}
	if got := screen.row(1); got != "    world" {
		t.Errorf("row 1 = %q", got)
	}
	if got := screen.row(2); got != "~" {
		t.Errorf("row 2 = %q, want filler", got)
	}

	status := screen.row(5)
	if !strings.HasPrefix(status, " greet.txt") {
		t.Errorf("status = %q", status)
	}
	if !strings.HasSuffix(status, "plaintext  2:2") {
		t.Errorf("status = %q", status)
	}

	if !screen.cursorShown || screen.cursorX != 4 || screen.cursorY != 1 {
		t.Errorf("cursor = (%d, %d, %v), want (4, 1, true)",
			screen.cursorX, screen.cursorY, screen.cursorShown)
	}
}

func TestDrawWideCharacters(t *testing.T) {
	app, screen := newTestApp(t, "世界x")
	app.Editor().MoveCursor(engine.Pos(0, 2))
	screen.Init()
	app.Draw()

	if screen.cells[[2]int{0, 0}] != '世' || screen.cells[[2]int{2, 0}] != '界' {
		t.Errorf("row 0 = %q", screen.row(0))
	}
	if screen.cursorX != 4 {
		t.Errorf("cursorX = %d, want 4", screen.cursorX)
	}
}

func TestDrawScrolls(t *testing.T) {
	lines := make([]string, 20)
	for i := range lines {
		lines[i] = strings.Repeat(string(rune('a'+i)), 3)
	}
	app, screen := newTestApp(t, strings.Join(lines, "\n"))
	app.Editor().MoveCursor(engine.Pos(12, 0))
	screen.Init()
	app.Draw()

	// Five text rows: lines 8 through 12 are visible.
	if got := screen.row(4); got != "mmm" {
		t.Errorf("last text row = %q, want %q", got, "mmm")
	}
	if got := screen.row(0); got != "iii" {
		t.Errorf("first text row = %q, want %q", got, "iii")
	}
	if screen.cursorY != 4 {
		t.Errorf("cursorY = %d, want 4", screen.cursorY)
	}
}

func TestDrawSelectionAndHighlights(t *testing.T) {
	screen := newFakeScreen(40, 4)
	ed := engine.New(
		engine.WithContent("// note\nvar x = 1\n"),
		engine.WithLanguage(syntax.Go),
	)
	defer ed.Close()
	app, err := New(ed, WithScreen(screen))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ed.SetSelection(engine.Pos(1, 0), engine.Pos(1, 1))
	screen.Init()
	app.Draw()

	theme := DefaultTheme()
	if got := screen.styles[[2]int{0, 0}]; got != theme.Tokens[syntax.TokenComment] {
		t.Errorf("comment style = %v, want %v", got, theme.Tokens[syntax.TokenComment])
	}
	if got := screen.styles[[2]int{0, 1}]; got != theme.Selection {
		t.Errorf("selected cell style = %v, want selection", got)
	}
	if got := screen.styles[[2]int{3, 1}]; got != theme.Text {
		t.Errorf("plain cell style = %v, want text", got)
	}
}

func TestRun(t *testing.T) {
	app, screen := newTestApp(t, "")
	screen.events = []tcell.Event{
		runeKey('o'),
		runeKey('k'),
		key(tcell.KeyCtrlS), // no path: reported in the status line
		key(tcell.KeyCtrlQ),
		key(tcell.KeyCtrlQ),
		runeKey('!'), // never reached
	}

	if err := app.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !screen.initialized || !screen.finalized {
		t.Error("Run should init and finalize the screen")
	}
	if got := app.Editor().Content(); got != "ok" {
		t.Errorf("Content = %q, want %q", got, "ok")
	}
	if len(screen.events) != 1 {
		t.Errorf("%d events left, want 1", len(screen.events))
	}
}

func TestRunEndsWhenScreenCloses(t *testing.T) {
	app, screen := newTestApp(t, "abc")
	screen.events = []tcell.Event{runeKey('x')}

	if err := app.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := app.Editor().Content(); got != "xabc" {
		t.Errorf("Content = %q, want %q", got, "xabc")
	}
}

func TestPost(t *testing.T) {
	app, screen := newTestApp(t, "a\tb")
	screen.Init()

	if err := app.Post(func() error {
		app.SetTabWidth(8)
		app.Editor().InsertText(">")
		return nil
	}); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if err := app.Quit(); err != nil {
		t.Fatalf("Quit: %v", err)
	}
	screen.events = append(screen.events, runeKey('!'))

	if err := app.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := app.Editor().Content(); got != ">a\tb" {
		t.Errorf("Content = %q, want %q", got, ">a\tb")
	}
	if got := screen.row(0); got != ">a      b" {
		t.Errorf("row 0 = %q, want tab expanded to 8", got)
	}
	if len(screen.events) != 1 {
		t.Errorf("%d events left, want 1", len(screen.events))
	}
}
