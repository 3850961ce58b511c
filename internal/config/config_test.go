package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/dshills/editcore/internal/config/notify"
	"github.com/dshills/editcore/internal/engine"
	"github.com/dshills/editcore/internal/engine/syntax"
	"github.com/dshills/editcore/internal/logging"
	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
	if cfg.Editor.MaxUndoHistory != engine.DefaultMaxUndoHistory {
		t.Errorf("MaxUndoHistory = %d", cfg.Editor.MaxUndoHistory)
	}
	if !cfg.Syntax.Enabled {
		t.Error("syntax should be enabled by default")
	}
}

func TestLoadFS_TOML(t *testing.T) {
	fsys := fstest.MapFS{
		"config.toml": {Data: []byte(`
[editor]
maxUndoHistory = 50
defaultLanguage = "py"

[logging]
level = "debug"
`)},
	}

	got, err := LoadFS(fsys, "config.toml")
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}

	want := Default()
	want.Editor.MaxUndoHistory = 50
	want.Editor.DefaultLanguage = "py"
	want.Logging.Level = "debug"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if got.Language() != syntax.Python {
		t.Errorf("Language() = %v, want python", got.Language())
	}
}

func TestLoadFS_YAML(t *testing.T) {
	fsys := fstest.MapFS{
		"config.yml": {Data: []byte("editor:\n  tabWidth: 2\nsyntax:\n  enabled: false\nlogging:\n")},
	}

	got, err := LoadFS(fsys, "config.yml")
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}

	want := Default()
	want.Editor.TabWidth = 2
	want.Syntax.Enabled = false
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFS_Missing(t *testing.T) {
	got, err := LoadFS(fstest.MapFS{}, "absent.toml")
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Errorf("missing file should give defaults (-want +got):\n%s", diff)
	}
}

func TestLoadFS_EnvOverridesFile(t *testing.T) {
	t.Setenv("EDITCORE_EDITOR_MAX_UNDO_HISTORY", "7")
	t.Setenv("EDITCORE_LOG_LEVEL", "warn")
	t.Setenv("EDITCORE_LANGUAGE", "rust")
	t.Setenv("EDITCORE_CONFIG", "ignored.toml")

	fsys := fstest.MapFS{
		"config.toml": {Data: []byte("[editor]\nmaxUndoHistory = 50\ntabWidth = 8\n")},
	}
	got, err := LoadFS(fsys, "config.toml")
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}

	if got.Editor.MaxUndoHistory != 7 {
		t.Errorf("MaxUndoHistory = %d, want env value 7", got.Editor.MaxUndoHistory)
	}
	if got.Editor.TabWidth != 8 {
		t.Errorf("TabWidth = %d, want file value 8", got.Editor.TabWidth)
	}
	if got.Logging.Level != "warn" {
		t.Errorf("Level = %q, want warn", got.Logging.Level)
	}
	if got.Language() != syntax.Rust {
		t.Errorf("Language() = %v, want rust", got.Language())
	}
}

func TestLoadFS_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		parse   bool
	}{
		{"syntax", "[editor\n", true},
		{"type", "[editor]\ntabWidth = \"wide\"\n", true},
		{"invalid value", "[editor]\ntabWidth = 0\n", false},
		{"invalid level", "[logging]\nlevel = \"loud\"\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{"config.toml": {Data: []byte(tt.content)}}
			_, err := LoadFS(fsys, "config.toml")
			if err == nil {
				t.Fatal("expected error")
			}
			var perr *ParseError
			if errors.As(err, &perr) != tt.parse {
				t.Errorf("ParseError = %v, want %v (err %v)", !tt.parse, tt.parse, err)
			}
			if !tt.parse && !errors.Is(err, ErrValidationFailed) {
				t.Errorf("err = %v, want ErrValidationFailed", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Editor.MaxUndoHistory = 0
	cfg.Editor.TabWidth = 99
	cfg.Logging.Level = "chatty"

	err := cfg.Validate()
	var paths []string
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var verr *ValidationError
		if errors.As(e, &verr) {
			paths = append(paths, verr.Path)
		}
	}
	want := []string{"editor.maxUndoHistory", "editor.tabWidth", "logging.level"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("failures mismatch (-want +got):\n%s", diff)
	}
}

func TestEditorOptions(t *testing.T) {
	cfg := Default()
	cfg.Editor.MaxUndoHistory = 1
	cfg.Editor.DefaultLanguage = "go"

	e := engine.New(append(cfg.EditorOptions(), engine.WithContent("package main\n"))...)
	defer e.Close()

	if e.Language() != syntax.Go || e.SyntaxTree() == nil {
		t.Errorf("Language() = %v, tree %v", e.Language(), e.SyntaxTree())
	}
	e.InsertText("a")
	e.InsertText("b")
	if e.UndoCount() != 1 {
		t.Errorf("UndoCount() = %d, want 1", e.UndoCount())
	}
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "error"
	if l := cfg.Logger(os.Stderr); l.Level() != logging.LevelError {
		t.Errorf("Level() = %v, want error", l.Level())
	}
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[editor]\ntabWidth = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	loaded := make(chan notify.Change, 4)
	r, err := Watch(path, nil)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer r.Close()
	r.SubscribePath("editor", func(c notify.Change) { loaded <- c })

	if r.Current().Editor.TabWidth != 2 {
		t.Fatalf("initial TabWidth = %d", r.Current().Editor.TabWidth)
	}

	// An invalid file keeps the previous configuration.
	if err := os.WriteFile(path, []byte("[editor]\ntabWidth = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if r.Current().Editor.TabWidth != 2 {
		t.Errorf("invalid reload replaced config: %d", r.Current().Editor.TabWidth)
	}

	if err := os.WriteFile(path, []byte("[editor]\ntabWidth = 6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case c := <-loaded:
		want := notify.Change{Path: "editor.tabWidth", OldValue: 2, NewValue: 6, Source: path}
		if diff := cmp.Diff(want, c); diff != "" {
			t.Errorf("change mismatch (-want +got):\n%s", diff)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
	if r.Current().Editor.TabWidth != 6 {
		t.Errorf("Current().TabWidth = %d, want 6", r.Current().Editor.TabWidth)
	}
}

func TestDiff(t *testing.T) {
	old := Default()
	next := Default()
	next.Editor.TabWidth = 8
	next.Logging.Level = "debug"

	got := Diff(old, next, "config.toml")
	want := []notify.Change{
		{Path: "editor.tabWidth", OldValue: old.Editor.TabWidth, NewValue: 8, Source: "config.toml"},
		{Path: "logging.level", OldValue: old.Logging.Level, NewValue: "debug", Source: "config.toml"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
	}

	if changes := Diff(old, Default(), ""); len(changes) != 0 {
		t.Errorf("Diff of equal configs = %v, want none", changes)
	}
}
