package loader

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestTOMLLoader_LoadFrom(t *testing.T) {
	fsys := fstest.MapFS{
		"config.toml": {Data: []byte(`
[editor]
maxUndoHistory = 50
defaultLanguage = "go"

[logging]
level = "debug"
`)},
	}

	got, err := NewTOMLLoaderWithFS(fsys, "config.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := map[string]any{
		"editor":  map[string]any{"maxUndoHistory": int64(50), "defaultLanguage": "go"},
		"logging": map[string]any{"level": "debug"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestTOMLLoader_Missing(t *testing.T) {
	got, err := NewTOMLLoaderWithFS(fstest.MapFS{}, "absent.toml").Load()
	if err != nil || got != nil {
		t.Errorf("Load() = (%v, %v), want (nil, nil)", got, err)
	}
}

func TestTOMLLoader_ParseError(t *testing.T) {
	_, err := NewTOMLLoader("").LoadFromReader(strings.NewReader("[editor]\nmaxUndoHistory = = 3\n"))

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if perr.Path != "<reader>" {
		t.Errorf("Path = %q", perr.Path)
	}
	if perr.Line != 2 {
		t.Errorf("Line = %d, want 2", perr.Line)
	}
	if perr.Unwrap() == nil {
		t.Error("ParseError should wrap the decoder error")
	}
}

func TestYAMLLoader_LoadFrom(t *testing.T) {
	fsys := fstest.MapFS{
		"config.yaml": {Data: []byte("editor:\n  tabWidth: 2\nsyntax:\n  enabled: false\n")},
	}

	got, err := NewYAMLLoaderWithFS(fsys, "config.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := map[string]any{
		"editor": map[string]any{"tabWidth": 2},
		"syntax": map[string]any{"enabled": false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestYAMLLoader_ParseError(t *testing.T) {
	_, err := NewYAMLLoader("").LoadFromReader(strings.NewReader("editor: [unclosed\n"))

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		yaml bool
	}{
		{"config.toml", false},
		{"config.yaml", true},
		{"CONFIG.YML", true},
		{"config", false},
	}
	for _, tt := range tests {
		_, isYAML := ForPath(DefaultFS(), tt.path).(*YAMLLoader)
		if isYAML != tt.yaml {
			t.Errorf("ForPath(%q) yaml = %v, want %v", tt.path, isYAML, tt.yaml)
		}
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"editor":  map[string]any{"tabWidth": 4, "maxUndoHistory": 10},
		"logging": map[string]any{"level": "info"},
	}
	src := map[string]any{
		"editor":  map[string]any{"tabWidth": 2},
		"logging": "flat",
		"syntax":  map[string]any{"enabled": true},
	}

	want := map[string]any{
		"editor":  map[string]any{"tabWidth": 2, "maxUndoHistory": 10},
		"logging": "flat",
		"syntax":  map[string]any{"enabled": true},
	}
	if diff := cmp.Diff(want, DeepMerge(dst, src)); diff != "" {
		t.Errorf("DeepMerge mismatch (-want +got):\n%s", diff)
	}
	if got := DeepMerge(nil, nil); len(got) != 0 {
		t.Errorf("DeepMerge(nil, nil) = %v", got)
	}
}
