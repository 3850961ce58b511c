package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/editcore/internal/config"
	"github.com/dshills/editcore/internal/engine/syntax"
	"github.com/dshills/editcore/internal/logging"
)

// testRun runs the command with a config path that does not exist, so the
// user's own configuration never leaks into a test.
func testRun(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	cfgPath := filepath.Join(t.TempDir(), "missing.toml")
	code = run(append([]string{"-config", cfgPath}, args...), &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRunVersion(t *testing.T) {
	code, stdout, _ := testRun(t, "-version")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.HasPrefix(stdout, "editcore dev\n") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRunFlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad log level", []string{"-log-level", "loud"}, "invalid log level"},
		{"two files", []string{"a.txt", "b.txt"}, "at most one file"},
		{"unknown flag", []string{"-nope"}, "flag provided but not defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := testRun(t, tt.args...)
			if code != 2 {
				t.Errorf("exit code = %d, want 2", code)
			}
			if !strings.Contains(stderr, tt.want) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.want)
			}
		})
	}
}

func TestRunHelp(t *testing.T) {
	code, _, stderr := testRun(t, "-h")
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stderr, "Usage: editcore") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRunPrint(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		args    []string
		want    []string
	}{
		{
			name:    "go file",
			file:    "main.go",
			content: "package main\n\nfunc main() {}\n",
			want:    []string{"language: go", "lines: 4", "dirty: false", "syntax errors: false"},
		},
		{
			name:    "syntax error",
			file:    "broken.go",
			content: "package main\n\nfunc main( {\n",
			want:    []string{"syntax errors: true"},
		},
		{
			name:    "lang flag wins",
			file:    "script.txt",
			content: "x = 1\n",
			args:    []string{"-lang", "py"},
			want:    []string{"language: python"},
		},
		{
			name:    "plain text",
			file:    "notes.txt",
			content: "one\r\ntwo",
			want:    []string{"language: plaintext", "lines: 2", "bytes: 8"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			args := append(append([]string{"-print"}, tt.args...), path)

			code, stdout, stderr := testRun(t, args...)
			if code != 0 {
				t.Fatalf("exit code = %d, stderr = %q", code, stderr)
			}
			for _, want := range tt.want {
				if !strings.Contains(stdout, want) {
					t.Errorf("stdout = %q, want it to contain %q", stdout, want)
				}
			}
		})
	}
}

func TestRunPrintNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.rs")

	code, stdout, _ := testRun(t, "-print", path)
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout, "lines: 1") || !strings.Contains(stdout, "language: rust") {
		t.Errorf("stdout = %q", stdout)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("-print should not create the file")
	}
}

func TestRunScript(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.go", "package main\n")
	lua := writeFile(t, dir, "edit.lua", `
editor.move(0, 0)
editor.insert("// generated\n")
print(editor.line_count())
`)

	code, stdout, stderr := testRun(t, "-script", lua, path)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
	if stdout != "3\n" {
		t.Errorf("stdout = %q, want %q", stdout, "3\n")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "// generated\npackage main\n" {
		t.Errorf("file = %q", data)
	}
}

func TestRunScriptWithPrintWritesNothing(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", "abc")
	lua := writeFile(t, dir, "edit.lua", `editor.insert("x")`)

	code, stdout, _ := testRun(t, "-script", lua, "-print", path)
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout, "dirty: true") {
		t.Errorf("stdout = %q", stdout)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "abc" {
		t.Errorf("file = %q, want it unchanged", data)
	}
}

func TestRunScriptWithoutFile(t *testing.T) {
	lua := writeFile(t, t.TempDir(), "gen.lua", `editor.insert("hello\n")`)

	code, stdout, _ := testRun(t, "-script", lua)
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if stdout != "hello\n" {
		t.Errorf("stdout = %q, want document content", stdout)
	}
}

func TestRunScriptError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "keep")
	lua := writeFile(t, dir, "bad.lua", `editor.insert("x") error("boom")`)

	code, _, stderr := testRun(t, "-script", lua, path)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "boom") {
		t.Errorf("stderr = %q", stderr)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "keep" {
		t.Errorf("file = %q, a failed script must not write", data)
	}
}

func TestRunConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.toml", `
[editor]
defaultLanguage = "python"
`)
	path := writeFile(t, dir, "Makefile", "all:\n")

	var out, errOut bytes.Buffer
	code := run([]string{"-config", cfgPath, "-print", path}, &out, &errOut)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, errOut.String())
	}
	if !strings.Contains(out.String(), "language: python") {
		t.Errorf("stdout = %q", out.String())
	}
}

func TestRunBadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.toml", "[editor]\ntabWidth = 99\n")

	var out, errOut bytes.Buffer
	code := run([]string{"-config", cfgPath, "-print"}, &out, &errOut)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), "editor.tabWidth") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestDetectLanguage(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.DefaultLanguage = "java"

	tests := []struct {
		name string
		opts options
		want syntax.Language
	}{
		{"flag", options{Language: "ts", File: "a.go"}, syntax.TypeScript},
		{"unknown flag", options{Language: "cobol", File: "a.go"}, syntax.PlainText},
		{"extension", options{File: "lib.rs"}, syntax.Rust},
		{"default", options{File: "README"}, syntax.Java},
		{"no file", options{}, syntax.Java},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectLanguage(tt.opts, cfg); got != tt.want {
				t.Errorf("detectLanguage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer
	opts, err := parseFlags([]string{"-c", "x.yaml", "-lang", "go", "-log-level", "debug", "file.go"}, &stderr)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	want := options{ConfigPath: "x.yaml", Language: "go", LogLevel: "debug", File: "file.go"}
	if opts != want {
		t.Errorf("opts = %+v, want %+v", opts, want)
	}
}

func TestWriteResultSkipsCleanDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "same")
	cfg := config.Default()

	ed, err := openEditor(options{File: path}, cfg, logging.Nop())
	if err != nil {
		t.Fatalf("openEditor: %v", err)
	}
	defer ed.Close()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := writeResult(ed, path, &bytes.Buffer{}); err != nil {
		t.Fatalf("writeResult: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("clean document should not be written")
	}
}
