package search

import (
	"errors"
	"testing"

	"github.com/dshills/editcore/internal/engine/buffer"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func find(t *testing.T, text, query string, opts Options, from *buffer.Position) []Match {
	t.Helper()
	matches, err := Find(buffer.NewBufferFromString(text), query, opts, from)
	if err != nil {
		t.Fatalf("Find(%q): %v", query, err)
	}
	return matches
}

func TestFindCaseSensitivity(t *testing.T) {
	const text = "Hello World\nhello Rust"

	if got := find(t, text, "hello", Options{}, nil); len(got) != 2 {
		t.Errorf("case-insensitive: got %d matches, want 2", len(got))
	}
	if got := find(t, text, "Hello", Options{CaseSensitive: true}, nil); len(got) != 1 {
		t.Errorf("case-sensitive: got %d matches, want 1", len(got))
	}
}

func TestFindWholeWord(t *testing.T) {
	tests := []struct {
		text, query string
		want        int
	}{
		{"test testing tested", "test", 1},
		{"a_test test_b (test)", "test", 1},
		{"über über2 über", "über", 2},
		{"aa aaa aa", "aa", 2},
	}
	for _, tt := range tests {
		got := find(t, tt.text, tt.query, Options{WholeWord: true}, nil)
		if len(got) != tt.want {
			t.Errorf("Find(%q in %q) = %d matches, want %d", tt.query, tt.text, len(got), tt.want)
		}
	}
}

func TestFindPositions(t *testing.T) {
	got := find(t, "Hello 世界\n世界 again", "世界", Options{}, nil)

	want := []Match{
		{Start: buffer.Pos(0, 6), End: buffer.Pos(0, 8), StartByte: 6, EndByte: 12, Text: "世界"},
		{Start: buffer.Pos(1, 0), End: buffer.Pos(1, 2), StartByte: 13, EndByte: 19, Text: "世界"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreUnexported(Match{})); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}
}

func TestFindRegex(t *testing.T) {
	got := find(t, "id=12, id=7, id=x", `id=\d+`, Options{Regex: true}, nil)

	var texts []string
	for _, m := range got {
		texts = append(texts, m.Text)
	}
	if diff := cmp.Diff([]string{"id=12", "id=7"}, texts); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}

	_, err := Find(buffer.NewBufferFromString("x"), "(", Options{Regex: true}, nil)
	if !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("error = %v, want ErrInvalidPattern", err)
	}
}

func TestFindLiteralMetacharacters(t *testing.T) {
	if got := find(t, "a.b axb", "a.b", Options{}, nil); len(got) != 1 {
		t.Errorf("literal query matched %d times, want 1", len(got))
	}
}

func TestFindEmptyQuery(t *testing.T) {
	if got := find(t, "anything", "", Options{}, nil); got != nil {
		t.Errorf("empty query matched %v", got)
	}
}

func TestFindNext(t *testing.T) {
	buf := buffer.NewBufferFromString("line 1\nline 2\nline 3")

	m, ok, err := FindNext(buf, "line", buffer.Pos(0, 0), Options{})
	if err != nil || !ok || m.Start != buffer.Pos(0, 0) {
		t.Errorf("first FindNext = %v, %v, %v", m.Start, ok, err)
	}

	m, ok, _ = FindNext(buf, "line", buffer.Pos(1, 0), Options{})
	if !ok || m.Start.Line != 1 {
		t.Errorf("second FindNext = %v, %v", m.Start, ok)
	}

	if _, ok, _ := FindNext(buf, "line", buffer.Pos(2, 1), Options{}); ok {
		t.Error("no match should remain after the last line start")
	}
}

func TestFindBackwards(t *testing.T) {
	from := buffer.Pos(2, 0)
	got := find(t, "line 1\nline 2\nline 3", "line", Options{Backwards: true}, &from)

	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2", len(got))
	}
	if got[0].Start.Line != 1 || got[1].Start.Line != 0 {
		t.Errorf("backwards order = %v, %v", got[0].Start, got[1].Start)
	}
}

func TestReplaceAll(t *testing.T) {
	buf := buffer.NewBufferFromString("foo bar foo baz foo")

	m, err := ReplaceAll(buf, "foo", "qux", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if m.Len() != 3 {
		t.Errorf("batch has %d edits, want 3", m.Len())
	}
	if _, err := m.Apply(buf); err != nil {
		t.Fatal(err)
	}
	if want := "qux bar qux baz qux"; buf.Text() != want {
		t.Errorf("Text() = %q, want %q", buf.Text(), want)
	}
}

func TestReplaceAllRegexExpansion(t *testing.T) {
	buf := buffer.NewBufferFromString("a=1\nb=22\n")

	m, err := ReplaceAll(buf, `(\w)=(\d+)`, "$2:$1", Options{Regex: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Apply(buf); err != nil {
		t.Fatal(err)
	}
	if want := "1:a\n22:b\n"; buf.Text() != want {
		t.Errorf("Text() = %q, want %q", buf.Text(), want)
	}
}

func TestReplaceAllSkipsIdentical(t *testing.T) {
	buf := buffer.NewBufferFromString("Go go GO")
	m, err := ReplaceAll(buf, "go", "go", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if m.Len() != 2 {
		t.Errorf("batch has %d edits, want 2", m.Len())
	}
}
