package search

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/editcore/internal/engine/buffer"
	"github.com/dshills/editcore/internal/engine/history"
	"github.com/dshills/editcore/internal/engine/multiedit"
)

// ErrInvalidPattern is returned when a regex query does not compile.
var ErrInvalidPattern = errors.New("invalid search pattern")

// Options controls how a query matches.
type Options struct {
	CaseSensitive bool
	WholeWord     bool
	Regex         bool
	Backwards     bool
}

// Match is one occurrence of a query.
type Match struct {
	Start     buffer.Position
	End       buffer.Position
	StartByte int
	EndByte   int
	Text      string

	groups []int // submatch indices, for replacement expansion
}

// Compile builds the matcher for query. Literal queries are quoted, and
// case-insensitive queries get the (?i) flag so byte offsets stay those
// of the original text.
func Compile(query string, opts Options) (*regexp.Regexp, error) {
	pattern := query
	if !opts.Regex {
		pattern = regexp.QuoteMeta(query)
	}
	if !opts.CaseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return re, nil
}

// Find returns every match of query in buf. If from is non-nil, only
// matches starting at or after it are returned, or before it when
// searching backwards. Backwards results are nearest first. An empty
// query matches nothing.
func Find(buf *buffer.Buffer, query string, opts Options, from *buffer.Position) ([]Match, error) {
	if query == "" {
		return nil, nil
	}
	re, err := Compile(query, opts)
	if err != nil {
		return nil, err
	}

	text := buf.Text()
	var matches []Match
	for _, loc := range locate(re, text, opts.WholeWord) {
		matches = append(matches, Match{
			Start:     buf.PositionAt(loc[0]),
			End:       buf.PositionAt(loc[1]),
			StartByte: loc[0],
			EndByte:   loc[1],
			Text:      text[loc[0]:loc[1]],
			groups:    loc,
		})
	}

	if from != nil {
		origin := buf.OffsetOf(*from)
		kept := matches[:0]
		for _, m := range matches {
			if opts.Backwards && m.StartByte < origin || !opts.Backwards && m.StartByte >= origin {
				kept = append(kept, m)
			}
		}
		matches = kept
	}

	if opts.Backwards {
		for i, j := 0, len(matches)-1; i < j; i, j = i+1, j-1 {
			matches[i], matches[j] = matches[j], matches[i]
		}
	}
	return matches, nil
}

// FindNext returns the first match from the given position in the search
// direction.
func FindNext(buf *buffer.Buffer, query string, from buffer.Position, opts Options) (Match, bool, error) {
	matches, err := Find(buf, query, opts, &from)
	if err != nil || len(matches) == 0 {
		return Match{}, false, err
	}
	return matches[0], true, nil
}

// ReplaceAll builds a batch replacing every match of query with
// replacement. In regex mode, $1 style references in replacement are
// expanded. The batch is not applied.
func ReplaceAll(buf *buffer.Buffer, query, replacement string, opts Options) (*multiedit.MultiEdit, error) {
	opts.Backwards = false
	matches, err := Find(buf, query, opts, nil)
	if err != nil {
		return nil, err
	}

	var re *regexp.Regexp
	if opts.Regex && len(matches) > 0 {
		re, _ = Compile(query, opts)
	}
	text := buf.Text()

	m := multiedit.New()
	for _, match := range matches {
		repl := replacement
		if re != nil {
			repl = string(re.ExpandString(nil, replacement, text, match.groups))
		}
		if match.Text == repl {
			continue
		}
		m.Add(history.Edit{Position: match.StartByte, DeletedText: match.Text, InsertedText: repl})
	}
	return m, nil
}

// locate returns the submatch indices of every non-overlapping match.
// Whole-word candidates that fail the boundary check are retried one
// character later so an overlapping word is not missed.
func locate(re *regexp.Regexp, text string, wholeWord bool) [][]int {
	if !wholeWord {
		return dropEmpty(re.FindAllStringSubmatchIndex(text, -1))
	}

	var out [][]int
	pos := 0
	for pos <= len(text) {
		loc := re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}
		start, end := loc[0], loc[1]
		if end > start && isWordBoundary(text, start, end) {
			out = append(out, loc)
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		pos = start + max(size, 1)
	}
	return out
}

func dropEmpty(locs [][]int) [][]int {
	out := locs[:0]
	for _, loc := range locs {
		if loc[1] > loc[0] {
			out = append(out, loc)
		}
	}
	return out
}

// isWordBoundary reports whether text[start:end] is not adjoined by word
// characters.
func isWordBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
