package rope

import "unicode/utf8"

// TextSummary holds aggregated metrics for a span of text.
// Summaries form a monoid under Add, which lets every internal node cache
// the totals of its subtree and answer index queries in O(log n).
type TextSummary struct {
	// Bytes is the UTF-8 byte count.
	Bytes int

	// Chars is the number of Unicode scalar values.
	Chars int

	// Lines is the number of newline characters.
	Lines int

	// Flags indicate text properties for fast paths.
	Flags TextFlags
}

// TextFlags indicate text properties for optimization fast paths.
type TextFlags uint8

const (
	// FlagASCII indicates all characters are ASCII (< 128), so byte and
	// char offsets coincide.
	FlagASCII TextFlags = 1 << iota

	// FlagHasNewlines indicates the text contains newline characters.
	FlagHasNewlines
)

// Add combines two summaries.
func (s TextSummary) Add(other TextSummary) TextSummary {
	if s.Bytes == 0 {
		return other
	}
	if other.Bytes == 0 {
		return s
	}

	result := TextSummary{
		Bytes: s.Bytes + other.Bytes,
		Chars: s.Chars + other.Chars,
		Lines: s.Lines + other.Lines,
		Flags: (s.Flags & other.Flags) & FlagASCII,
	}
	if (s.Flags|other.Flags)&FlagHasNewlines != 0 {
		result.Flags |= FlagHasNewlines
	}
	return result
}

// IsASCII reports whether the summarized text is pure ASCII.
func (s TextSummary) IsASCII() bool {
	return s.Flags&FlagASCII != 0
}

// ComputeSummary calculates metrics for a string.
func ComputeSummary(s string) TextSummary {
	sum := TextSummary{Bytes: len(s), Flags: FlagASCII}
	if len(s) == 0 {
		return sum
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= utf8.RuneSelf {
			sum.Flags &^= FlagASCII
		}
		if c == '\n' {
			sum.Lines++
		}
	}

	if sum.IsASCII() {
		sum.Chars = len(s)
	} else {
		sum.Chars = utf8.RuneCountInString(s)
	}
	if sum.Lines > 0 {
		sum.Flags |= FlagHasNewlines
	}
	return sum
}

// countNewlines returns the number of '\n' bytes in s.
func countNewlines(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
		}
	}
	return n
}

// nthNewline returns the byte index of the nth newline (1-indexed) in s,
// or -1 if s has fewer than n newlines.
func nthNewline(s string, n int) int {
	if n <= 0 {
		return -1
	}
	seen := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			seen++
			if seen == n {
				return i
			}
		}
	}
	return -1
}

// charsToBytes returns the byte length of the first n chars of s.
func charsToBytes(s string, n int) int {
	if n <= 0 {
		return 0
	}
	i := 0
	for n > 0 && i < len(s) {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		n--
	}
	return i
}

// floorCharBoundary moves offset back to the start of the character that
// contains it.
func floorCharBoundary(s string, offset int) int {
	if offset >= len(s) {
		return len(s)
	}
	for offset > 0 && !isUTF8Start(s[offset]) {
		offset--
	}
	return offset
}
