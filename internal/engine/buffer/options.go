package buffer

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithObserver installs a change observer at construction.
func WithObserver(fn func(Change)) Option {
	return func(b *Buffer) {
		b.observer = fn
	}
}

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
)

// String returns the conventional name of the line ending.
func (le LineEnding) String() string {
	if le == LineEndingCRLF {
		return "CRLF"
	}
	return "LF"
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	if le == LineEndingCRLF {
		return "\r\n"
	}
	return "\n"
}

// DetectLineEnding returns the most common line ending in the text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lf, crlf int
	for i := 0; i < len(text); i++ {
		if text[i] != '\n' {
			continue
		}
		if i > 0 && text[i-1] == '\r' {
			crlf++
		} else {
			lf++
		}
	}
	if crlf > 0 && crlf >= lf {
		return LineEndingCRLF
	}
	return LineEndingLF
}

// LineEnding reports the dominant line ending of the buffer.
func (b *Buffer) LineEnding() LineEnding {
	return DetectLineEnding(b.rope.String())
}
