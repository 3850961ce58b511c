package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/editcore/internal/engine/syntax"
)

// Theme defines the colors used to draw a document.
type Theme struct {
	// Text is the style of unclassified text.
	Text tcell.Style

	// Selection is the style of selected text.
	Selection tcell.Style

	// Status is the style of the status line.
	Status tcell.Style

	// Filler marks rows past the end of the document.
	Filler tcell.Style

	// Tokens maps token types to their styles.
	Tokens map[syntax.TokenType]tcell.Style
}

// DefaultTheme returns a theme using the terminal's palette colors.
func DefaultTheme() Theme {
	base := tcell.StyleDefault
	return Theme{
		Text:      base,
		Selection: base.Reverse(true),
		Status:    base.Reverse(true),
		Filler:    base.Foreground(tcell.ColorBlue).Dim(true),
		Tokens: map[syntax.TokenType]tcell.Style{
			syntax.TokenComment:  base.Foreground(tcell.ColorGray).Italic(true),
			syntax.TokenString:   base.Foreground(tcell.ColorGreen),
			syntax.TokenNumber:   base.Foreground(tcell.ColorFuchsia),
			syntax.TokenKeyword:  base.Foreground(tcell.ColorYellow).Bold(true),
			syntax.TokenConstant: base.Foreground(tcell.ColorFuchsia),
			syntax.TokenTypeName: base.Foreground(tcell.ColorTeal),
			syntax.TokenFunction: base.Foreground(tcell.ColorBlue),
		},
	}
}

// StyleForToken returns the style for a token type, falling back to Text.
func (t Theme) StyleForToken(tt syntax.TokenType) tcell.Style {
	if style, ok := t.Tokens[tt]; ok {
		return style
	}
	return t.Text
}
