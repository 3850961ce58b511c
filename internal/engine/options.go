package engine

import (
	"github.com/dshills/editcore/internal/engine/history"
	"github.com/dshills/editcore/internal/engine/syntax"
	"github.com/dshills/editcore/internal/logging"
	"github.com/google/uuid"
)

// Default configuration values.
const (
	DefaultMaxUndoHistory = history.DefaultMaxEntries
)

// Option configures an Editor during creation.
type Option func(*Editor)

// WithContent sets the initial content of the editor.
func WithContent(content string) Option {
	return func(e *Editor) {
		e.initContent = content
	}
}

// WithLanguage sets the initial language.
func WithLanguage(lang syntax.Language) Option {
	return func(e *Editor) {
		e.lang = lang
	}
}

// WithMaxUndoHistory sets the maximum number of undo entries.
func WithMaxUndoHistory(max int) Option {
	return func(e *Editor) {
		if max > 0 {
			e.maxUndo = max
		}
	}
}

// WithSyntax enables or disables syntax trees. Disabled editors record
// the language but never parse.
func WithSyntax(enabled bool) Option {
	return func(e *Editor) {
		e.syntaxEnabled = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithID sets the editor's identifier instead of generating one.
func WithID(id uuid.UUID) Option {
	return func(e *Editor) {
		e.id = id
	}
}
