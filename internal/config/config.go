package config

import (
	"errors"
	"io"
	"sort"

	"github.com/dshills/editcore/internal/config/notify"
	"github.com/dshills/editcore/internal/engine"
	"github.com/dshills/editcore/internal/engine/syntax"
	"github.com/dshills/editcore/internal/logging"
)

// Config is the complete editcore configuration.
type Config struct {
	Editor  EditorConfig  `toml:"editor" yaml:"editor"`
	Syntax  SyntaxConfig  `toml:"syntax" yaml:"syntax"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// EditorConfig holds document settings.
type EditorConfig struct {
	// MaxUndoHistory bounds the undo stack of every editor.
	MaxUndoHistory int `toml:"maxUndoHistory" yaml:"maxUndoHistory"`

	// DefaultLanguage is used when a file's language cannot be detected
	// from its name. Empty means plain text.
	DefaultLanguage string `toml:"defaultLanguage" yaml:"defaultLanguage"`

	// TabWidth is the display width of a tab in the terminal front-end.
	TabWidth int `toml:"tabWidth" yaml:"tabWidth"`
}

// SyntaxConfig holds parser settings.
type SyntaxConfig struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Prefix string `toml:"prefix" yaml:"prefix"`
}

// Limits for validated settings.
const (
	MaxTabWidth = 16
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			MaxUndoHistory: engine.DefaultMaxUndoHistory,
			TabWidth:       4,
		},
		Syntax: SyntaxConfig{Enabled: true},
		Logging: LoggingConfig{
			Level:  "info",
			Prefix: "editcore",
		},
	}
}

// Validate checks every setting and returns all failures joined. Each
// failure is a *ValidationError matching ErrValidationFailed.
func (c *Config) Validate() error {
	var errs []error
	if c.Editor.MaxUndoHistory < 1 {
		errs = append(errs, &ValidationError{
			Path: "editor.maxUndoHistory", Message: "must be at least 1", Value: c.Editor.MaxUndoHistory,
		})
	}
	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > MaxTabWidth {
		errs = append(errs, &ValidationError{
			Path: "editor.tabWidth", Message: "must be between 1 and 16", Value: c.Editor.TabWidth,
		})
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, &ValidationError{
			Path: "logging.level", Message: "must be debug, info, warn or error", Value: c.Logging.Level,
		})
	}
	return errors.Join(errs...)
}

// Language returns the configured default language.
func (c *Config) Language() syntax.Language {
	return syntax.ParseLanguage(c.Editor.DefaultLanguage)
}

// EditorOptions converts the configuration into editor options.
func (c *Config) EditorOptions() []engine.Option {
	return []engine.Option{
		engine.WithMaxUndoHistory(c.Editor.MaxUndoHistory),
		engine.WithSyntax(c.Syntax.Enabled),
		engine.WithLanguage(c.Language()),
	}
}

// Logger creates a logger writing to w with the configured level and
// prefix. An unparseable level falls back to info.
func (c *Config) Logger(w io.Writer) *logging.Logger {
	level, _ := logging.ParseLevel(c.Logging.Level)
	return logging.New(logging.Config{Level: level, Output: w, Prefix: c.Logging.Prefix})
}

// Settings returns every setting keyed by its dot-separated path, e.g.
// "editor.tabWidth".
func (c *Config) Settings() map[string]any {
	return map[string]any{
		"editor.maxUndoHistory":  c.Editor.MaxUndoHistory,
		"editor.defaultLanguage": c.Editor.DefaultLanguage,
		"editor.tabWidth":        c.Editor.TabWidth,
		"syntax.enabled":         c.Syntax.Enabled,
		"logging.level":          c.Logging.Level,
		"logging.prefix":         c.Logging.Prefix,
	}
}

// Diff returns the settings that differ between old and next, ordered by
// path.
func Diff(old, next *Config, source string) []notify.Change {
	before, after := old.Settings(), next.Settings()

	var changes []notify.Change
	for path, v := range after {
		if before[path] != v {
			changes = append(changes, notify.Change{
				Path:     path,
				OldValue: before[path],
				NewValue: v,
				Source:   source,
			})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes
}
