package syntax

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language identifies a supported language. The set is closed.
type Language uint8

// Supported languages.
const (
	PlainText Language = iota
	Rust
	JavaScript
	TypeScript
	Python
	Java
	Go
	Dart
)

var languageNames = [...]string{
	PlainText:  "plaintext",
	Rust:       "rust",
	JavaScript: "javascript",
	TypeScript: "typescript",
	Python:     "python",
	Java:       "java",
	Go:         "go",
	Dart:       "dart",
}

// String returns the canonical id of the language.
func (l Language) String() string {
	if int(l) < len(languageNames) {
		return languageNames[l]
	}
	return "unknown"
}

// grammars maps each language to its grammar. Languages without an entry
// have no parser.
var grammars = map[Language]func() *sitter.Language{
	Rust:       rust.GetLanguage,
	JavaScript: javascript.GetLanguage,
	TypeScript: typescript.GetLanguage,
	Python:     python.GetLanguage,
	Java:       java.GetLanguage,
	Go:         golang.GetLanguage,
}

// HasGrammar returns true if the language can be parsed.
func (l Language) HasGrammar() bool {
	_, ok := grammars[l]
	return ok
}

func (l Language) grammar() *sitter.Language {
	if f, ok := grammars[l]; ok {
		return f()
	}
	return nil
}

// ParseLanguage maps an id to a Language, ignoring case. Unrecognized ids
// map to PlainText.
func ParseLanguage(id string) Language {
	switch strings.ToLower(strings.TrimSpace(id)) {
	case "rust", "rs":
		return Rust
	case "javascript", "js":
		return JavaScript
	case "typescript", "ts":
		return TypeScript
	case "python", "py":
		return Python
	case "java":
		return Java
	case "go":
		return Go
	case "dart":
		return Dart
	default:
		return PlainText
	}
}

var extensions = map[string]Language{
	".rs":   Rust,
	".js":   JavaScript,
	".mjs":  JavaScript,
	".cjs":  JavaScript,
	".jsx":  JavaScript,
	".ts":   TypeScript,
	".mts":  TypeScript,
	".py":   Python,
	".java": Java,
	".go":   Go,
	".dart": Dart,
}

// LanguageForPath guesses a language from a file name's extension.
func LanguageForPath(path string) Language {
	if l, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return l
	}
	return PlainText
}
