package syntax

import "github.com/dshills/editcore/internal/engine/buffer"

// TokenType represents the semantic class of a highlighted span.
type TokenType uint8

// Token types for syntax highlighting.
const (
	TokenNone TokenType = iota
	TokenComment
	TokenString
	TokenNumber
	TokenKeyword
	TokenConstant // true, false, nil, null
	TokenTypeName
	TokenFunction
)

var tokenTypeNames = [...]string{
	TokenNone:     "none",
	TokenComment:  "comment",
	TokenString:   "string",
	TokenNumber:   "number",
	TokenKeyword:  "keyword",
	TokenConstant: "constant",
	TokenTypeName: "type",
	TokenFunction: "function",
}

// String returns the string representation of a token type.
func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return "unknown"
}

// Span is a classified byte range of the document.
type Span struct {
	Type       TokenType
	StartByte  int
	EndByte    int
	StartPoint buffer.Point
	EndPoint   buffer.Point
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.EndByte - s.StartByte
}

// nodeTokens classifies named node kinds shared across grammars.
var nodeTokens = map[string]TokenType{
	"comment":       TokenComment,
	"line_comment":  TokenComment,
	"block_comment": TokenComment,

	"string":                     TokenString,
	"string_literal":             TokenString,
	"raw_string_literal":         TokenString,
	"interpreted_string_literal": TokenString,
	"template_string":            TokenString,
	"char_literal":               TokenString,
	"character_literal":          TokenString,
	"rune_literal":               TokenString,

	"number":            TokenNumber,
	"integer":           TokenNumber,
	"float":             TokenNumber,
	"int_literal":       TokenNumber,
	"float_literal":     TokenNumber,
	"integer_literal":   TokenNumber,
	"imaginary_literal": TokenNumber,

	"decimal_integer_literal":        TokenNumber,
	"hex_integer_literal":            TokenNumber,
	"decimal_floating_point_literal": TokenNumber,

	"true":            TokenConstant,
	"false":           TokenConstant,
	"nil":             TokenConstant,
	"null":            TokenConstant,
	"none":            TokenConstant,
	"undefined":       TokenConstant,
	"iota":            TokenConstant,
	"boolean_literal": TokenConstant,
	"null_literal":    TokenConstant,

	"type_identifier":     TokenTypeName,
	"primitive_type":      TokenTypeName,
	"predefined_type":     TokenTypeName,
	"integral_type":       TokenTypeName,
	"floating_point_type": TokenTypeName,
}

// functionFields are field names under which an identifier names a
// function being declared or called.
var functionFields = map[string]bool{
	"function": true,
	"name":     true,
}

func isFunctionParent(kind string) bool {
	switch kind {
	case "function_declaration", "function_definition", "function_item",
		"method_declaration", "method_definition", "call_expression",
		"method_invocation", "call":
		return true
	}
	return false
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}
