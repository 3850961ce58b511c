package syntax

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/editcore/internal/engine/buffer"
	sitter "github.com/smacker/go-tree-sitter"
)

// ErrNoTree is returned when an operation needs a syntax tree and the
// session has none.
var ErrNoTree = errors.New("no syntax tree")

// Session owns the parser and latest tree for one document.
//
// After each buffer change the caller passes the change to Edit and then
// calls Reparse; the previous tree, adjusted by the edit deltas, lets the
// parser reuse every unchanged subtree. A Session is not safe for
// concurrent use.
type Session struct {
	lang   Language
	parser *sitter.Parser
	tree   *sitter.Tree
}

// NewSession creates a plain-text session with no parser.
func NewSession() *Session {
	return &Session{lang: PlainText}
}

// Language returns the active language.
func (s *Session) Language() Language {
	return s.lang
}

// SetLanguage switches the session to lang and parses src. A language
// without a grammar tears down the parser and tree.
func (s *Session) SetLanguage(ctx context.Context, lang Language, src []byte) error {
	s.Close()
	s.lang = lang

	grammar := lang.grammar()
	if grammar == nil {
		return nil
	}
	s.parser = sitter.NewParser()
	s.parser.SetLanguage(grammar)
	return s.parse(ctx, nil, src)
}

// Active returns true if the session has a parser.
func (s *Session) Active() bool {
	return s.parser != nil
}

// Edit adjusts the current tree for a buffer change so the next Reparse
// can reuse unchanged subtrees. It is a no-op without a tree.
func (s *Session) Edit(c buffer.Change) {
	if s.tree == nil {
		return
	}
	s.tree.Edit(sitter.EditInput{
		StartIndex:  uint32(c.StartByte),
		OldEndIndex: uint32(c.OldEndByte),
		NewEndIndex: uint32(c.NewEndByte),
		StartPoint:  toPoint(c.Start),
		OldEndPoint: toPoint(c.OldEnd),
		NewEndPoint: toPoint(c.NewEnd),
	})
}

// Reparse parses src, reusing the edited previous tree. It is a no-op
// without a parser. On failure the tree is dropped.
func (s *Session) Reparse(ctx context.Context, src []byte) error {
	if s.parser == nil {
		return nil
	}
	return s.parse(ctx, s.tree, src)
}

func (s *Session) parse(ctx context.Context, old *sitter.Tree, src []byte) error {
	tree, err := s.parser.ParseCtx(ctx, old, src)
	if old != nil {
		old.Close()
	}
	s.tree = nil
	if err != nil {
		return fmt.Errorf("parse %s: %w", s.lang, err)
	}
	s.tree = tree
	return nil
}

// Tree returns the latest syntax tree, or nil.
func (s *Session) Tree() *sitter.Tree {
	return s.tree
}

// HasError returns true if the latest tree contains syntax errors.
func (s *Session) HasError() bool {
	return s.tree != nil && s.tree.RootNode().HasError()
}

// SExpr returns the latest tree as an S-expression.
func (s *Session) SExpr() (string, error) {
	if s.tree == nil {
		return "", ErrNoTree
	}
	return s.tree.RootNode().String(), nil
}

// Highlights returns the classified spans that intersect the byte range
// [start, end), in document order.
func (s *Session) Highlights(start, end int) []Span {
	if s.tree == nil || end <= start {
		return nil
	}
	var spans []Span
	collectSpans(s.tree.RootNode(), "", "", start, end, &spans)
	return spans
}

// Close releases the parser and tree.
func (s *Session) Close() {
	if s.tree != nil {
		s.tree.Close()
		s.tree = nil
	}
	if s.parser != nil {
		s.parser.Close()
		s.parser = nil
	}
}

func collectSpans(n *sitter.Node, parentKind, field string, start, end int, spans *[]Span) {
	if n == nil || int(n.EndByte()) <= start || int(n.StartByte()) >= end {
		return
	}

	if tok := classify(n, parentKind, field); tok != TokenNone {
		*spans = append(*spans, Span{
			Type:       tok,
			StartByte:  int(n.StartByte()),
			EndByte:    int(n.EndByte()),
			StartPoint: fromPoint(n.StartPoint()),
			EndPoint:   fromPoint(n.EndPoint()),
		})
		return
	}

	kind := n.Type()
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		collectSpans(n.Child(i), kind, n.FieldNameForChild(i), start, end, spans)
	}
}

func classify(n *sitter.Node, parentKind, field string) TokenType {
	kind := n.Type()
	if n.IsMissing() {
		return TokenNone
	}
	if tok, ok := nodeTokens[kind]; ok {
		return tok
	}
	if !n.IsNamed() {
		if isWord(kind) {
			return TokenKeyword
		}
		return TokenNone
	}
	if n.ChildCount() == 0 && functionFields[field] && isFunctionParent(parentKind) {
		return TokenFunction
	}
	return TokenNone
}

func toPoint(p buffer.Point) sitter.Point {
	return sitter.Point{Row: uint32(p.Row), Column: uint32(p.Column)}
}

func fromPoint(p sitter.Point) buffer.Point {
	return buffer.Point{Row: int(p.Row), Column: int(p.Column)}
}
