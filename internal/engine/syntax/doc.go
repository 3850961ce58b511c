// Package syntax maintains incremental syntax trees for documents.
//
// Supported languages form a closed set. Each maps to a tree-sitter grammar
// or to none, in which case the document is plain text and has no tree:
//
//	lang := syntax.ParseLanguage("rs") // Rust
//	s := syntax.NewSession()
//	err := s.SetLanguage(ctx, lang, src)
//
// After a buffer mutation, pass the buffer's Change to Edit and call
// Reparse. The change carries the exact start, old end and new end of the
// edit in bytes and points, so the parser only re-examines the region
// that changed.
//
// Highlights walks the tree and classifies nodes into a small set of
// token types for front-ends. Classification is a best effort over node
// kinds shared by the grammars.
package syntax
