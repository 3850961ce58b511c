// Package search finds and replaces text in a buffer.
//
// Queries are literal by default; Options.Regex switches to RE2 syntax.
// Matching is case-insensitive unless Options.CaseSensitive is set, and
// Options.WholeWord rejects matches adjoined by letters, digits or
// underscores. ReplaceAll returns a multiedit batch so the caller applies
// every replacement as one mutation and one undo unit.
package search
