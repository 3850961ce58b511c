package tui

import "errors"

var (
	// ErrQuit signals that the user asked to exit.
	ErrQuit = errors.New("quit requested")

	// ErrNoPath indicates a save was requested for a document with no file.
	ErrNoPath = errors.New("no file name")
)
