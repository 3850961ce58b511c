package host

import "errors"

// Errors corresponding to non-OK result codes.
var (
	ErrInvalidHandle = errors.New("invalid handle")
	ErrInvalidUTF8   = errors.New("invalid UTF-8")
)

// ResultCode reports the outcome of a registry operation.
type ResultCode int

const (
	// ResultOK means the operation was carried out.
	ResultOK ResultCode = iota
	// ResultInvalidHandle means the handle was never issued or has been freed.
	ResultInvalidHandle
	// ResultInvalidUTF8 means a text argument was not valid UTF-8.
	// The document was not modified.
	ResultInvalidUTF8
)

// String returns the string representation of the result code.
func (r ResultCode) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultInvalidHandle:
		return "invalid handle"
	case ResultInvalidUTF8:
		return "invalid utf-8"
	default:
		return "unknown"
	}
}

// Err converts the result code into an error. ResultOK yields nil.
func (r ResultCode) Err() error {
	switch r {
	case ResultOK:
		return nil
	case ResultInvalidHandle:
		return ErrInvalidHandle
	case ResultInvalidUTF8:
		return ErrInvalidUTF8
	default:
		return errors.New("unknown result code")
	}
}

// HistoryResult is the outcome of Undo or Redo.
type HistoryResult int

const (
	// HistoryPerformed means an entry was undone or redone.
	HistoryPerformed HistoryResult = iota
	// HistoryEmpty means there was nothing to undo or redo.
	HistoryEmpty
	// HistoryError means the handle was invalid or the entry could not be
	// replayed. A failed replay leaves the document unchanged.
	HistoryError
)

// String returns the string representation of the history result.
func (r HistoryResult) String() string {
	switch r {
	case HistoryPerformed:
		return "performed"
	case HistoryEmpty:
		return "empty"
	case HistoryError:
		return "error"
	default:
		return "unknown"
	}
}
