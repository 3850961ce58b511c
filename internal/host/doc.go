// Package host exposes editors to an embedding program through opaque
// handles.
//
// A Registry is an arena of engine.Editor instances indexed by Handle.
// Creating an editor transfers ownership to its handle and Free is the
// only way to release it. After Free the handle is dead: every operation
// on it, including a second Free, reports ResultInvalidHandle.
//
// Every operation that accepts text takes raw bytes and validates them as
// UTF-8 before touching the document. Invalid input is rejected with
// ResultInvalidUTF8 and the document is left exactly as it was.
//
// Each handle is guarded by its own mutex. Calls on one handle are
// serialized; calls on different handles run concurrently.
//
//	reg := host.NewRegistry()
//	h, _ := reg.CreateWithContent([]byte("fn main() {}"), []byte("rs"))
//	defer reg.Free(h)
//
//	reg.MoveCursor(h, 0, 12)
//	reg.InsertText(h, []byte("\n"))
//	if reg.Undo(h) == host.HistoryPerformed {
//		// ...
//	}
package host
