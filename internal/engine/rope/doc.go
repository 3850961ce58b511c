// Package rope provides an immutable rope data structure for efficient text storage and manipulation.
//
// A rope is a tree where leaf nodes contain text chunks and internal nodes
// store aggregated metrics (byte count, char count, newline count). This
// implementation uses a B+ tree variant for better cache locality and
// worst-case performance.
//
// Key features:
//   - O(log n) insertion, deletion, and access operations
//   - Immutable operations return new ropes; originals are never modified
//   - Line, char and byte indexing via aggregated metrics
//   - Copy-on-write semantics enable cheap snapshots
//
// Basic usage:
//
//	r := rope.FromString("hello world")
//	r = r.Insert(5, ",")           // "hello, world"
//	r = r.Delete(0, 7)             // "world"
//	text := r.String()             // "world"
//
// Offsets are byte offsets. Chars are Unicode scalar values; use CharToByte
// and ByteToChar to move between the two.
package rope
