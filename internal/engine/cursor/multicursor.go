package cursor

import "sort"

// MultiCursor is a primary cursor plus any number of secondary cursors.
// Positions are unique: adding a position already present is a no-op.
type MultiCursor struct {
	primary   Position
	secondary []Position
}

// NewMultiCursor creates a multi-cursor with only a primary cursor.
func NewMultiCursor(primary Position) *MultiCursor {
	return &MultiCursor{primary: primary}
}

// Primary returns the primary cursor.
func (mc *MultiCursor) Primary() Position {
	return mc.primary
}

// Secondary returns a copy of the secondary cursors in insertion order.
func (mc *MultiCursor) Secondary() []Position {
	out := make([]Position, len(mc.secondary))
	copy(out, mc.secondary)
	return out
}

// Add adds a secondary cursor unless p is already present.
func (mc *MultiCursor) Add(p Position) {
	if p == mc.primary {
		return
	}
	for _, s := range mc.secondary {
		if s == p {
			return
		}
	}
	mc.secondary = append(mc.secondary, p)
}

// All returns the primary cursor followed by the secondary cursors.
func (mc *MultiCursor) All() []Position {
	out := make([]Position, 0, len(mc.secondary)+1)
	out = append(out, mc.primary)
	return append(out, mc.secondary...)
}

// Count returns the number of cursors, primary included.
func (mc *MultiCursor) Count() int {
	return len(mc.secondary) + 1
}

// IsMulti returns true if there are secondary cursors.
func (mc *MultiCursor) IsMulti() bool {
	return len(mc.secondary) > 0
}

// Clear removes all secondary cursors.
func (mc *MultiCursor) Clear() {
	mc.secondary = nil
}

// Sorted returns all cursors in document order.
func (mc *MultiCursor) Sorted() []Position {
	all := mc.All()
	sort.Slice(all, func(i, j int) bool { return all[i].Before(all[j]) })
	return all
}

// Offsets resolves every cursor, primary first, to a byte offset.
func (mc *MultiCursor) Offsets(idx Indexer) []int {
	all := mc.All()
	offsets := make([]int, len(all))
	for i, p := range all {
		offsets[i] = idx.OffsetOf(p)
	}
	return offsets
}

// Clone returns a deep copy of the multi-cursor.
func (mc *MultiCursor) Clone() *MultiCursor {
	return &MultiCursor{primary: mc.primary, secondary: mc.Secondary()}
}
