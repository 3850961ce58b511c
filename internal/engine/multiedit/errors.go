package multiedit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/editcore/internal/engine/history"
)

// ErrOverlap indicates a batch contains edits whose ranges intersect.
var ErrOverlap = errors.New("edits overlap")

// Conflict is one pair of intersecting edits.
type Conflict struct {
	First  history.Edit
	Second history.Edit
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s overlaps %s", c.First.DeletedRange(), c.Second.DeletedRange())
}

// OverlapError is returned by Apply when a batch is rejected. It carries
// every conflicting pair, ordered by position.
type OverlapError struct {
	Conflicts []Conflict
}

func (e *OverlapError) Error() string {
	parts := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%v: %s", ErrOverlap, strings.Join(parts, ", "))
}

// Is reports whether target is ErrOverlap.
func (e *OverlapError) Is(target error) bool {
	return target == ErrOverlap
}
