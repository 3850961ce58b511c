package history

// BeginGroup starts a group. Edits recorded until EndGroup form a single
// undo unit. Nested calls are ignored.
func (j *Journal) BeginGroup(label string) {
	if j.grouping {
		return
	}
	j.grouping = true
	j.groupLabel = label
	j.groupEdits = nil
}

// EndGroup closes the open group and pushes it as one undo unit.
// An empty group records nothing.
func (j *Journal) EndGroup() {
	if !j.grouping {
		return
	}
	j.grouping = false
	edits := j.groupEdits
	j.groupEdits = nil
	if len(edits) == 0 {
		return
	}
	j.RecordGroup(j.groupLabel, edits)
}

// CancelGroup closes the open group without recording it.
// Note: edits already applied still affect the buffer.
func (j *Journal) CancelGroup() {
	j.grouping = false
	j.groupEdits = nil
}

// IsGrouping returns true if a group is open.
func (j *Journal) IsGrouping() bool {
	return j.grouping
}

// Transaction runs fn inside a group. If fn returns an error the group is
// cancelled; otherwise it is recorded as one undo unit.
func (j *Journal) Transaction(label string, fn func() error) error {
	if j.grouping {
		return fn()
	}
	j.BeginGroup(label)
	if err := fn(); err != nil {
		j.CancelGroup()
		return err
	}
	j.EndGroup()
	return nil
}
