package engine

import (
	"github.com/dshills/editcore/internal/engine/cursor"
	"github.com/dshills/editcore/internal/engine/multiedit"
	"github.com/dshills/editcore/internal/engine/search"
)

// ApplyMultiEdit applies a batch of edits as one mutation and one undo
// unit. If any edits overlap the batch is rejected, the document is left
// unchanged and the returned error wraps ErrEditsOverlap. Edits that fall
// outside the document are skipped and listed in the result.
//
// The cursor and selection follow the text they were on.
func (e *Editor) ApplyMultiEdit(m *multiedit.MultiEdit) (multiedit.Result, error) {
	return e.applyBatch("Multi-Edit", m)
}

func (e *Editor) applyBatch(label string, m *multiedit.MultiEdit) (multiedit.Result, error) {
	if m == nil || m.IsEmpty() {
		return multiedit.Result{}, nil
	}

	// Track cursor and selection through the batch as byte offsets.
	offsets := []int{e.buf.OffsetOf(e.cursor)}
	if e.selection != nil {
		offsets = append(offsets, e.buf.OffsetOf(e.selection.Start), e.buf.OffsetOf(e.selection.End))
	}

	e.begin()
	res, err := m.Apply(e.buf)
	if err != nil {
		e.logger.Warn("%s rejected: %v", label, err)
		return res, err
	}
	for _, s := range res.Skipped {
		e.logger.Warn("%s skipped %s: %s (length %d)", label, s.Edit, s.Reason, s.Len)
	}
	e.journal.RecordGroup(label, res.Applied)

	cursor.TransformOffsets(offsets, e.changes)
	e.cursor = e.buf.PositionAt(offsets[0])
	if e.selection != nil {
		sel := cursor.NewSelection(e.buf.PositionAt(offsets[1]), e.buf.PositionAt(offsets[2]))
		e.selection = &sel
	}
	e.commit()
	return res, nil
}

// InsertColumn inserts text at the left column of every line covered by a
// block selection. Lines that are missing or too short are returned and
// left alone.
func (e *Editor) InsertColumn(cs multiedit.ColumnSelection, text string) ([]multiedit.LineSkip, error) {
	m, skipped := cs.Insert(e.buf, text)
	e.logSkippedLines("column insert", skipped)
	_, err := e.applyBatch("Column Insert", m)
	return skipped, err
}

// DeleteColumn removes a block selection's columns from every covered
// line.
func (e *Editor) DeleteColumn(cs multiedit.ColumnSelection) ([]multiedit.LineSkip, error) {
	m, skipped := cs.Delete(e.buf)
	e.logSkippedLines("column delete", skipped)
	_, err := e.applyBatch("Column Delete", m)
	return skipped, err
}

func (e *Editor) logSkippedLines(op string, skipped []multiedit.LineSkip) {
	for _, s := range skipped {
		e.logger.Warn("%s: %s", op, s)
	}
}

// InsertAtCursors inserts text at every cursor of mc as one undo unit.
// Cursors that clamp to the same offset receive the text once. The
// editor's own cursor ends up past the text inserted at it.
func (e *Editor) InsertAtCursors(mc *cursor.MultiCursor, text string) (multiedit.Result, error) {
	m := multiedit.New()
	seen := make(map[int]bool, mc.Count())
	for _, off := range mc.Offsets(e.buf) {
		if seen[off] {
			continue
		}
		seen[off] = true
		m.Insert(off, text)
	}
	return e.applyBatch("Multi-Cursor Insert", m)
}

// ============================================================================
// Search
// ============================================================================

// Find returns every match of query in the document.
func (e *Editor) Find(query string, opts search.Options) ([]search.Match, error) {
	return search.Find(e.buf, query, opts, nil)
}

// FindNext searches from the cursor in the direction opts gives. On a
// match it selects the match and moves the cursor to its far end, so
// repeated calls step through the document.
func (e *Editor) FindNext(query string, opts search.Options) (search.Match, bool, error) {
	m, ok, err := search.FindNext(e.buf, query, e.cursor, opts)
	if err != nil || !ok {
		return m, ok, err
	}
	if opts.Backwards {
		e.SetSelection(m.End, m.Start)
		e.cursor = m.Start
	} else {
		e.SetSelection(m.Start, m.End)
		e.cursor = m.End
	}
	return m, true, nil
}

// ReplaceAll replaces every match of query and returns the number of
// replacements. All replacements undo together.
func (e *Editor) ReplaceAll(query, replacement string, opts search.Options) (int, error) {
	m, err := search.ReplaceAll(e.buf, query, replacement, opts)
	if err != nil {
		return 0, err
	}
	res, err := e.applyBatch("Replace All", m)
	if err != nil {
		return 0, err
	}
	return len(res.Applied), nil
}
