package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/editcore/internal/engine"
)

// Draw renders the visible part of the document, the status line and the
// cursor.
func (a *App) Draw() {
	w, h := a.screen.Size()
	if w <= 0 || h <= 0 {
		return
	}
	rows := h - 1
	a.scrollTo(rows, w)
	a.screen.Clear()

	ed := a.editor
	buf := ed.Buffer()

	// Spans come back ordered and disjoint.
	spans := ed.Highlights(a.top, a.top+rows)
	si := 0

	selStart, selEnd := -1, -1
	if sel, ok := ed.Selection(); ok && !sel.IsEmpty() {
		r := sel.Range(buf)
		selStart, selEnd = r.Start, r.End
	}

	for row := 0; row < rows; row++ {
		line := a.top + row
		if line >= ed.LineCount() {
			a.screen.SetContent(0, row, '~', nil, a.theme.Filler)
			continue
		}

		offset := buf.LineToByte(line)
		x := 0
		for i, r := range a.lineText(line) {
			b := offset + i
			for si < len(spans) && spans[si].EndByte <= b {
				si++
			}
			style := a.theme.Text
			if si < len(spans) && spans[si].StartByte <= b {
				style = a.theme.StyleForToken(spans[si].Type)
			}
			if b >= selStart && b < selEnd {
				style = a.theme.Selection
			}

			cw := a.cellWidth(r, x)
			a.putCell(x-a.left, row, r, cw, style, w)
			x += cw
		}
	}

	a.drawStatus(rows, w)

	cur := ed.Cursor()
	cx, cy := a.displayColumn(cur)-a.left, cur.Line-a.top
	if cy >= 0 && cy < rows && cx >= 0 && cx < w {
		a.screen.ShowCursor(cx, cy)
	} else {
		a.screen.HideCursor()
	}
	a.screen.Show()
}

// putCell draws one character occupying cw columns starting at x.
// Cells outside [0, width) are clipped.
func (a *App) putCell(x, y int, r rune, cw int, style tcell.Style, width int) {
	switch {
	case r == '\t':
		for i := 0; i < cw; i++ {
			if x+i >= 0 && x+i < width {
				a.screen.SetContent(x+i, y, ' ', nil, style)
			}
		}
	case x < 0 || x+cw > width:
		// partially visible wide character
	case r < ' ' || r == 0x7f:
		a.screen.SetContent(x, y, '?', nil, style)
	default:
		a.screen.SetContent(x, y, r, nil, style)
	}
}

func (a *App) drawStatus(y, width int) {
	ed := a.editor

	name := "[No Name]"
	if a.path != "" {
		name = filepath.Base(a.path)
	}
	if ed.IsDirty() {
		name += " [+]"
	}
	left := " " + name
	if a.status != "" {
		left += "  " + a.status
	}

	cur := ed.Cursor()
	right := fmt.Sprintf("%s  %d:%d ", ed.Language(), cur.Line+1, cur.Column+1)

	for x := 0; x < width; x++ {
		a.screen.SetContent(x, y, ' ', nil, a.theme.Status)
	}
	a.drawString(0, y, left, a.theme.Status, width)
	if rx := width - uniseg.StringWidth(right); rx > uniseg.StringWidth(left) {
		a.drawString(rx, y, right, a.theme.Status, width)
	}
}

func (a *App) drawString(x, y int, s string, style tcell.Style, width int) {
	for _, r := range s {
		cw := max(uniseg.StringWidth(string(r)), 1)
		if x+cw > width {
			return
		}
		a.screen.SetContent(x, y, r, nil, style)
		x += cw
	}
}

// scrollTo adjusts the viewport so the cursor is visible in a text area of
// rows lines and width columns.
func (a *App) scrollTo(rows, width int) {
	cur := a.editor.Cursor()
	if rows > 0 {
		if cur.Line < a.top {
			a.top = cur.Line
		}
		if cur.Line >= a.top+rows {
			a.top = cur.Line - rows + 1
		}
	}
	a.top = min(a.top, max(a.editor.LineCount()-1, 0))

	x := a.displayColumn(cur)
	if x < a.left {
		a.left = x
	}
	if x >= a.left+width {
		a.left = x - width + 1
	}
}

// lineText returns line i without its terminator.
func (a *App) lineText(i int) string {
	text, _ := a.editor.Line(i)
	if strings.HasSuffix(text, "\r\n") {
		return text[:len(text)-2]
	}
	return strings.TrimSuffix(text, "\n")
}

// cellWidth returns how many screen columns r takes when drawn at display
// column x.
func (a *App) cellWidth(r rune, x int) int {
	if r == '\t' {
		return a.tabWidth - x%a.tabWidth
	}
	return max(uniseg.StringWidth(string(r)), 1)
}

// displayColumn converts a position to a screen column, expanding tabs and
// wide characters.
func (a *App) displayColumn(p engine.Position) int {
	x, col := 0, 0
	for _, r := range a.lineText(p.Line) {
		if col >= p.Column {
			break
		}
		x += a.cellWidth(r, x)
		col++
	}
	return x
}

// columnAt returns the character column on line whose display column is
// closest to goal without passing it.
func (a *App) columnAt(line, goal int) int {
	x, col := 0, 0
	for _, r := range a.lineText(line) {
		cw := a.cellWidth(r, x)
		if x+cw > goal {
			break
		}
		x += cw
		col++
	}
	return col
}
