package terminal

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// drawText writes s starting at (x, y), padding the row with spaces up to width.
// Wide runes take two columns.
func drawText(screen tcell.Screen, x, y, width int, s string, style tcell.Style) {
	col := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > x+width {
			break
		}
		screen.SetContent(col, y, r, nil, style)
		col += w
	}
	for ; col < x+width; col++ {
		screen.SetContent(col, y, ' ', nil, style)
	}
}
