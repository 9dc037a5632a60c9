package ui

import (
	"github.com/csams/nutshell/internal/text"
	"github.com/gdamore/tcell/v2"
)

// drawText draws text at (x, y) and returns the number of cells used.
func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) int {
	pos := 0
	for _, r := range text {
		s.SetContent(x+pos, y, r, nil, style)
		pos++
	}
	return pos
}

// drawClipped draws at most maxWidth runes, ending in "..." when cut.
func drawClipped(s tcell.Screen, x, y, maxWidth int, style tcell.Style, text string) int {
	return drawText(s, x, y, style, truncate(text, maxWidth))
}

// drawTextWithHighlight draws text with specified positions highlighted
func drawTextWithHighlight(s tcell.Screen, x, y, maxWidth int, style tcell.Style, text string, highlightPositions []int) {
	highlightMap := make(map[int]bool, len(highlightPositions))
	for _, pos := range highlightPositions {
		highlightMap[pos] = true
	}

	highlightStyle := style.Foreground(ColorHighlight).Bold(true)

	for i, r := range []rune(truncate(text, maxWidth)) {
		charStyle := style
		if highlightMap[i] {
			charStyle = highlightStyle
		}
		s.SetContent(x+i, y, r, nil, charStyle)
	}
}

// drawStyledLine draws one wrapped description line with its spans.
func drawStyledLine(s tcell.Screen, x, y, maxWidth int, base tcell.Style, line text.Line) {
	styles := make([]tcell.Style, 0, len(line.Text))
	for range []rune(line.Text) {
		styles = append(styles, base)
	}
	for _, sp := range line.Spans {
		for i := sp.Start; i < sp.End && i < len(styles); i++ {
			styles[i] = GetTcellStyle(styles[i], sp.Style)
		}
	}
	for _, pos := range line.Highlights {
		if pos < len(styles) {
			styles[pos] = styles[pos].Foreground(ColorHighlight).Bold(true)
		}
	}

	for i, r := range []rune(line.Text) {
		if i >= maxWidth {
			break
		}
		s.SetContent(x+i, y, r, nil, styles[i])
	}
}

func fillRow(s tcell.Screen, y, width int, style tcell.Style) {
	for x := 0; x < width; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

func truncate(text string, width int) string {
	runes := []rune(text)
	if width <= 0 {
		return ""
	}
	if len(runes) <= width {
		return text
	}
	if width > 3 {
		return string(runes[:width-3]) + "..."
	}
	return string(runes[:width])
}
