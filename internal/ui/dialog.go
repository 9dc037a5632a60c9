package ui

import "github.com/gdamore/tcell/v2"

// box is a bordered, centered dialog frame.
type box struct {
	x, y, w, h int
	style      tcell.Style
}

// newBox clears and frames a w by h box in the middle of the screen.
func newBox(s tcell.Screen, w, h int, style tcell.Style) box {
	sw, sh := s.Size()
	w, h = min(w, sw), min(h, sh)
	b := box{x: max((sw-w)/2, 0), y: max((sh-h)/2, 0), w: w, h: h, style: style}

	for y := b.y; y < b.y+h; y++ {
		for x := b.x; x < b.x+w; x++ {
			s.SetContent(x, y, ' ', nil, style)
		}
	}

	right, bottom := b.x+w-1, b.y+h-1
	for x := b.x + 1; x < right; x++ {
		s.SetContent(x, b.y, '─', nil, style)
		s.SetContent(x, bottom, '─', nil, style)
	}
	for y := b.y + 1; y < bottom; y++ {
		s.SetContent(b.x, y, '│', nil, style)
		s.SetContent(right, y, '│', nil, style)
	}
	s.SetContent(b.x, b.y, '┌', nil, style)
	s.SetContent(right, b.y, '┐', nil, style)
	s.SetContent(b.x, bottom, '└', nil, style)
	s.SetContent(right, bottom, '┘', nil, style)

	return b
}

func (b box) title(s tcell.Screen, text string, color tcell.Color) {
	drawText(s, b.x+max(centered(b.w, text), 2), b.y+1, b.style.Foreground(color).Bold(true), text)
}

func (b box) footer(s tcell.Screen, text string, color tcell.Color) {
	drawClipped(s, b.x+max(centered(b.w, text), 2), b.y+b.h-2, b.w-4, b.style.Foreground(color), text)
}
