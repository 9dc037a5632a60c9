package ui

import (
	"fmt"
	"strings"

	"github.com/csams/nutshell/internal/player"
	"github.com/gdamore/tcell/v2"
)

// PlayerBar is the one-line audio control above the status bar.
type PlayerBar struct {
	player  *player.Player
	surface *player.Surface

	// progress bar geometry from the last draw
	barX, barY, barW int
}

func NewPlayerBar(p *player.Player, surface *player.Surface) *PlayerBar {
	return &PlayerBar{player: p, surface: surface}
}

func (b *PlayerBar) Draw(s tcell.Screen, hits *HitMap, y int) {
	w, _ := s.Size()
	style := tcell.StyleDefault.Background(ColorBgDark).Foreground(ColorFg)
	fillRow(s, y, w, style)
	b.barW = 0

	track, ok := b.player.Track()
	if !ok {
		drawText(s, 1, y, style.Foreground(ColorDimmed), "Nothing playing")
		return
	}

	view := b.surface.View()

	iconStyle := style.Foreground(ColorPaused)
	if view.Playing {
		iconStyle = style.Foreground(ColorPlaying)
	}
	drawText(s, 1, y, iconStyle, view.Icon)
	hits.Add(0, y, 3, 1, func() { b.player.TogglePause() })

	var flags []string
	if speed := b.player.GetSpeed(); speed != 1.0 {
		flags = append(flags, fmt.Sprintf("%.2gx", speed))
	}
	if b.player.IsMuted() {
		flags = append(flags, "muted")
	}
	right := view.Remaining
	if len(flags) > 0 {
		right += " [" + strings.Join(flags, " ") + "]"
	}

	titleWidth := min(max(w/3, 12), 48)
	title := track.Title
	if track.Date != "" {
		title += " · " + track.Date
	}
	x := 4
	x += drawClipped(s, x, y, titleWidth, style.Bold(true), title) + 2

	if view.Error != "" {
		drawClipped(s, x, y, w-x-1, style.Foreground(ColorError), view.Error)
		return
	}

	x += drawText(s, x, y, style, view.Elapsed) + 1
	barW := w - x - len([]rune(right)) - 2
	if barW >= 5 {
		filled := int(view.Progress * float64(barW))
		for i := 0; i < barW; i++ {
			r, st := '─', style.Foreground(ColorFgGutter)
			if i < filled {
				r, st = '━', style.Foreground(ColorBlue)
			}
			s.SetContent(x+i, y, r, nil, st)
		}
		b.barX, b.barY, b.barW = x, y, barW
		x += barW + 1
	}
	drawText(s, x, y, style, right)
}

// Fraction maps a screen position onto the progress bar, reporting false
// when it lies outside it.
func (b *PlayerBar) Fraction(x, y int) (float64, bool) {
	if b.barW <= 0 || y != b.barY || x < b.barX || x >= b.barX+b.barW {
		return 0, false
	}
	return b.Clamp(x), true
}

// Clamp maps any column onto the progress bar.
func (b *PlayerBar) Clamp(x int) float64 {
	if b.barW <= 1 {
		return 0
	}
	return min(max(float64(x-b.barX)/float64(b.barW-1), 0), 1)
}
