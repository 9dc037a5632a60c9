package ui

import (
	"strings"

	"github.com/csams/nutshell/internal/listing"
	"github.com/gdamore/tcell/v2"
)

// Actions is what views ask the app to do in response to input.
type Actions interface {
	OpenEpisode(slug string)
	CloseEpisode()
	OpenLink(url string)
}

// cardHeight is the number of lines a card takes, its spacer included.
const cardHeight = 5

// drawCard draws one episode card at y. The whole card opens the episode;
// each platform link opens only itself.
func drawCard(s tcell.Screen, hits *HitMap, act Actions, x, y, width int, card listing.Card, selected bool) {
	style := styleDefault
	if selected {
		style = styleSelected
		for row := y; row < y+cardHeight-1; row++ {
			for col := x; col < x+width; col++ {
				s.SetContent(col, row, ' ', nil, style)
			}
		}
	}

	slug := card.Slug
	hits.Add(x, y, width, cardHeight-1, func() { act.OpenEpisode(slug) })

	drawTextWithHighlight(s, x+1, y, width-2, style.Bold(true), card.Title, card.TitleMatches)

	meta := card.Date
	if card.Duration != "" {
		meta += "  " + card.Duration
	}
	drawClipped(s, x+1, y+1, width-2, style.Foreground(ColorDimmed), meta)
	drawClipped(s, x+1, y+2, width-2, style, card.Excerpt)

	col := x + 1
	for _, p := range card.Platforms {
		label := "[" + p.Name + "]"
		if col+len(label) > x+width-1 {
			break
		}
		n := drawText(s, col, y+3, style.Foreground(ColorLink), label)
		url := p.URL
		hits.Add(col, y+3, n, 1, func() { act.OpenLink(url) })
		col += n + 1
	}
}

// visibleCards returns the first card to draw so that selected stays on
// screen, and how many fit in height.
func visibleCards(total, selected, height int) (first, count int) {
	fit := max(height/cardHeight, 1)
	if total <= fit {
		return 0, total
	}
	first = min(max(selected-fit/2, 0), total-fit)
	return first, fit
}

// drawTabs draws labels on one line and registers a click action for each.
func drawTabs(s tcell.Screen, hits *HitMap, x, y int, labels []string, active int, actions []func()) int {
	col := x
	for i, label := range labels {
		style := styleDimmed
		if i == active {
			style = styleHeader.Underline(true)
		}
		n := drawText(s, col, y, style, label)
		if i < len(actions) {
			hits.Add(col, y, n, 1, actions[i])
		}
		col += n + 2
	}
	return col - x
}

func centered(width int, text string) int {
	return max((width-len([]rune(text)))/2, 0)
}

func rule(width int) string {
	return strings.Repeat("─", max(width, 0))
}
