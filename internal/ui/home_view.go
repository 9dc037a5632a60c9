package ui

import (
	"fmt"

	"github.com/csams/nutshell/internal/listing"
	"github.com/gdamore/tcell/v2"
)

// HomeView shows the latest episodes with a "load more" control.
type HomeView struct {
	home     *listing.Home
	act      Actions
	view     listing.HomeView
	selected int
}

func NewHomeView(h *listing.Home, act Actions) *HomeView {
	return &HomeView{home: h, act: act, view: h.View()}
}

func (v *HomeView) SetHome(h *listing.Home) {
	v.home = h
	v.view = h.View()
	v.selected = 0
}

func (v *HomeView) LoadMore() {
	if v.view.CanLoad {
		v.view = v.home.LoadMore()
	}
}

func (v *HomeView) Draw(s tcell.Screen, hits *HitMap, height int) {
	w, _ := s.Size()

	drawText(s, 1, 0, styleHeader, "Latest Episodes")
	drawText(s, 18, 0, styleDimmed, fmt.Sprintf("%d of %d", v.view.Shown, v.view.Total))
	if stats := homeStats(v.view); stats != "" {
		drawText(s, w-len([]rune(stats))-1, 0, styleDimmed, stats)
	}

	top := 2
	body := height - top - 1
	if len(v.view.Cards) == 0 {
		msg := "No episodes yet"
		drawText(s, centered(w, msg), top+1, styleDimmed, msg)
		return
	}

	first, count := visibleCards(len(v.view.Cards), v.selected, body)
	for i := 0; i < count; i++ {
		idx := first + i
		drawCard(s, hits, v.act, 0, top+i*cardHeight, w, v.view.Cards[idx], idx == v.selected)
	}

	if v.view.CanLoad {
		label := "[ Load more episodes ]"
		x, y := centered(w, label), height-1
		style := styleLink
		if v.selected == len(v.view.Cards) {
			style = styleSelected.Foreground(ColorLink)
		}
		drawText(s, x, y, style, label)
		hits.Add(x, y, len([]rune(label)), 1, v.LoadMore)
	}
}

// homeStats is the episode count and the year the show launched.
func homeStats(hv listing.HomeView) string {
	if hv.Total == 0 {
		return ""
	}
	stats := fmt.Sprintf("%d episodes", hv.Total)
	if hv.Total == 1 {
		stats = "1 episode"
	}
	if hv.LaunchYear > 0 {
		stats += fmt.Sprintf(" since %d", hv.LaunchYear)
	}
	return stats
}

func (v *HomeView) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyDown:
		return v.move(1)
	case tcell.KeyUp:
		return v.move(-1)
	case tcell.KeyEnter:
		v.activate()
		return true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'j':
			return v.move(1)
		case 'k':
			return v.move(-1)
		case 'L':
			v.LoadMore()
			return true
		}
	}
	return false
}

func (v *HomeView) activate() {
	if v.selected < len(v.view.Cards) {
		v.act.OpenEpisode(v.view.Cards[v.selected].Slug)
		return
	}
	v.LoadMore()
}

func (v *HomeView) move(delta int) bool {
	last := len(v.view.Cards) - 1
	if v.view.CanLoad {
		last++
	}
	next := v.selected + delta
	if next < 0 || next > last {
		return false
	}
	v.selected = next
	return true
}
