package ui

import (
	"fmt"

	"github.com/csams/nutshell/internal/listing"
	"github.com/gdamore/tcell/v2"
)

// ArchiveView is the paginated, searchable episode listing.
type ArchiveView struct {
	listing  *listing.Listing
	act      Actions
	page     listing.PageView
	selected int
}

func NewArchiveView(l *listing.Listing, act Actions) *ArchiveView {
	v := &ArchiveView{listing: l, act: act}
	v.page = l.Current()
	return v
}

// SetListing points the view at a new listing and shows its first page.
func (v *ArchiveView) SetListing(l *listing.Listing) {
	v.listing = l
	v.show(l.RenderPage(1))
}

func (v *ArchiveView) show(page listing.PageView) {
	v.page = page
	v.selected = 0
}

// Page is the page currently drawn.
func (v *ArchiveView) Page() listing.PageView {
	return v.page
}

func (v *ArchiveView) Search(query string) {
	v.show(v.listing.Search(query))
}

func (v *ArchiveView) ApplyFilter(f listing.Filter) {
	v.show(v.listing.ApplyFilter(f))
}

func (v *ArchiveView) Next() {
	if v.page.HasNext {
		v.show(v.listing.Next())
	}
}

func (v *ArchiveView) Prev() {
	if v.page.HasPrev {
		v.show(v.listing.Prev())
	}
}

func (v *ArchiveView) Selected() (listing.Card, bool) {
	if v.selected < 0 || v.selected >= len(v.page.Cards) {
		return listing.Card{}, false
	}
	return v.page.Cards[v.selected], true
}

func (v *ArchiveView) Draw(s tcell.Screen, hits *HitMap, height int) {
	w, _ := s.Size()

	labels := make([]string, 0, len(listing.Filters))
	actions := make([]func(), 0, len(listing.Filters))
	active := -1
	for i, f := range listing.Filters {
		labels = append(labels, fmt.Sprintf("%d %s", i+1, f))
		actions = append(actions, func() { v.ApplyFilter(f) })
		if f == v.page.Filter && v.page.Query == "" {
			active = i
		}
	}
	drawText(s, 1, 0, styleHeader, "Archive")
	drawTabs(s, hits, 10, 0, labels, active, actions)

	if v.page.Query != "" {
		drawClipped(s, 1, 1, w-2, styleDimmed, fmt.Sprintf("Search: %q", v.page.Query))
	}

	top := 2
	body := height - top - 2
	if v.page.Empty() {
		msg := "No episodes found"
		drawText(s, centered(w, msg), top+1, styleDimmed, msg)
	} else {
		first, count := visibleCards(len(v.page.Cards), v.selected, body)
		for i := 0; i < count; i++ {
			idx := first + i
			drawCard(s, hits, v.act, 0, top+i*cardHeight, w, v.page.Cards[idx], idx == v.selected)
		}
	}

	v.drawPager(s, hits, height-1, w)
}

func (v *ArchiveView) drawPager(s tcell.Screen, hits *HitMap, y, w int) {
	prevStyle, nextStyle := styleDimmed, styleDimmed
	if v.page.HasPrev {
		prevStyle = styleLink
	}
	if v.page.HasNext {
		nextStyle = styleLink
	}

	n := drawText(s, 1, y, prevStyle, "< Prev")
	if v.page.HasPrev {
		hits.Add(1, y, n, 1, v.Prev)
	}

	drawText(s, centered(w, v.page.Info), y, styleDefault, v.page.Info)

	next := "Next >"
	x := w - len(next) - 1
	drawText(s, x, y, nextStyle, next)
	if v.page.HasNext {
		hits.Add(x, y, len(next), 1, v.Next)
	}
}

func (v *ArchiveView) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyDown:
		return v.move(1)
	case tcell.KeyUp:
		return v.move(-1)
	case tcell.KeyPgDn:
		v.Next()
		return true
	case tcell.KeyPgUp:
		v.Prev()
		return true
	case tcell.KeyEnter:
		if card, ok := v.Selected(); ok {
			v.act.OpenEpisode(card.Slug)
		}
		return true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'j':
			return v.move(1)
		case 'k':
			return v.move(-1)
		case 'n', ']':
			v.Next()
			return true
		case 'p', '[':
			v.Prev()
			return true
		case '1', '2', '3':
			v.ApplyFilter(listing.Filters[ev.Rune()-'1'])
			return true
		case 'o':
			if card, ok := v.Selected(); ok && len(card.Platforms) > 0 {
				v.act.OpenLink(card.Platforms[0].URL)
			}
			return true
		}
	}
	return false
}

func (v *ArchiveView) move(delta int) bool {
	next := v.selected + delta
	if next < 0 || next >= len(v.page.Cards) {
		return false
	}
	v.selected = next
	return true
}
