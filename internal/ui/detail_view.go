package ui

import (
	"fmt"
	"strings"

	"github.com/csams/nutshell/internal/detail"
	"github.com/csams/nutshell/internal/models"
	"github.com/csams/nutshell/internal/text"
	"github.com/gdamore/tcell/v2"
)

// segment is a run of text on a detail line, clickable when action is set.
type segment struct {
	text   string
	style  tcell.Style
	action func()
}

// detailLine is either a list of segments or one wrapped description line.
type detailLine struct {
	segments []segment
	styled   *text.Line
}

func plainLine(style tcell.Style, s string) detailLine {
	return detailLine{segments: []segment{{text: s, style: style}}}
}

// DetailView draws one episode page.
type DetailView struct {
	view   detail.EpisodeView
	act    Actions
	scroll int
	lines  int
	height int
}

func NewDetailView(act Actions) *DetailView {
	return &DetailView{act: act}
}

// SetView replaces the episode shown. Scrolling resets when the episode
// changes.
func (v *DetailView) SetView(view detail.EpisodeView) {
	if view.GUID != v.view.GUID {
		v.scroll = 0
	}
	v.view = view
}

func (v *DetailView) View() detail.EpisodeView {
	return v.view
}

func (v *DetailView) build(width int) []detailLine {
	ev := v.view
	var lines []detailLine
	blank := plainLine(styleDefault, "")

	lines = append(lines, plainLine(styleHeader, ev.Title))

	meta := []string{}
	if ev.EpisodeNumber > 0 {
		meta = append(meta, fmt.Sprintf("Episode %d", ev.EpisodeNumber))
	}
	meta = append(meta, ev.Date)
	if ev.Duration != "" {
		meta = append(meta, ev.Duration)
	}
	lines = append(lines, plainLine(styleDimmed, strings.Join(meta, " · ")), blank)

	if ev.Audio.Available {
		lines = append(lines, plainLine(styleDefault.Foreground(ColorPlaying), "♪ Loaded in the player. Space plays or pauses."))
	} else {
		for _, l := range text.Wrap(text.Styled{Text: ev.Audio.Placeholder}, width, nil) {
			lines = append(lines, plainLine(styleDefault.Foreground(ColorYellow), l.Text))
		}
		lines = append(lines, v.links("Listen on:", ev.Audio.Platforms))
	}
	if ev.SpotifyURL != "" {
		url := ev.SpotifyURL
		lines = append(lines, detailLine{segments: []segment{
			{text: "Spotify: ", style: styleDimmed},
			{text: url, style: styleLink, action: func() { v.act.OpenLink(url) }},
		}})
	}
	lines = append(lines, blank)

	for _, l := range text.Wrap(text.FromHTML(ev.Description), width, nil) {
		lines = append(lines, detailLine{styled: &l})
	}

	switch {
	case ev.State == detail.LoadingSources:
		lines = append(lines, blank, plainLine(styleDimmed, "Loading sources..."))
	case ev.ShowSources():
		lines = append(lines, blank, plainLine(styleHeader, "Sources"))
		for i, src := range ev.Sources {
			url := src.URL
			segs := []segment{
				{text: fmt.Sprintf("%2d. ", i+1), style: styleDimmed},
				{text: src.Title, style: styleLink, action: func() { v.act.OpenLink(url) }},
			}
			if src.Label != "" {
				segs = append(segs, segment{text: "  " + src.Label, style: styleDimmed})
			}
			lines = append(lines, detailLine{segments: segs})
		}
	}

	lines = append(lines, blank)
	shareSegs := []segment{{text: "Share: ", style: styleDimmed}}
	for _, link := range ev.Share {
		url := link.URL
		shareSegs = append(shareSegs,
			segment{text: "[" + link.Name + "]", style: styleLink, action: func() { v.act.OpenLink(url) }},
			segment{text: " ", style: styleDefault})
	}
	shareSegs = append(shareSegs, segment{text: " c copies " + ev.URL, style: styleDimmed})
	lines = append(lines, detailLine{segments: shareSegs})

	if len(ev.Related) > 0 {
		lines = append(lines, blank, plainLine(styleHeader, "More Episodes"))
		for i, rel := range ev.Related {
			slug := rel.Slug
			lines = append(lines, detailLine{segments: []segment{
				{text: fmt.Sprintf("%d ", i+1), style: styleDimmed},
				{text: rel.Title, style: styleLink, action: func() { v.act.OpenEpisode(slug) }},
				{text: "  " + rel.Date, style: styleDimmed},
			}})
		}
	}

	return lines
}

func (v *DetailView) links(label string, platforms []models.PlatformLink) detailLine {
	segs := []segment{{text: label + " ", style: styleDimmed}}
	for _, p := range platforms {
		url := p.URL
		segs = append(segs,
			segment{text: "[" + p.Name + "]", style: styleLink, action: func() { v.act.OpenLink(url) }},
			segment{text: " ", style: styleDefault})
	}
	return detailLine{segments: segs}
}

func (v *DetailView) Draw(s tcell.Screen, hits *HitMap, height int) {
	w, _ := s.Size()
	if v.view.Empty() {
		return
	}

	back := "< Back"
	drawText(s, 1, 0, styleLink, back)
	hits.Add(1, 0, len(back), 1, v.act.CloseEpisode)

	width := max(w-4, 10)
	lines := v.build(width)
	v.lines = len(lines)
	v.height = height - 2
	v.scroll = min(v.scroll, max(v.lines-v.height, 0))

	for i := 0; i < v.height && i+v.scroll < len(lines); i++ {
		y := 2 + i
		line := lines[i+v.scroll]
		if line.styled != nil {
			drawStyledLine(s, 2, y, width, styleDefault, *line.styled)
			continue
		}
		x := 2
		for _, seg := range line.segments {
			if x >= 2+width {
				break
			}
			n := drawClipped(s, x, y, 2+width-x, seg.style, seg.text)
			if seg.action != nil {
				hits.Add(x, y, n, 1, seg.action)
			}
			x += n
		}
	}
}

func (v *DetailView) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyDown:
		return v.scrollBy(1)
	case tcell.KeyUp:
		return v.scrollBy(-1)
	case tcell.KeyPgDn, tcell.KeyCtrlF:
		return v.scrollBy(max(v.height-1, 1))
	case tcell.KeyPgUp, tcell.KeyCtrlB:
		return v.scrollBy(-max(v.height-1, 1))
	case tcell.KeyRune:
		switch r := ev.Rune(); r {
		case 'j':
			return v.scrollBy(1)
		case 'k':
			return v.scrollBy(-1)
		case 'g':
			v.scroll = 0
			return true
		case '1', '2', '3', '4', '5', '6', '7', '8', '9':
			idx := int(r - '1')
			if idx < len(v.view.Related) {
				v.act.OpenEpisode(v.view.Related[idx].Slug)
				return true
			}
		case 'o':
			if v.view.SpotifyURL != "" {
				v.act.OpenLink(v.view.SpotifyURL)
				return true
			}
		}
	}
	return false
}

func (v *DetailView) scrollBy(delta int) bool {
	next := min(max(v.scroll+delta, 0), max(v.lines-v.height, 0))
	if next == v.scroll {
		return false
	}
	v.scroll = next
	return true
}
