package ui

import (
	"github.com/csams/nutshell/internal/text"
	"github.com/gdamore/tcell/v2"
)

// IssueTitle heads the panel shown when no episodes could be loaded.
const IssueTitle = "Episodes Loading Issue"

// IssueView replaces the episode views while the list is empty after a
// failed load.
type IssueView struct {
	err   error
	retry func()
}

func NewIssueView(retry func()) *IssueView {
	return &IssueView{retry: retry}
}

func (v *IssueView) SetError(err error) {
	v.err = err
}

func (v *IssueView) Draw(s tcell.Screen, hits *HitMap, height int) {
	w, _ := s.Size()
	y := max(height/2-3, 1)

	drawText(s, centered(w, IssueTitle), y, styleDefault.Foreground(ColorError).Bold(true), IssueTitle)

	msg := "We could not load the episodes right now. Check your connection and try again."
	if v.err != nil {
		msg += " (" + v.err.Error() + ")"
	}
	for i, line := range text.Wrap(text.Styled{Text: msg}, min(w-4, 70), nil) {
		drawText(s, centered(w, line.Text), y+2+i, styleDefault, line.Text)
	}

	button := "[ Retry ]"
	bx, by := centered(w, button), min(y+6, height-1)
	drawText(s, bx, by, styleLink, button)
	hits.Add(bx, by, len(button), 1, v.retry)
}

func (v *IssueView) HandleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyEnter || (ev.Key() == tcell.KeyRune && ev.Rune() == 'r') {
		v.retry()
		return true
	}
	return false
}
