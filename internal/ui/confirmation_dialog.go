package ui

import (
	"github.com/csams/nutshell/internal/text"
	"github.com/gdamore/tcell/v2"
)

type ConfirmationDialog struct {
	visible bool
	title   string
	message string
	onYes   func()
	onNo    func()
}

func NewConfirmationDialog() *ConfirmationDialog {
	return &ConfirmationDialog{}
}

func (c *ConfirmationDialog) Show(title, message string, onYes, onNo func()) {
	c.visible = true
	c.title = title
	c.message = message
	c.onYes = onYes
	c.onNo = onNo
}

func (c *ConfirmationDialog) Hide() {
	c.visible = false
	c.title = ""
	c.message = ""
	c.onYes = nil
	c.onNo = nil
}

func (c *ConfirmationDialog) IsVisible() bool {
	return c.visible
}

func (c *ConfirmationDialog) Draw(s tcell.Screen) {
	if !c.visible {
		return
	}

	const dialogWidth, dialogHeight = 50, 8
	b := newBox(s, dialogWidth, dialogHeight, tcell.StyleDefault.Background(ColorBgHighlight).Foreground(ColorFg))
	b.title(s, c.title, ColorOrange)

	for i, line := range text.Wrap(text.Styled{Text: c.message}, b.w-4, nil) {
		if i+3 >= b.h-2 {
			break
		}
		drawText(s, b.x+2, b.y+3+i, b.style, line.Text)
	}

	buttons := b.style.Bold(true)
	drawText(s, b.x+b.w/2-6, b.y+b.h-2, buttons, "[Y]es")
	drawText(s, b.x+b.w/2+2, b.y+b.h-2, buttons, "[N]o")
}

func (c *ConfirmationDialog) HandleKey(ev *tcell.EventKey) bool {
	if !c.visible {
		return false
	}

	answer := func(fn func()) {
		// hide first so fn may open another dialog
		c.Hide()
		if fn != nil {
			fn()
		}
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		answer(c.onNo)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'y', 'Y':
			answer(c.onYes)
		case 'n', 'N':
			answer(c.onNo)
		}
	}

	// modal: swallow everything else
	return true
}
