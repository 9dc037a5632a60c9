package ui

import (
	"github.com/gdamore/tcell/v2"
)

type HelpDialog struct {
	visible      bool
	scrollOffset int
	visibleLines int
}

func NewHelpDialog() *HelpDialog {
	return &HelpDialog{
		visible: false,
	}
}

func (h *HelpDialog) Show() {
	h.visible = true
	h.scrollOffset = 0 // Reset scroll when showing
}

func (h *HelpDialog) Hide() {
	h.visible = false
}

func (h *HelpDialog) IsVisible() bool {
	return h.visible
}

func (h *HelpDialog) Draw(s tcell.Screen) {
	if !h.visible {
		return
	}

	w, screenHeight := s.Size()
	helpLines := h.getHelpContent()

	maxLineWidth := 0
	for _, line := range helpLines {
		maxLineWidth = max(maxLineWidth, len([]rune(line)))
	}

	// 2 for borders, 2 for margins
	dialogWidth := max(min(maxLineWidth+4, w-4), 40)
	dialogHeight := max(min(len(helpLines)+6, screenHeight-4), 10)

	b := newBox(s, dialogWidth, dialogHeight, tcell.StyleDefault.Background(ColorBgDark).Foreground(ColorFg))
	b.title(s, "nutshell - Keybindings", ColorYellow)

	visibleLines := dialogHeight - 5
	h.visibleLines = visibleLines
	h.scrollOffset = min(h.scrollOffset, h.maxScroll())

	for i := 0; i < visibleLines && i+h.scrollOffset < len(helpLines); i++ {
		drawClipped(s, b.x+2, b.y+3+i, dialogWidth-4, b.style, helpLines[i+h.scrollOffset])
	}

	hint := "Press Esc or ? to close this help dialog"
	if len(helpLines) > visibleLines {
		switch {
		case h.scrollOffset > 0 && h.scrollOffset+visibleLines < len(helpLines):
			hint = "↑↓ Use j/k or Up/Down to scroll, Esc to close"
		case h.scrollOffset > 0:
			hint = "↑ Use k or Up to scroll up, Esc to close"
		default:
			hint = "↓ Use j or Down to scroll down, Esc to close"
		}
	}
	b.footer(s, hint, ColorDimmed)
}

func (h *HelpDialog) HandleKey(ev *tcell.EventKey) bool {
	if !h.visible {
		return false
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		h.Hide()
		return true
	case tcell.KeyUp:
		h.scrollUp()
		return true
	case tcell.KeyDown:
		h.scrollDown()
		return true
	case tcell.KeyRune:
		switch ev.Rune() {
		case '?':
			h.Hide()
			return true
		case 'j':
			h.scrollDown()
			return true
		case 'k':
			h.scrollUp()
			return true
		case 'g':
			h.scrollOffset = 0
			return true
		case 'G':
			h.scrollToBottom()
			return true
		}
	}

	return true // Consume all other keys when visible
}

// getHelpContent returns the help text content
func (h *HelpDialog) getHelpContent() []string {
	return []string{
		"",
		"Screens:",
		"  Tab / Shift+Tab  Cycle home, archive and show page",
		"  Enter            Open the selected episode",
		"  Esc / h          Leave the episode page",
		"  Mouse click      Open a card, a link or a page control",
		"",
		"Lists:",
		"  j / k            Move down/up",
		"  Ctrl+F / B       Page down/up",
		"  g / G            Go to top/bottom",
		"  L                Load more episodes (home)",
		"",
		"Archive:",
		"  n / p            Next/previous page",
		"  1 / 2 / 3        All, recent or popular episodes",
		"  /                Search titles and descriptions",
		"  o                Open the first platform link of a card",
		"",
		"Episode page:",
		"  1-9              Open a related episode",
		"  c                Copy the episode link",
		"  o                Open the episode on Spotify",
		"",
		"Playback Control:",
		"  Space            Play/pause",
		"  Left/Right       Seek backward/forward 10 seconds",
		"  b / f            Seek backward/forward 30 seconds",
		"  m                Mute/unmute",
		"  < / >            Decrease/increase playback speed",
		"  =                Reset to normal speed (1.0x)",
		"  Drag the bar     Seek to a position",
		"",
		"Other:",
		"  R                Refresh episodes from the feed",
		"  ?                Show this help dialog",
		"  q                Quit application",
		"",
	}
}

// scrollUp scrolls the help content up by one line
func (h *HelpDialog) scrollUp() {
	if h.scrollOffset > 0 {
		h.scrollOffset--
	}
}

func (h *HelpDialog) maxScroll() int {
	visible := h.visibleLines
	if visible <= 0 {
		visible = 15
	}
	return max(len(h.getHelpContent())-visible, 0)
}

// scrollDown scrolls the help content down by one line
func (h *HelpDialog) scrollDown() {
	if h.scrollOffset < h.maxScroll() {
		h.scrollOffset++
	}
}

// scrollToBottom scrolls to the bottom of the help content
func (h *HelpDialog) scrollToBottom() {
	h.scrollOffset = h.maxScroll()
}
