// Package share builds the share targets of an episode page and copies its
// link to the clipboard.
package share

import (
	"errors"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/csams/nutshell/internal/log"
)

// Link is one share target.
type Link struct {
	Name string
	URL  string
}

// encodeComponent escapes s for use inside a query value, spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Links returns the Twitter, Facebook and email targets for pageURL.
func Links(pageURL, title string) []Link {
	return []Link{
		{
			Name: "Twitter",
			URL:  "https://twitter.com/intent/tweet?text=" + encodeComponent(title) + "&url=" + encodeComponent(pageURL),
		},
		{
			Name: "Facebook",
			URL:  "https://www.facebook.com/sharer/sharer.php?u=" + encodeComponent(pageURL),
		},
		{
			Name: "Email",
			URL:  "mailto:?subject=" + encodeComponent(title) + "&body=" + encodeComponent("Check out this episode: "+pageURL),
		},
	}
}

// Method says how a link reached the user.
type Method int

const (
	// Clipboard means the system clipboard holds the link.
	Clipboard Method = iota
	// Terminal means the terminal was asked to set its clipboard.
	Terminal
	// Prompt means nothing could be copied and the link must be shown.
	Prompt
)

func (m Method) String() string {
	switch m {
	case Clipboard:
		return "clipboard"
	case Terminal:
		return "terminal"
	default:
		return "prompt"
	}
}

// Copier copies text through the system clipboard, then the OSC 52
// terminal sequence. A nil Terminal skips the second step.
type Copier struct {
	WriteClipboard func(string) error
	Terminal       io.Writer
	Getenv         func(string) string
}

// NewCopier copies to the system clipboard or, failing that, through
// the terminal on out.
func NewCopier(out io.Writer) *Copier {
	return &Copier{
		WriteClipboard: func(text string) error {
			if clipboard.Unsupported {
				return errors.New("clipboard unsupported")
			}
			return clipboard.WriteAll(text)
		},
		Terminal: out,
		Getenv:   os.Getenv,
	}
}

// Copy places text on a clipboard and reports which step succeeded.
// Prompt is returned when every step failed.
func (c *Copier) Copy(text string) Method {
	if c.WriteClipboard != nil {
		err := c.WriteClipboard(text)
		if err == nil {
			return Clipboard
		}
		log.Debugf("share: system clipboard failed: %v", err)
	}

	if c.Terminal != nil {
		_, err := c.sequence(text).WriteTo(c.Terminal)
		if err == nil {
			return Terminal
		}
		log.Debugf("share: osc52 failed: %v", err)
	}

	return Prompt
}

func (c *Copier) sequence(text string) osc52.Sequence {
	seq := osc52.New(text)

	getenv := c.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	switch {
	case getenv("TMUX") != "":
		seq = seq.Tmux()
	case strings.HasPrefix(getenv("TERM"), "screen"):
		seq = seq.Screen()
	}
	return seq
}
