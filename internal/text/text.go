// Package text turns episode descriptions, which feeds deliver as loose
// HTML, into plain text with style spans a terminal can draw.
package text

import (
	"io"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

type Style int

const (
	Normal Style = iota
	Bold
	Italic
	Link
	Header
)

// Span styles the runes [Start, End) of a Styled text.
type Span struct {
	Start int
	End   int
	Style Style
}

type Styled struct {
	Text  string
	Spans []Span
}

// Runes is the length of the text in runes.
func (s Styled) Runes() int {
	return len([]rune(s.Text))
}

type open struct {
	tag   string
	start int
	style Style
	href  string
}

type builder struct {
	out   []rune
	spans []Span
	stack []open
	// keepNewlines is set for descriptions without markup, whose line
	// breaks are meaningful.
	keepNewlines bool
}

func (b *builder) atLineStart() bool {
	return len(b.out) == 0 || b.out[len(b.out)-1] == '\n'
}

func (b *builder) newline() {
	if len(b.out) == 0 {
		return
	}
	b.trimTrailingSpace()
	b.out = append(b.out, '\n')
}

// lineStart moves to the start of a line unless already there.
func (b *builder) lineStart() {
	if !b.atLineStart() {
		b.newline()
	}
}

func (b *builder) paragraph() {
	if len(b.out) == 0 {
		return
	}
	b.trimTrailingSpace()
	n := len(b.out)
	switch {
	case n >= 2 && b.out[n-1] == '\n' && b.out[n-2] == '\n':
	case b.out[n-1] == '\n':
		b.out = append(b.out, '\n')
	default:
		b.out = append(b.out, '\n', '\n')
	}
}

func (b *builder) trimTrailingSpace() {
	for len(b.out) > 0 && b.out[len(b.out)-1] == ' ' {
		b.out = b.out[:len(b.out)-1]
	}
}

func (b *builder) write(s string) {
	for _, r := range s {
		switch {
		case r == '\n' && b.keepNewlines:
			b.trimTrailingSpace()
			b.out = append(b.out, '\n')
		case unicode.IsSpace(r):
			if b.atLineStart() || b.out[len(b.out)-1] == ' ' {
				continue
			}
			b.out = append(b.out, ' ')
		default:
			b.out = append(b.out, r)
		}
	}
}

func (b *builder) push(tag string, style Style, href string) {
	b.stack = append(b.stack, open{tag: tag, start: len(b.out), style: style, href: href})
}

// pop closes the innermost open tag named tag. Unmatched end tags are
// ignored.
func (b *builder) pop(tag string) (open, bool) {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].tag != tag {
			continue
		}
		o := b.stack[i]
		b.stack = append(b.stack[:i], b.stack[i+1:]...)
		if end := len(b.out); end > o.start {
			b.spans = append(b.spans, Span{Start: o.start, End: end, Style: o.style})
		}
		return o, true
	}
	return open{}, false
}

func attr(t html.Token, name string) string {
	for _, a := range t.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// FromHTML renders a description. Links keep their target in parentheses
// after the link text; list items get a bullet.
func FromHTML(description string) Styled {
	b := &builder{keepNewlines: !strings.Contains(description, "<")}
	z := html.NewTokenizer(strings.NewReader(description))

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				b.write(string(z.Raw()))
			}
			break
		}

		t := z.Token()
		switch tt {
		case html.TextToken:
			b.write(t.Data)
		case html.StartTagToken, html.SelfClosingTagToken:
			b.start(t, tt == html.SelfClosingTagToken)
		case html.EndTagToken:
			b.end(t)
		}
	}

	// close whatever the markup left open
	for len(b.stack) > 0 {
		b.pop(b.stack[len(b.stack)-1].tag)
	}

	b.trimTrailingSpace()
	out := strings.TrimRightFunc(string(b.out), unicode.IsSpace)
	return Styled{Text: out, Spans: clip(b.spans, len([]rune(out)))}
}

func (b *builder) start(t html.Token, selfClosing bool) {
	switch t.Data {
	case "br":
		b.newline()
	case "p", "div":
		b.paragraph()
	case "ul", "ol":
		b.lineStart()
	case "li":
		b.lineStart()
		b.write("• ")
	case "b", "strong":
		if !selfClosing {
			b.push(t.Data, Bold, "")
		}
	case "i", "em":
		if !selfClosing {
			b.push(t.Data, Italic, "")
		}
	case "a":
		if !selfClosing {
			b.push(t.Data, Link, attr(t, "href"))
		}
	case "h1", "h2", "h3", "h4", "h5", "h6":
		b.paragraph()
		b.push(t.Data, Header, "")
	}
}

func (b *builder) end(t html.Token) {
	switch t.Data {
	case "p", "div":
		b.paragraph()
	case "li":
		b.lineStart()
	case "b", "strong", "i", "em":
		b.pop(t.Data)
	case "a":
		start := len(b.out)
		o, ok := b.pop("a")
		if !ok || o.href == "" {
			return
		}
		label := strings.TrimSpace(string(b.out[o.start:start]))
		if label != o.href {
			b.write(" (" + o.href + ")")
		}
	case "h1", "h2", "h3", "h4", "h5", "h6":
		b.pop(t.Data)
		b.paragraph()
	}
}

func clip(spans []Span, n int) []Span {
	out := spans[:0]
	for _, s := range spans {
		s.End = min(s.End, n)
		if s.End > s.Start {
			out = append(out, s)
		}
	}
	return out
}

// Plain renders a description without styles.
func Plain(description string) string {
	return FromHTML(description).Text
}
