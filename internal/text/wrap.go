package text

// Line is one wrapped line. Spans and Highlights are rune offsets within
// the line.
type Line struct {
	Text       string
	Spans      []Span
	Highlights []int
}

// Wrap breaks s into lines of at most width runes, keeping explicit line
// breaks. Words longer than width get a line of their own. highlights are
// rune offsets into s.Text.
func Wrap(s Styled, width int, highlights []int) []Line {
	if width <= 0 {
		return nil
	}

	marked := make(map[int]bool, len(highlights))
	for _, pos := range highlights {
		marked[pos] = true
	}

	runes := []rune(s.Text)
	var lines []Line
	var cur []rune
	var curSpans []Span
	var curHighlights []int

	flush := func() {
		lines = append(lines, Line{Text: string(cur), Spans: curSpans, Highlights: curHighlights})
		cur = nil
		curSpans = nil
		curHighlights = nil
	}

	addWord := func(start, end int) {
		n := end - start
		if len(cur) > 0 && len(cur)+1+n > width {
			flush()
		}
		if len(cur) > 0 {
			cur = append(cur, ' ')
		}
		offset := len(cur)
		cur = append(cur, runes[start:end]...)

		for i := start; i < end; i++ {
			if marked[i] {
				curHighlights = append(curHighlights, offset+i-start)
			}
		}
		for _, sp := range s.Spans {
			lo, hi := max(sp.Start, start), min(sp.End, end)
			if lo < hi {
				curSpans = append(curSpans, Span{Start: offset + lo - start, End: offset + hi - start, Style: sp.Style})
			}
		}

		if len(cur) > width {
			flush()
		}
	}

	wordStart := -1
	for i, r := range runes {
		switch r {
		case ' ', '\t':
			if wordStart >= 0 {
				addWord(wordStart, i)
				wordStart = -1
			}
		case '\n':
			if wordStart >= 0 {
				addWord(wordStart, i)
				wordStart = -1
			}
			flush()
		default:
			if wordStart < 0 {
				wordStart = i
			}
		}
	}
	if wordStart >= 0 {
		addWord(wordStart, len(runes))
	}
	if len(cur) > 0 {
		flush()
	}

	return lines
}
