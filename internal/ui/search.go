package ui

// SearchState is the line editor behind the search prompt. The cursor is a
// rune offset.
type SearchState struct {
	query     []rune
	cursorPos int
}

func NewSearchState() *SearchState {
	return &SearchState{}
}

// Query returns the text typed so far.
func (s *SearchState) Query() string {
	return string(s.query)
}

// Cursor returns the cursor position in runes.
func (s *SearchState) Cursor() int {
	return s.cursorPos
}

// SetQuery replaces the query and moves the cursor to its end.
func (s *SearchState) SetQuery(query string) {
	s.query = []rune(query)
	s.cursorPos = len(s.query)
}

func (s *SearchState) Clear() {
	s.query = nil
	s.cursorPos = 0
}

// InsertChar inserts a character at the cursor position
func (s *SearchState) InsertChar(ch rune) {
	s.query = append(s.query[:s.cursorPos], append([]rune{ch}, s.query[s.cursorPos:]...)...)
	s.cursorPos++
}

// DeleteChar deletes the character before the cursor (backspace)
func (s *SearchState) DeleteChar() {
	if s.cursorPos > 0 {
		s.query = append(s.query[:s.cursorPos-1], s.query[s.cursorPos:]...)
		s.cursorPos--
	}
}

// DeleteCharForward deletes the character at the cursor (delete)
func (s *SearchState) DeleteCharForward() {
	if s.cursorPos < len(s.query) {
		s.query = append(s.query[:s.cursorPos], s.query[s.cursorPos+1:]...)
	}
}

func (s *SearchState) MoveCursorLeft() {
	if s.cursorPos > 0 {
		s.cursorPos--
	}
}

func (s *SearchState) MoveCursorRight() {
	if s.cursorPos < len(s.query) {
		s.cursorPos++
	}
}

// MoveCursorStart moves cursor to start (Ctrl+A)
func (s *SearchState) MoveCursorStart() {
	s.cursorPos = 0
}

// MoveCursorEnd moves cursor to end (Ctrl+E)
func (s *SearchState) MoveCursorEnd() {
	s.cursorPos = len(s.query)
}

// DeleteToEnd deletes from cursor to end (Ctrl+K)
func (s *SearchState) DeleteToEnd() {
	s.query = s.query[:s.cursorPos]
}

// DeleteWord deletes the word before cursor (Ctrl+W)
func (s *SearchState) DeleteWord() {
	if s.cursorPos == 0 {
		return
	}

	start := s.cursorPos
	for start > 0 && s.query[start-1] == ' ' {
		start--
	}
	for start > 0 && s.query[start-1] != ' ' {
		start--
	}

	s.query = append(s.query[:start], s.query[s.cursorPos:]...)
	s.cursorPos = start
}

// MoveCursorWordForward moves cursor forward by one word (Alt+F)
func (s *SearchState) MoveCursorWordForward() {
	for s.cursorPos < len(s.query) && s.query[s.cursorPos] != ' ' {
		s.cursorPos++
	}
	for s.cursorPos < len(s.query) && s.query[s.cursorPos] == ' ' {
		s.cursorPos++
	}
}

// MoveCursorWordBackward moves cursor backward by one word (Alt+B)
func (s *SearchState) MoveCursorWordBackward() {
	for s.cursorPos > 0 && s.query[s.cursorPos-1] == ' ' {
		s.cursorPos--
	}
	for s.cursorPos > 0 && s.query[s.cursorPos-1] != ' ' {
		s.cursorPos--
	}
}

// DeleteWordForward deletes the word after cursor (Alt+D)
func (s *SearchState) DeleteWordForward() {
	end := s.cursorPos
	for end < len(s.query) && s.query[end] == ' ' {
		end++
	}
	for end < len(s.query) && s.query[end] != ' ' {
		end++
	}

	s.query = append(s.query[:s.cursorPos], s.query[end:]...)
}
