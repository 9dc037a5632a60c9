package route

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		path        string
		wantShow    string
		wantEpisode string
	}{
		{"", "", ""},
		{"/", "", ""},
		{"/news-in-a-nutshell", "news-in-a-nutshell", ""},
		{"/news-in-a-nutshell/", "news-in-a-nutshell", ""},
		{"/news-in-a-nutshell/big-week", "news-in-a-nutshell", "big-week"},
		{"news-in-a-nutshell/big-week/extra", "news-in-a-nutshell", "big-week"},
		{"//news-in-a-nutshell//big-week", "news-in-a-nutshell", "big-week"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			show, episode := Parse(tt.path)
			if show != tt.wantShow || episode != tt.wantEpisode {
				t.Errorf("Parse(%q) = (%q, %q), want (%q, %q)", tt.path, show, episode, tt.wantShow, tt.wantEpisode)
			}
		})
	}
}

func TestJoinAndURL(t *testing.T) {
	if got := Join("show", ""); got != "/show" {
		t.Errorf("Join(show, \"\") = %q", got)
	}
	if got := Join("show", "ep"); got != "/show/ep" {
		t.Errorf("Join(show, ep) = %q", got)
	}
	if got := URL("https://example.com/", "/show/ep"); got != "https://example.com/show/ep" {
		t.Errorf("URL() = %q", got)
	}
}

func TestLocation(t *testing.T) {
	l := NewLocation("")
	if l.Path() != "/" {
		t.Fatalf("Path() = %q, want /", l.Path())
	}

	l.Push("/show")
	l.Push("/show/ep")
	l.Push("/show/ep")

	if l.Path() != "/show/ep" {
		t.Errorf("Path() = %q", l.Path())
	}

	if path, ok := l.Back(); !ok || path != "/show" {
		t.Errorf("Back() = (%q, %v), want (/show, true)", path, ok)
	}
	if path, ok := l.Back(); !ok || path != "/" {
		t.Errorf("Back() = (%q, %v), want (/, true)", path, ok)
	}
	if _, ok := l.Back(); ok {
		t.Error("Back() on empty history should report false")
	}
}
