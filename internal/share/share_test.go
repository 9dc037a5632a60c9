package share

import (
	"bytes"
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
	"testing"
)

func TestLinks(t *testing.T) {
	links := Links("https://example.com/show/big-week", "Big Week & More")

	if len(links) != 3 {
		t.Fatalf("got %d links, want 3", len(links))
	}

	tests := []struct {
		name   string
		prefix string
		want   map[string]string
	}{
		{
			name:   "Twitter",
			prefix: "https://twitter.com/intent/tweet?",
			want:   map[string]string{"text": "Big Week & More", "url": "https://example.com/show/big-week"},
		},
		{
			name:   "Facebook",
			prefix: "https://www.facebook.com/sharer/sharer.php?",
			want:   map[string]string{"u": "https://example.com/show/big-week"},
		},
		{
			name:   "Email",
			prefix: "mailto:?",
			want:   map[string]string{"subject": "Big Week & More", "body": "Check out this episode: https://example.com/show/big-week"},
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := links[i]
			if link.Name != tt.name {
				t.Fatalf("Name = %q, want %q", link.Name, tt.name)
			}
			if !strings.HasPrefix(link.URL, tt.prefix) {
				t.Fatalf("URL = %q, want prefix %q", link.URL, tt.prefix)
			}
			if strings.Contains(link.URL, " ") || strings.Contains(link.URL, "+") {
				t.Errorf("URL %q is not fully encoded", link.URL)
			}
			query, err := url.ParseQuery(strings.TrimPrefix(link.URL, tt.prefix))
			if err != nil {
				t.Fatal(err)
			}
			for k, v := range tt.want {
				if query.Get(k) != v {
					t.Errorf("%s = %q, want %q", k, query.Get(k), v)
				}
			}
		})
	}
}

func TestCopy_ClipboardFirst(t *testing.T) {
	var got string
	var term bytes.Buffer
	c := &Copier{
		WriteClipboard: func(s string) error { got = s; return nil },
		Terminal:       &term,
	}

	if m := c.Copy("https://example.com/a"); m != Clipboard {
		t.Fatalf("Copy() = %v, want clipboard", m)
	}
	if got != "https://example.com/a" {
		t.Errorf("clipboard = %q", got)
	}
	if term.Len() != 0 {
		t.Error("terminal written although clipboard worked")
	}
}

func TestCopy_FallsBackToTerminal(t *testing.T) {
	var term bytes.Buffer
	c := &Copier{
		WriteClipboard: func(string) error { return errors.New("no display") },
		Terminal:       &term,
		Getenv:         func(string) string { return "" },
	}

	if m := c.Copy("https://example.com/a"); m != Terminal {
		t.Fatalf("Copy() = %v, want terminal", m)
	}

	encoded := base64.StdEncoding.EncodeToString([]byte("https://example.com/a"))
	if !strings.Contains(term.String(), encoded) {
		t.Errorf("terminal output %q lacks payload", term.String())
	}
	if !strings.HasPrefix(term.String(), "\x1b]52;") {
		t.Errorf("terminal output %q is not an OSC 52 sequence", term.String())
	}
}

func TestCopy_Prompt(t *testing.T) {
	c := &Copier{
		WriteClipboard: func(string) error { return errors.New("no display") },
	}
	if m := c.Copy("https://example.com/a"); m != Prompt {
		t.Fatalf("Copy() = %v, want prompt", m)
	}
	if Prompt.String() != "prompt" {
		t.Errorf("String() = %q", Prompt.String())
	}
}
