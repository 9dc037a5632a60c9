package export

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/csams/nutshell/internal/detail"
	"github.com/csams/nutshell/internal/filesystem"
	"github.com/csams/nutshell/internal/models"
)

func init() {
	filesystem.SetMemMapFs()
}

var testShow = models.Show{
	Name: "News in a Nutshell",
	Slug: "news-in-a-nutshell",
	Platforms: []models.PlatformLink{
		{Name: "Spotify", URL: "https://open.spotify.com/show/x"},
	},
}

func makeEpisodes(n int) []models.Episode {
	episodes := make([]models.Episode, n)
	for i := range episodes {
		title := fmt.Sprintf("Episode %d", i+1)
		episodes[i] = models.Episode{
			GUID:          fmt.Sprint(i + 1),
			Title:         title,
			Description:   fmt.Sprintf("<p>First part of %d.</p><p>Second part.</p>", i+1),
			Slug:          models.Slugify(title),
			FormattedDate: "June 8, 2025",
		}
	}
	episodes[0].AudioURL = "https://example.com/2025-06-08T01-25-50/audio.mp3"
	return episodes
}

type fakeLoader struct{}

func (fakeLoader) Load(_ context.Context, _ models.Show, ep models.Episode) ([]models.Source, error) {
	if ep.GUID != "1" {
		return nil, detail.ErrNoTimestamp
	}
	return []models.Source{{URL: "https://reuters.com/a", Title: "Reuters <report>", Domain: "reuters.com"}}, nil
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	e := New(Options{Dir: dir, Origin: "https://bojacksanchez.com", PageSize: 2, Loader: fakeLoader{}})

	summary, err := e.Export(context.Background(), testShow, makeEpisodes(3))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if summary.Pages != 2 || summary.Episodes != 3 {
		t.Errorf("Expected 2 pages and 3 episodes, got %+v", summary)
	}

	showDir := filepath.Join(dir, testShow.Slug)

	t.Run("listing pages", func(t *testing.T) {
		first := read(t, filepath.Join(showDir, PagePath(1)))
		if !strings.Contains(first, `href="episode-1/"`) {
			t.Error("Expected a card linking to episode-1")
		}
		if !strings.Contains(first, `href="page-2.html"`) {
			t.Error("Expected a Next link to page 2")
		}
		if strings.Contains(first, `class="prev"`) {
			t.Error("Expected no Prev link on page 1")
		}

		second := read(t, filepath.Join(showDir, PagePath(2)))
		if !strings.Contains(second, `href="index.html"`) {
			t.Error("Expected a Prev link back to the first page")
		}
	})

	t.Run("episode with audio and sources", func(t *testing.T) {
		page := read(t, filepath.Join(showDir, EpisodePath("episode-1")))
		if !strings.Contains(page, `<audio controls preload="metadata" src="https://example.com/2025-06-08T01-25-50/audio.mp3">`) {
			t.Error("Expected an audio element")
		}
		if !strings.Contains(page, "Reuters &lt;report&gt;") {
			t.Error("Expected the escaped source title")
		}
		if !strings.Contains(page, "<p>First part of 1.</p>") || !strings.Contains(page, "<p>Second part.</p>") {
			t.Errorf("Expected description paragraphs, got:\n%s", page)
		}
		if !strings.Contains(page, `value="https://bojacksanchez.com/news-in-a-nutshell/episode-1"`) {
			t.Error("Expected the shareable URL")
		}
	})

	t.Run("episode page metadata", func(t *testing.T) {
		page := read(t, filepath.Join(showDir, EpisodePath("episode-1")))
		for _, want := range []string{
			`<title>Episode 1 | News in a Nutshell</title>`,
			`<meta name="description" content="First part of 1. Second part.">`,
			`<meta property="og:title" content="Episode 1">`,
			`<meta property="og:type" content="article">`,
			`<meta property="og:url" content="https://bojacksanchez.com/news-in-a-nutshell/episode-1">`,
			`<meta name="twitter:card" content="summary">`,
			`<meta name="twitter:description" content="First part of 1. Second part.">`,
		} {
			if !strings.Contains(page, want) {
				t.Errorf("Expected %s in:\n%s", want, page)
			}
		}
	})

	t.Run("episode without audio", func(t *testing.T) {
		page := read(t, filepath.Join(showDir, EpisodePath("episode-2")))
		if !strings.Contains(page, detail.PlaceholderText) {
			t.Error("Expected the audio placeholder")
		}
		if strings.Contains(page, `class="sources"`) {
			t.Error("Expected no sources section")
		}
		if !strings.Contains(page, `href="../episode-1/"`) {
			t.Error("Expected related episodes")
		}
	})
}

type failingLoader struct{}

func (failingLoader) Load(context.Context, models.Show, models.Episode) ([]models.Source, error) {
	return nil, errors.New("unreachable")
}

func TestExport_SourcesFailure(t *testing.T) {
	dir := t.TempDir()
	e := New(Options{Dir: dir, Loader: failingLoader{}, Workers: 1})

	summary, err := e.Export(context.Background(), testShow, makeEpisodes(2))
	if err != nil {
		t.Fatalf("Expected pages despite failing sources, got %v", err)
	}
	if summary.Episodes != 2 {
		t.Errorf("Expected 2 episode pages, got %d", summary.Episodes)
	}
}

func TestExport_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{Dir: t.TempDir()}).Export(ctx, testShow, makeEpisodes(2))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestExport_SharedSlug(t *testing.T) {
	dir := t.TempDir()
	episodes := makeEpisodes(3)
	episodes[2].Slug = episodes[0].Slug
	episodes[2].Title = "Episode 1 again"

	summary, err := New(Options{Dir: dir, Workers: 3}).Export(context.Background(), testShow, episodes)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if summary.Episodes != 2 {
		t.Errorf("Expected 2 episode pages, got %d", summary.Episodes)
	}

	page := read(t, filepath.Join(dir, testShow.Slug, EpisodePath("episode-1")))
	if !strings.Contains(page, `data-guid="1"`) || strings.Contains(page, "<h1>Episode 1 again</h1>") {
		t.Errorf("Expected the first episode with the slug to own the page, got:\n%s", page)
	}
}

func TestPagePath(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "index.html"},
		{1, "index.html"},
		{2, "page-2.html"},
		{12, "page-12.html"},
	}
	for _, tt := range tests {
		if got := PagePath(tt.n); got != tt.want {
			t.Errorf("PagePath(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
