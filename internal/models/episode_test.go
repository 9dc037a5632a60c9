package models

import (
	"strings"
	"testing"
	"time"
)

func TestExtractSourceTimestamp(t *testing.T) {
	url := "https://op3.dev/e/f003.backblazeb2.com/file/bojack-sanchez-podcasts/news-in-a-nutshell/2025-06-08T01-25-50/podcast.mp3"
	if got := ExtractSourceTimestamp(url); got != "2025-06-08T01-25-50" {
		t.Errorf("Expected '2025-06-08T01-25-50', got '%s'", got)
	}

	if got := ExtractSourceTimestamp("https://example.com/episode.mp3"); got != "" {
		t.Errorf("Expected empty timestamp, got '%s'", got)
	}

	if got := ExtractSourceTimestamp(""); got != "" {
		t.Errorf("Expected empty timestamp for empty URL, got '%s'", got)
	}
}

func TestExtractEpisodeNumber(t *testing.T) {
	testCases := []struct {
		title    string
		guid     string
		expected int
	}{
		{"Big News (Episode 12)", "", 12},
		{"Show #7: Things", "", 7},
		{"Ep. 3 - the third", "", 3},
		{"No number here", "podcast-episode_44", 44},
		{"No number here", "ep-9", 9},
		{"No number here", "8c1f2d", 0},
	}

	for _, tc := range testCases {
		if got := ExtractEpisodeNumber(tc.title, tc.guid); got != tc.expected {
			t.Errorf("ExtractEpisodeNumber(%q, %q) = %d, expected %d", tc.title, tc.guid, got, tc.expected)
		}
	}
}

func TestExtractSpotifyURL(t *testing.T) {
	desc := `Listen at <a href="https://open.spotify.com/episode/4rOoJ6Egrf8K2IrywzwOMk">Spotify</a>`
	if got := ExtractSpotifyURL(desc, ""); got != "https://open.spotify.com/episode/4rOoJ6Egrf8K2IrywzwOMk" {
		t.Errorf("Unexpected Spotify URL from description: %s", got)
	}

	if got := ExtractSpotifyURL("", "spotify.com/embed/episode/abc123"); got != "https://open.spotify.com/episode/abc123" {
		t.Errorf("Unexpected Spotify URL from link: %s", got)
	}

	if got := ExtractSpotifyURL("nothing", "https://example.com"); got != "" {
		t.Errorf("Expected no Spotify URL, got %s", got)
	}
}

func TestParsePubDate(t *testing.T) {
	valid := []string{
		"Sun, 08 Jun 2025 01:27:13 GMT",
		"Sun, 08 Jun 2025 01:27:13 +0000",
		"Sun, 8 Jun 2025 01:27:13 +0000",
		"2025-06-08T01:27:13Z",
	}
	for _, raw := range valid {
		got, err := ParsePubDate(raw)
		if err != nil {
			t.Errorf("Failed to parse %q: %v", raw, err)
			continue
		}
		if got.UTC().Day() != 8 || got.UTC().Month() != time.June || got.UTC().Year() != 2025 {
			t.Errorf("Parsed %q to unexpected time %v", raw, got)
		}
	}

	if _, err := ParsePubDate("yesterday-ish"); err == nil {
		t.Error("Expected error for unparseable date")
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(time.Date(2025, 6, 8, 1, 27, 13, 0, time.UTC)); got != "June 8, 2025" {
		t.Errorf("Expected 'June 8, 2025', got '%s'", got)
	}
	if got := FormatDate(time.Time{}); got != DateNotAvailable {
		t.Errorf("Expected '%s' for zero time, got '%s'", DateNotAvailable, got)
	}
}

func TestEpisode_HasAudio(t *testing.T) {
	ep := &Episode{MediaURL: "https://example.com/media.mp3"}
	if ep.HasAudio() {
		t.Error("Expected media URL alone not to count as audio")
	}

	ep.AudioURL = "https://example.com/enclosure.mp3"
	if !ep.HasAudio() {
		t.Error("Expected enclosure to count as audio")
	}

	empty := &Episode{}
	if empty.HasAudio() {
		t.Error("Expected episode without URLs to have no audio")
	}
}

func TestEpisode_Excerpt(t *testing.T) {
	ep := &Episode{Description: strings.Repeat("é", 130)}
	got := ep.Excerpt(120)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected ellipsis suffix, got %q", got)
	}
	if n := len([]rune(got)); n != 123 {
		t.Errorf("Expected 123 runes, got %d", n)
	}

	short := &Episode{Description: "short"}
	if got := short.Excerpt(120); got != "short..." {
		t.Errorf("Expected 'short...', got %q", got)
	}
}

func TestSource_Label(t *testing.T) {
	if got := (Source{Domain: "bbc.co.uk", Country: "UK"}).Label(); got != "bbc.co.uk · UK" {
		t.Errorf("Unexpected label %q", got)
	}
	if got := (Source{Category: "World"}).Label(); got != "World" {
		t.Errorf("Unexpected label %q", got)
	}
	if got := (Source{}).Label(); got != "" {
		t.Errorf("Expected empty label, got %q", got)
	}
}

func TestShow_Paths(t *testing.T) {
	show := Show{
		Slug:       "news-in-a-nutshell",
		SourcesURL: "https://cdn.example.com/{show}/{timestamp}/sources.json",
	}

	if got := show.BasePath(); got != "/news-in-a-nutshell" {
		t.Errorf("Unexpected base path %s", got)
	}
	if got := show.EpisodePath("some-slug"); got != "/news-in-a-nutshell/some-slug" {
		t.Errorf("Unexpected episode path %s", got)
	}
	if got := show.SourcesLocation("2025-06-08T01-25-50"); got != "https://cdn.example.com/news-in-a-nutshell/2025-06-08T01-25-50/sources.json" {
		t.Errorf("Unexpected sources location %s", got)
	}
	if got := show.SourcesLocation(""); got != "" {
		t.Errorf("Expected no sources location without timestamp, got %s", got)
	}

	shows := Shows{show, {Slug: "kurz-und-klar"}}
	if _, ok := shows.Find("kurz-und-klar"); !ok {
		t.Error("Expected to find kurz-und-klar")
	}
	if _, ok := shows.Find("missing"); ok {
		t.Error("Did not expect to find missing show")
	}
}
