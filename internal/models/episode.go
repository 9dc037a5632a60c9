package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	UntitledEpisode  = "Untitled Episode"
	DateNotAvailable = "Date not available"
)

// Episode is a normalized feed item. Everything except Sources is fixed once
// the store has loaded; Sources is filled in lazily for the open episode.
type Episode struct {
	GUID            string    `json:"guid"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Link            string    `json:"link,omitempty"`
	PubDate         string    `json:"pubDate"`
	PublishedAt     time.Time `json:"publishedAt"`
	FormattedDate   string    `json:"formattedDate"`
	Duration        string    `json:"duration"`
	AudioURL        string    `json:"audioUrl,omitempty"`
	MediaURL        string    `json:"mediaUrl,omitempty"`
	SourceTimestamp string    `json:"episodeTimestamp,omitempty"`
	Slug            string    `json:"slug"`
	EpisodeNumber   int       `json:"episodeNumber,omitempty"`
	SpotifyURL      string    `json:"spotifyUrl,omitempty"`

	// Sources are never written to the episode cache.
	Sources       []Source `json:"-"`
	SourcesLoaded bool     `json:"-"`
}

// Source is a cited reference attached to one episode.
type Source struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Domain   string `json:"domain,omitempty"`
	Category string `json:"category,omitempty"`
	Country  string `json:"country,omitempty"`
}

// Label returns the secondary text shown under a source title.
func (s Source) Label() string {
	parts := make([]string, 0, 2)
	switch {
	case s.Domain != "":
		parts = append(parts, s.Domain)
	case s.Category != "":
		parts = append(parts, s.Category)
	}
	if s.Country != "" {
		parts = append(parts, s.Country)
	}
	return strings.Join(parts, " · ")
}

// HasAudio reports whether the feed gave an enclosure to play. MediaURL
// only identifies the episode assets and is never played.
func (e *Episode) HasAudio() bool {
	return e.AudioURL != ""
}

// Excerpt returns the first n runes of the description followed by "...".
func (e *Episode) Excerpt(n int) string {
	desc := strings.TrimSpace(e.Description)
	if utf8.RuneCountInString(desc) <= n {
		return desc + "..."
	}
	runes := []rune(desc)
	return string(runes[:n]) + "..."
}

var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 02 Jan 2006 15:04 -0700",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParsePubDate parses the date formats seen in podcast feeds.
func ParsePubDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %q", raw)
}

// FormatDate renders a publish time like "June 8, 2025".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return DateNotAvailable
	}
	return t.UTC().Format("January 2, 2006")
}

var timestampPattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}`)

// ExtractSourceTimestamp pulls the "2025-06-08T12-32-27" token out of an
// audio URL. The token names the episode's sibling metadata resource.
func ExtractSourceTimestamp(audioURL string) string {
	return timestampPattern.FindString(audioURL)
}

var (
	titleNumberPattern = regexp.MustCompile(`(?i)episode\s*(\d+)|#(\d+)|ep\.?\s*(\d+)`)
	guidNumberPattern  = regexp.MustCompile(`(?i)episode[-_]?(\d+)|ep[-_]?(\d+)`)
	spotifyPattern     = regexp.MustCompile(`(?:https?://)?(?:open\.)?spotify\.com/(?:embed/)?episode/([a-zA-Z0-9]+)`)
)

// ExtractEpisodeNumber looks for "Episode 12", "#12" or "ep 12" in the title,
// then in the guid. Zero means no number was found.
func ExtractEpisodeNumber(title, guid string) int {
	for _, match := range [][]string{
		titleNumberPattern.FindStringSubmatch(title),
		guidNumberPattern.FindStringSubmatch(guid),
	} {
		for _, group := range match[min(1, len(match)):] {
			if group == "" {
				continue
			}
			if n, err := strconv.Atoi(group); err == nil {
				return n
			}
		}
	}
	return 0
}

// ExtractSpotifyURL returns a canonical Spotify episode URL found in the
// description or the item link.
func ExtractSpotifyURL(description, link string) string {
	for _, text := range []string{description, link} {
		if m := spotifyPattern.FindStringSubmatch(text); m != nil {
			return "https://open.spotify.com/episode/" + m[1]
		}
	}
	return ""
}
