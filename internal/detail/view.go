package detail

import (
	"strings"

	"github.com/csams/nutshell/internal/models"
	"github.com/csams/nutshell/internal/share"
	"github.com/csams/nutshell/internal/text"
)

// PlaceholderText is shown instead of audio controls when an episode has
// no enclosure.
const PlaceholderText = "Audio streaming will be available once the direct audio URL is provided in the RSS feed."

// AudioPanel is the audio section of a detail page. Without audio it
// carries the placeholder and the show's platform links instead.
type AudioPanel struct {
	Available   bool
	URL         string
	Placeholder string
	Platforms   []models.PlatformLink
}

type SourceView struct {
	Title string
	URL   string
	Label string
}

type RelatedView struct {
	GUID     string
	Slug     string
	Title    string
	Date     string
	Excerpt  string
	Duration string
	Href     string
}

// EpisodeView is everything a detail page shows.
type EpisodeView struct {
	State State

	GUID          string
	Slug          string
	Title         string
	Date          string
	Duration      string
	Description   string
	EpisodeNumber int
	SpotifyURL    string

	// Path is the location of the page, URL its shareable address.
	Path string
	URL  string

	Meta    PageMeta
	Audio   AudioPanel
	Sources []SourceView
	Related []RelatedView
	Share   []share.Link
}

const (
	metaDescriptionLen   = 160
	socialDescriptionLen = 200
)

// PageMeta is the document metadata of an episode page: its title and the
// descriptions offered to search engines and link previews.
type PageMeta struct {
	Title       string
	Description string
	Social      string
}

func pageMeta(show models.Show, title, description string) PageMeta {
	plain := strings.Join(strings.Fields(text.Plain(description)), " ")
	return PageMeta{
		Title:       title + " | " + show.Name,
		Description: cut(plain, metaDescriptionLen),
		Social:      cut(plain, socialDescriptionLen),
	}
}

// cut shortens s to n runes, marking the cut with an ellipsis.
func cut(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n])) + "..."
}

// Empty reports whether no episode is selected.
func (v EpisodeView) Empty() bool {
	return v.State == NoEpisode
}

// ShowSources reports whether the sources section is visible. It stays
// hidden while loading and when there are none.
func (v EpisodeView) ShowSources() bool {
	return v.State == SourcesReady && len(v.Sources) > 0
}
