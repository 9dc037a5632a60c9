package models

import (
	"net/url"
	"strings"
)

// PlatformLink points at the show on an external listening platform.
type PlatformLink struct {
	Name string `json:"name" mapstructure:"name"`
	URL  string `json:"url" mapstructure:"url"`
}

// Show describes one podcast hosted by the site.
type Show struct {
	Name   string `json:"name" mapstructure:"name"`
	Slug   string `json:"slug" mapstructure:"slug"`
	RSSURL string `json:"rssUrl" mapstructure:"rss_url"`

	// SourcesURL is a template for the per-episode sources document.
	// {show} and {timestamp} are substituted.
	SourcesURL string         `json:"sourcesUrl" mapstructure:"sources_url"`
	Platforms  []PlatformLink `json:"platforms" mapstructure:"platforms"`
}

// BasePath is the show page path, "/news-in-a-nutshell".
func (s Show) BasePath() string {
	return "/" + s.Slug
}

// EpisodePath is the detail path for one episode slug.
func (s Show) EpisodePath(slug string) string {
	return s.BasePath() + "/" + slug
}

// SourcesLocation expands SourcesURL for an episode timestamp. It returns ""
// when the show has no sources template or the timestamp is empty.
func (s Show) SourcesLocation(timestamp string) string {
	if s.SourcesURL == "" || timestamp == "" {
		return ""
	}
	r := strings.NewReplacer(
		"{show}", url.PathEscape(s.Slug),
		"{timestamp}", url.PathEscape(timestamp),
	)
	return r.Replace(s.SourcesURL)
}

// Shows is the set of shows the site knows about, in display order.
type Shows []Show

// Find returns the show with the given slug.
func (s Shows) Find(slug string) (Show, bool) {
	for _, show := range s {
		if show.Slug == slug {
			return show, true
		}
	}
	return Show{}, false
}
