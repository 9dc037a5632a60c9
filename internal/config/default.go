package config

import (
	"time"

	"github.com/csams/nutshell/internal/key"
)

// Field is one registered setting and its factory default.
type Field struct {
	Key         string
	Value       any
	Description string
	// Env marks fields that may be overridden from NUTSHELL_* variables.
	Env bool
}

// Default holds every registered setting.
var Default = make(map[string]Field)

// EnvExposed lists the keys bound to environment variables.
var EnvExposed []string

const sourcesTemplate = "https://f003.backblazeb2.com/file/bojack-sanchez-podcasts/{show}/{timestamp}/assets/polished_script.json"

var defaultShows = []map[string]any{
	{
		"name":        "News in a Nutshell",
		"slug":        "news-in-a-nutshell",
		"rss_url":     "https://f003.backblazeb2.com/file/bojack-sanchez-podcasts/news-in-a-nutshell.rss",
		"sources_url": sourcesTemplate,
		"platforms": []map[string]any{
			{"name": "Spotify", "url": "https://open.spotify.com/show/56qcPE9A13bq7wrEberN23"},
			{"name": "Apple", "url": "https://podcasts.apple.com/us/podcast/news-in-a-nutshell/id1805652294"},
			{"name": "Amazon", "url": "https://music.amazon.com/podcasts/7fdb3b7b-808c-4cbb-a9e0-8e10ea93e7f8/news-in-a-nutshell"},
		},
	},
	{
		"name":        "Kurz und Klar",
		"slug":        "kurz-und-klar",
		"rss_url":     "https://f003.backblazeb2.com/file/bojack-sanchez-podcasts/kurz-und-klar.rss",
		"sources_url": sourcesTemplate,
	},
}

func init() {
	register := func(k string, v any, env bool, desc string) {
		if _, exists := Default[k]; exists {
			panic("duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc, Env: env}
		if env {
			EnvExposed = append(EnvExposed, k)
		}
	}

	register(key.SiteOrigin, "https://bojacksanchez.com", true, "Origin used to build shareable episode links")
	register(key.ShowDefault, "news-in-a-nutshell", true, "Slug of the show opened when none is given")
	register(key.Shows, defaultShows, false, "Shows known to the site")
	register(key.FeedProxies, []string{"allorigins", "corsproxy", "codetabs", "rss2json"}, true, "Relays tried in order when the direct feed request fails")
	register(key.FeedTimeout, 30*time.Second, true, "Timeout for a single feed or sources request")
	register(key.FeedUserAgent, "nutshell", true, "User-Agent sent with every request")
	register(key.CacheMaxAge, time.Duration(0), true, "Age after which the cached episode list is refetched. 0 keeps it forever")
	register(key.ListingPageSize, 9, true, "Episodes per archive page")
	register(key.ListingHomeSize, 6, true, "Episodes on the home page and per \"load more\"")
	register(key.ListingSearchDelay, 300*time.Millisecond, true, "Quiet period after the last keystroke before searching")
	register(key.DetailRelatedCount, 3, true, "Related episodes shown under a detail page")
	register(key.DetailDeepLinkInterval, 100*time.Millisecond, true, "Poll interval while a deep link waits for episodes")
	register(key.PlayerBinary, "mpv", true, "Audio backend binary")
	register(key.OpenWith, "", true, "Application used to open platform and share links. Empty uses the system default")
	register(key.LogsWrite, false, true, "Write logs")
	register(key.LogsLevel, "info", true, "panic, fatal, error, warn, info, debug or trace")
	register(key.LogsJson, false, true, "Use json format for logs")
}
