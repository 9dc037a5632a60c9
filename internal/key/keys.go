// Package key names every configuration setting.
package key

// Site and shows.
const (
	SiteOrigin  = "site.origin"
	ShowDefault = "show.default"
	Shows       = "shows"
)

// Feed fetching.
const (
	FeedProxies   = "feed.proxies"
	FeedTimeout   = "feed.timeout"
	FeedUserAgent = "feed.user_agent"
)

// Episode cache.
const (
	CacheMaxAge = "cache.max_age"
)

// Listing pages.
const (
	ListingPageSize    = "listing.page_size"
	ListingHomeSize    = "listing.home_size"
	ListingSearchDelay = "listing.search_delay"
)

// Detail pages.
const (
	DetailRelatedCount     = "detail.related_count"
	DetailDeepLinkInterval = "detail.deep_link_interval"
)

// Player.
const (
	PlayerBinary = "player.binary"
)

// External links.
const (
	OpenWith = "open.with"
)

// Logs.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)
