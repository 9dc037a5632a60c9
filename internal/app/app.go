// Package app wires one show's pipeline: feed, store, listing, detail and
// the player. Everything a screen needs hangs off a Context.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/csams/nutshell/internal/detail"
	"github.com/csams/nutshell/internal/feed"
	"github.com/csams/nutshell/internal/key"
	"github.com/csams/nutshell/internal/listing"
	"github.com/csams/nutshell/internal/log"
	"github.com/csams/nutshell/internal/models"
	"github.com/csams/nutshell/internal/player"
	"github.com/csams/nutshell/internal/route"
	"github.com/csams/nutshell/internal/session"
	"github.com/csams/nutshell/internal/share"
	"github.com/csams/nutshell/internal/store"
	"github.com/csams/nutshell/internal/where"
	"github.com/spf13/viper"
)

// Options overrides the parts of a Context that are built from the
// configuration by default.
type Options struct {
	Fetcher     *feed.Fetcher
	Loader      detail.Loader
	Media       player.Media
	Copier      *share.Copier
	CachePath   string
	SessionPath string
	// Path is the initial location, the show page when empty.
	Path string
}

// Context owns the state of one show. Listing, Home and the Location are
// not safe for concurrent use and belong to the UI goroutine; Load and
// Refresh may run anywhere.
type Context struct {
	Show     models.Show
	Origin   string
	Store    *store.Store
	Fetcher  *feed.Fetcher
	Player   *player.Player
	Surface  *player.Surface
	Detail   *detail.Renderer
	Listing  *listing.Listing
	Home     *listing.Home
	Location *route.Location
	Session  *session.Store
	Copier   *share.Copier

	homeSize int
}

// New builds a Context for show, filling anything opts leaves unset from
// the configuration.
func New(show models.Show, opts Options) (*Context, error) {
	if show.Slug == "" {
		return nil, fmt.Errorf("show has no slug")
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = feed.NewFetcher(feed.Options{
			Timeout:   viper.GetDuration(key.FeedTimeout),
			UserAgent: viper.GetString(key.FeedUserAgent),
			Proxies:   feed.ProxiesByName(viper.GetStringSlice(key.FeedProxies)),
		})
	}

	loader := opts.Loader
	if loader == nil {
		loader = detail.NewSourceLoader(detail.LoaderOptions{
			Timeout:   viper.GetDuration(key.FeedTimeout),
			UserAgent: viper.GetString(key.FeedUserAgent),
		})
	}

	media := opts.Media
	if media == nil {
		media = player.NewMPV(viper.GetString(key.PlayerBinary), where.Socket(os.Getpid()))
	}

	copier := opts.Copier
	if copier == nil {
		copier = share.NewCopier(os.Stdout)
	}

	path := opts.Path
	if path == "" {
		path = show.BasePath()
	}

	st := store.New(show, fetcher, store.Options{
		Path:   opts.CachePath,
		MaxAge: viper.GetDuration(key.CacheMaxAge),
	})
	location := route.NewLocation(path)
	p := player.New(media)
	origin := viper.GetString(key.SiteOrigin)

	c := &Context{
		Show:     show,
		Origin:   origin,
		Store:    st,
		Fetcher:  fetcher,
		Player:   p,
		Surface:  player.NewSurface(p.Seek),
		Location: location,
		Session:  session.New(opts.SessionPath),
		Copier:   copier,
		Listing:  listing.New(show, nil, viper.GetInt(key.ListingPageSize)),
		homeSize: viper.GetInt(key.ListingHomeSize),
	}
	c.Home = listing.NewHome(show, nil, c.homeSize)
	c.Detail = detail.NewRenderer(detail.Options{
		Store:    st,
		Loader:   loader,
		Player:   p,
		Location: location,
		Origin:   origin,
		Related:  viper.GetInt(key.DetailRelatedCount),
	})

	return c, nil
}

// Load fills the store from cache or feed. It does not touch the views;
// pass the result to Apply on the UI goroutine.
func (c *Context) Load(ctx context.Context) ([]models.Episode, error) {
	episodes, err := c.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", c.Show.Name, err)
	}
	log.WithField("show", c.Show.Slug).Infof("app: %d episodes loaded", len(episodes))
	return episodes, nil
}

// Refresh refetches the feed, ignoring the cache.
func (c *Context) Refresh(ctx context.Context) ([]models.Episode, error) {
	episodes, err := c.Store.Refresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh %s: %w", c.Show.Name, err)
	}
	return episodes, nil
}

// Apply resets the listing and home views to episodes.
func (c *Context) Apply(episodes []models.Episode) {
	c.Listing.SetEpisodes(episodes)
	c.Home = listing.NewHome(c.Show, episodes, c.homeSize)
}

// DeepLinker opens the episode requested by the initial location or the
// session stash through open.
func (c *Context) DeepLinker(open func(slug string)) *detail.DeepLinker {
	return detail.NewDeepLinker(detail.DeepLinkOptions{
		Show:     c.Show.Slug,
		Episodes: c.Store,
		Session:  c.Session,
		Location: c.Location,
		Interval: viper.GetDuration(key.DetailDeepLinkInterval),
		Open:     open,
	})
}

// Debouncer returns a search debouncer using the configured delay.
func (c *Context) Debouncer() *listing.Debouncer {
	return listing.NewDebouncer(viper.GetDuration(key.ListingSearchDelay))
}

// ShowList is the show page list with the playing episode marked.
func (c *Context) ShowList() []listing.Row {
	var playing string
	if t, ok := c.Player.Track(); ok {
		playing = t.GUID
	}
	return listing.ShowList(c.Store.Episodes(), playing)
}

// Share copies the open episode's link. It returns the link and how it was
// delivered; an empty link means no episode is open.
func (c *Context) Share() (string, share.Method) {
	view := c.Detail.View()
	if view.Empty() {
		return "", share.Prompt
	}
	return view.URL, c.Copier.Copy(view.URL)
}

// Close stops the player backend.
func (c *Context) Close() error {
	return c.Player.Shutdown()
}
