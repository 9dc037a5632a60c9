// Package detail renders one episode: its metadata, audio, cited sources
// and related episodes. It owns the open/close lifecycle of the player.
package detail

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/csams/nutshell/internal/listing"
	"github.com/csams/nutshell/internal/log"
	"github.com/csams/nutshell/internal/models"
	"github.com/csams/nutshell/internal/player"
	"github.com/csams/nutshell/internal/route"
	"github.com/csams/nutshell/internal/share"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

type State int

const (
	NoEpisode State = iota
	LoadingSources
	SourcesReady
	NoSources
)

func (s State) String() string {
	switch s {
	case NoEpisode:
		return "no-episode"
	case LoadingSources:
		return "loading-sources"
	case SourcesReady:
		return "sources-ready"
	case NoSources:
		return "no-sources"
	default:
		return "unknown"
	}
}

// ErrNotFound is returned when the store has no episodes to open.
var ErrNotFound = errors.New("episode not found")

// ErrStale is returned by LoadSources when another episode was opened
// while the sources were loading.
var ErrStale = errors.New("episode changed while loading sources")

// Store is what the renderer reads episodes from.
type Store interface {
	Show() models.Show
	Get(slug string) mo.Option[models.Episode]
	Episodes() []models.Episode
	SetSources(guid string, sources []models.Source) bool
}

// Loader fetches the sources of one episode.
type Loader interface {
	Load(ctx context.Context, show models.Show, ep models.Episode) ([]models.Source, error)
}

type Options struct {
	Store    Store
	Loader   Loader
	Player   *player.Player
	Location *route.Location
	// Origin is prefixed to page paths to build shareable URLs.
	Origin string
	// Related is the number of related episodes. Zero uses 3.
	Related int
}

// Renderer moves between NoEpisode, LoadingSources, SourcesReady and
// NoSources. Each Open starts a new generation; sources that arrive for an
// older generation are dropped.
type Renderer struct {
	store    Store
	loader   Loader
	player   *player.Player
	location *route.Location
	origin   string
	related  int

	generation atomic.Uint64

	mu      sync.Mutex
	state   State
	episode models.Episode
}

func NewRenderer(opts Options) *Renderer {
	related := opts.Related
	if related <= 0 {
		related = 3
	}

	location := opts.Location
	if location == nil {
		location = route.NewLocation(opts.Store.Show().BasePath())
	}

	return &Renderer{
		store:    opts.Store,
		loader:   opts.Loader,
		player:   opts.Player,
		location: location,
		origin:   opts.Origin,
		related:  related,
	}
}

// Location is the location the renderer keeps in step with the open
// episode.
func (r *Renderer) Location() *route.Location {
	return r.location
}

func (r *Renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Open selects the episode for slug, points the location at it and loads
// its audio into the player. Sources are left for LoadSources unless they
// were loaded before.
func (r *Renderer) Open(slug string) (EpisodeView, error) {
	found := r.store.Get(slug)
	if found.IsAbsent() {
		return EpisodeView{}, ErrNotFound
	}
	ep := found.MustGet()

	r.generation.Add(1)

	r.mu.Lock()
	r.episode = ep
	r.state = StateOf(ep)
	r.mu.Unlock()

	show := r.store.Show()
	r.location.Push(show.EpisodePath(ep.Slug))

	if r.player != nil {
		if ep.HasAudio() {
			err := r.player.Open(player.Track{
				GUID:  ep.GUID,
				Title: ep.Title,
				Date:  ep.FormattedDate,
				URL:   ep.AudioURL,
			})
			if err != nil {
				log.WithField("episode", ep.Slug).Warnf("detail: failed to start audio: %v", err)
			}
		} else if err := r.player.Close(); err != nil {
			log.Warnf("detail: failed to clear player: %v", err)
		}
	}

	return r.View(), nil
}

// LoadSources fetches the sources of the open episode and merges them into
// the store. Failures end in NoSources; only a superseded load reports an
// error.
func (r *Renderer) LoadSources(ctx context.Context) (EpisodeView, error) {
	gen := r.generation.Load()

	r.mu.Lock()
	if r.state != LoadingSources {
		r.mu.Unlock()
		return r.View(), nil
	}
	ep := r.episode
	r.mu.Unlock()

	var sources []models.Source
	var err error
	if r.loader == nil {
		err = ErrNoTimestamp
	} else {
		sources, err = r.loader.Load(ctx, r.store.Show(), ep)
	}

	if r.generation.Load() != gen {
		return EpisodeView{}, ErrStale
	}

	if err != nil {
		if !errors.Is(err, ErrNoTimestamp) {
			log.WithField("episode", ep.Slug).Warnf("detail: %v", err)
		}
		sources = []models.Source{}
	}
	if err == nil || errors.Is(err, ErrNoTimestamp) {
		r.store.SetSources(ep.GUID, sources)
	}

	r.mu.Lock()
	if r.generation.Load() != gen {
		r.mu.Unlock()
		return EpisodeView{}, ErrStale
	}
	r.episode.Sources = sources
	r.episode.SourcesLoaded = true
	if len(sources) > 0 {
		r.state = SourcesReady
	} else {
		r.state = NoSources
	}
	r.mu.Unlock()

	return r.View(), nil
}

// RenderEpisode opens slug and waits for its sources.
func (r *Renderer) RenderEpisode(ctx context.Context, slug string) (EpisodeView, error) {
	if _, err := r.Open(slug); err != nil {
		return EpisodeView{}, err
	}
	return r.LoadSources(ctx)
}

// Close deselects the episode, clears the player and moves the location
// back to the show page.
func (r *Renderer) Close() {
	r.generation.Add(1)

	r.mu.Lock()
	wasOpen := r.state != NoEpisode
	r.state = NoEpisode
	r.episode = models.Episode{}
	r.mu.Unlock()

	if r.player != nil {
		if err := r.player.Close(); err != nil {
			log.Warnf("detail: failed to clear player: %v", err)
		}
	}

	show := r.store.Show()
	if wasOpen {
		r.location.Push(show.BasePath())
	}
}

// View renders the current state.
func (r *Renderer) View() EpisodeView {
	r.mu.Lock()
	state := r.state
	ep := r.episode
	r.mu.Unlock()

	if state == NoEpisode {
		return EpisodeView{State: NoEpisode}
	}
	return NewEpisodeView(r.store.Show(), ep, state, ViewOptions{
		Episodes: r.store.Episodes(),
		Origin:   r.origin,
		Related:  r.related,
	})
}

// ViewOptions carries what a detail page needs beyond its own episode.
type ViewOptions struct {
	// Episodes is the show's list, for related episodes.
	Episodes []models.Episode
	Origin   string
	Related  int
}

// StateOf is the state an episode opens in.
func StateOf(ep models.Episode) State {
	switch {
	case !ep.SourcesLoaded:
		return LoadingSources
	case len(ep.Sources) > 0:
		return SourcesReady
	default:
		return NoSources
	}
}

// NewEpisodeView renders ep in state without touching any renderer.
func NewEpisodeView(show models.Show, ep models.Episode, state State, opts ViewOptions) EpisodeView {
	path := show.EpisodePath(ep.Slug)
	url := route.URL(opts.Origin, path)

	view := EpisodeView{
		State:         state,
		GUID:          ep.GUID,
		Slug:          ep.Slug,
		Title:         lo.CoalesceOrEmpty(ep.Title, models.UntitledEpisode),
		Date:          lo.CoalesceOrEmpty(ep.FormattedDate, models.DateNotAvailable),
		Duration:      ep.Duration,
		Description:   ep.Description,
		EpisodeNumber: ep.EpisodeNumber,
		SpotifyURL:    ep.SpotifyURL,
		Path:          path,
		URL:           url,
		Audio:         audioPanel(show, ep),
		Meta:          pageMeta(show, lo.CoalesceOrEmpty(ep.Title, models.UntitledEpisode), ep.Description),
		Related:       relatedTo(show, ep, opts.Episodes, opts.Related),
		Share:         share.Links(url, ep.Title),
	}

	if state == SourcesReady {
		view.Sources = lo.Map(ep.Sources, func(s models.Source, _ int) SourceView {
			return SourceView{Title: s.Title, URL: s.URL, Label: s.Label()}
		})
	}

	return view
}

func audioPanel(show models.Show, ep models.Episode) AudioPanel {
	if !ep.HasAudio() {
		return AudioPanel{
			Placeholder: PlaceholderText,
			Platforms:   show.Platforms,
		}
	}
	return AudioPanel{Available: true, URL: ep.AudioURL}
}

// relatedTo returns the first n other episodes in list order.
func relatedTo(show models.Show, ep models.Episode, episodes []models.Episode, n int) []RelatedView {
	if n <= 0 {
		n = 3
	}
	others := lo.Filter(episodes, func(other models.Episode, _ int) bool {
		return other.GUID != ep.GUID
	})
	if len(others) > n {
		others = others[:n]
	}

	return lo.Map(others, func(other models.Episode, _ int) RelatedView {
		return RelatedView{
			GUID:     other.GUID,
			Slug:     other.Slug,
			Title:    other.Title,
			Date:     other.FormattedDate,
			Excerpt:  other.Excerpt(listing.ExcerptLength),
			Duration: other.Duration,
			Href:     show.EpisodePath(other.Slug),
		}
	})
}
