// Package store owns the episode list of one show. The list is read from
// the on-disk cache when present and fetched from the feed otherwise.
package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/csams/nutshell/internal/feed"
	"github.com/csams/nutshell/internal/filesystem"
	"github.com/csams/nutshell/internal/log"
	"github.com/csams/nutshell/internal/models"
	"github.com/csams/nutshell/internal/where"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// CacheFile is the name of the episode cache inside a show's cache dir.
const CacheFile = "podcast_episodes.json"

// ErrEmpty is returned when neither the cache nor the feed produced episodes.
var ErrEmpty = errors.New("no episodes available")

// Fetcher is the part of feed.Fetcher the store depends on.
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) (*feed.Result, error)
}

type cacheData struct {
	FeedURL  string           `json:"feedUrl"`
	Mock     bool             `json:"mock"`
	Episodes []models.Episode `json:"episodes"`
}

// Options configures a Store. An empty Path puts the cache under the
// user cache dir. MaxAge zero means the cache never expires.
type Options struct {
	Path   string
	MaxAge time.Duration
}

type Store struct {
	show    models.Show
	fetcher Fetcher
	cache   *gache.Cache[*cacheData]

	mu       sync.RWMutex
	episodes []models.Episode
	mock     bool
	loaded   bool
}

func New(show models.Show, fetcher Fetcher, opts Options) *Store {
	path := opts.Path
	if path == "" {
		path = filepath.Join(where.Cache(), show.Slug, CacheFile)
	}

	return &Store{
		show:    show,
		fetcher: fetcher,
		cache: gache.New[*cacheData](&gache.Options{
			Path:       path,
			Lifetime:   opts.MaxAge,
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

// Show returns the show this store serves.
func (s *Store) Show() models.Show {
	return s.show
}

// Load fills the store from the cache, fetching only when the cache is
// missing, unreadable, expired or empty.
func (s *Store) Load(ctx context.Context) ([]models.Episode, error) {
	cached, expired, err := s.cache.Get()
	if err != nil {
		log.Warnf("store: ignoring unreadable cache: %v", err)
	}

	if err == nil && !expired && cached != nil && len(cached.Episodes) > 0 {
		log.Debugf("store: %d episodes from cache", len(cached.Episodes))
		s.replace(cached.Episodes, cached.Mock)
		return s.Episodes(), nil
	}

	return s.Refresh(ctx)
}

// Refresh fetches the feed and overwrites the cache.
func (s *Store) Refresh(ctx context.Context) ([]models.Episode, error) {
	result, err := s.fetcher.Fetch(ctx, s.show.RSSURL)
	if err != nil {
		return nil, err
	}
	if len(result.Episodes) == 0 {
		return nil, ErrEmpty
	}

	s.replace(result.Episodes, result.Mock)

	err = s.cache.Set(&cacheData{
		FeedURL:  s.show.RSSURL,
		Mock:     result.Mock,
		Episodes: result.Episodes,
	})
	if err != nil {
		log.Warnf("store: failed to write cache: %v", err)
	}

	return s.Episodes(), nil
}

func (s *Store) replace(episodes []models.Episode, mock bool) {
	for _, dup := range lo.FindDuplicatesBy(episodes, slugOf) {
		log.WithField("slug", dup.Slug).Debug("store: slug shared by several episodes, first one wins")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.episodes = make([]models.Episode, len(episodes))
	copy(s.episodes, episodes)
	s.mock = mock
	s.loaded = true
}

func slugOf(e models.Episode) string {
	return e.Slug
}

// Loaded reports whether Load or Refresh has succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Mock reports whether the episodes are the placeholder set.
func (s *Store) Mock() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mock
}

// Len is the number of episodes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.episodes)
}

// Episodes returns a copy of the list in feed order.
func (s *Store) Episodes() []models.Episode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Episode, len(s.episodes))
	copy(out, s.episodes)
	return out
}

// Get resolves a slug to a copy of its episode. An exact match wins, then
// the first episode whose title contains the slug with hyphens read as
// spaces, then the first episode. None is returned only when the store is
// empty.
func (s *Store) Get(slug string) mo.Option[models.Episode] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.episodes) == 0 {
		return mo.None[models.Episode]()
	}

	if ep, ok := lo.Find(s.episodes, func(e models.Episode) bool { return e.Slug == slug }); ok {
		return mo.Some(ep)
	}

	needle := strings.ToLower(models.DespaceSlug(slug))
	if ep, ok := lo.Find(s.episodes, func(e models.Episode) bool {
		return strings.Contains(strings.ToLower(e.Title), needle)
	}); ok {
		return mo.Some(ep)
	}

	return mo.Some(s.episodes[0])
}

// SetSources attaches loaded sources to the episode with the given guid.
// The cache is not touched.
func (s *Store) SetSources(guid string, sources []models.Source) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.episodes {
		if s.episodes[i].GUID == guid {
			if sources == nil {
				sources = []models.Source{}
			}
			s.episodes[i].Sources = sources
			s.episodes[i].SourcesLoaded = true
			return true
		}
	}
	return false
}
