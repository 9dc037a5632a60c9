// Package session carries a requested episode from one invocation to the
// next, the way a redirect hands a slug to the page it lands on. A stashed
// entry is read at most once.
package session

import (
	"fmt"
	"strings"

	"github.com/csams/nutshell/internal/filesystem"
	"github.com/csams/nutshell/internal/where"
	"github.com/metafates/gache"
	"github.com/samber/mo"
)

// Stash is a pending episode request.
type Stash struct {
	Slug     string `json:"episodeSlug"`
	ShowPath string `json:"showPath"`
}

type Store struct {
	cacher *gache.Cache[*Stash]
}

// New returns a store backed by path, or the default session file when path
// is empty.
func New(path string) *Store {
	if path == "" {
		path = where.Session()
	}

	return &Store{
		cacher: gache.New[*Stash](&gache.Options{
			Path:       path,
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

// Put stashes slug for the show at showPath, replacing any earlier entry.
func (s *Store) Put(showPath, slug string) error {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return fmt.Errorf("empty episode slug")
	}
	return s.cacher.Set(&Stash{Slug: slug, ShowPath: showPath})
}

// Take returns the stashed entry and clears it.
func (s *Store) Take() (mo.Option[Stash], error) {
	stash, expired, err := s.cacher.Get()
	if err != nil {
		return mo.None[Stash](), err
	}
	if expired || stash == nil || stash.Slug == "" {
		return mo.None[Stash](), nil
	}

	if err := s.cacher.Set(&Stash{}); err != nil {
		return mo.None[Stash](), fmt.Errorf("failed to clear session: %w", err)
	}
	return mo.Some(*stash), nil
}
