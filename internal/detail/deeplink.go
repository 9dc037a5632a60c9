package detail

import (
	"context"
	"sync"
	"time"

	"github.com/csams/nutshell/internal/log"
	"github.com/csams/nutshell/internal/route"
	"github.com/csams/nutshell/internal/session"
)

// DefaultPollInterval is how often a deep link checks for episodes.
const DefaultPollInterval = 100 * time.Millisecond

// Counter reports how many episodes are loaded.
type Counter interface {
	Len() int
}

type DeepLinkOptions struct {
	Show     string
	Episodes Counter
	Session  *session.Store
	Location *route.Location
	Interval time.Duration
	// Open is called with the requested slug once episodes are loaded.
	Open func(slug string)
}

// DeepLinker opens the episode a location or a stashed redirect asks for.
// A stashed slug wins over the path and is consumed on first read.
type DeepLinker struct {
	opts DeepLinkOptions
	once sync.Once
}

func NewDeepLinker(opts DeepLinkOptions) *DeepLinker {
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	return &DeepLinker{opts: opts}
}

// Pending returns the slug to open, if any.
func (d *DeepLinker) Pending() (string, bool) {
	if d.opts.Session != nil {
		stash, err := d.opts.Session.Take()
		if err != nil {
			log.Warnf("detail: failed to read session: %v", err)
		}
		if s, ok := stash.Get(); ok {
			return s.Slug, true
		}
	}

	if d.opts.Location == nil {
		return "", false
	}
	show, slug := route.Parse(d.opts.Location.Path())
	if slug == "" || show != d.opts.Show {
		return "", false
	}
	return slug, true
}

// Run waits until episodes are loaded and opens the pending slug. It
// returns at once when nothing is pending. Only the first call does
// anything.
func (d *DeepLinker) Run(ctx context.Context) error {
	var err error
	d.once.Do(func() {
		slug, ok := d.Pending()
		if !ok {
			return
		}
		err = d.wait(ctx)
		if err != nil {
			return
		}
		log.WithField("slug", slug).Debug("detail: opening deep link")
		d.opts.Open(slug)
	})
	return err
}

func (d *DeepLinker) wait(ctx context.Context) error {
	if d.opts.Episodes.Len() > 0 {
		return nil
	}

	ticker := time.NewTicker(d.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if d.opts.Episodes.Len() > 0 {
				return nil
			}
		}
	}
}
