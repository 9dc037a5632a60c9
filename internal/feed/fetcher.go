package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/csams/nutshell/internal/log"
	"github.com/csams/nutshell/internal/models"
)

// ErrSuperseded is returned by a fetch that finished after a newer fetch
// was started on the same Fetcher.
var ErrSuperseded = errors.New("fetch superseded by a newer request")

const maxFeedSize = 32 << 20

// Result is the outcome of a fetch. Mock is set when every source failed
// and the placeholder episodes were substituted.
type Result struct {
	Episodes []models.Episode
	Source   string
	Mock     bool
}

// Options configures a Fetcher. Zero values fall back to defaults.
type Options struct {
	Client    *http.Client
	Timeout   time.Duration
	UserAgent string
	Proxies   []Source
}

// Fetcher reads a feed from its origin and, failing that, through a fixed
// list of proxies tried strictly in order.
type Fetcher struct {
	client     *http.Client
	userAgent  string
	sources    []Source
	generation atomic.Uint64
}

func NewFetcher(opts Options) *Fetcher {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	proxies := opts.Proxies
	if proxies == nil {
		proxies = DefaultProxies()
	}

	sources := make([]Source, 0, len(proxies)+1)
	sources = append(sources, Direct{})
	sources = append(sources, proxies...)

	return &Fetcher{
		client:    client,
		userAgent: opts.UserAgent,
		sources:   sources,
	}
}

// ProxiesByName resolves configured proxy names, skipping unknown ones.
func ProxiesByName(names []string) []Source {
	proxies := make([]Source, 0, len(names))
	for _, name := range names {
		p, ok := ProxyByName(name)
		if !ok {
			log.Warnf("feed: unknown proxy %q ignored", name)
			continue
		}
		proxies = append(proxies, p)
	}
	return proxies
}

// Fetch returns the episodes of the feed at feedURL from the first source
// that yields at least one item. When all sources fail the placeholder set
// is returned with Mock set and a nil error. A fetch overtaken by a later
// call on the same Fetcher returns ErrSuperseded.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) (*Result, error) {
	gen := f.generation.Add(1)

	for _, src := range f.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		episodes, err := f.try(ctx, src, feedURL)
		if err != nil {
			log.WithField("source", src.Name()).Warnf("feed: %v", err)
			continue
		}
		if f.generation.Load() != gen {
			return nil, ErrSuperseded
		}

		log.WithField("source", src.Name()).Infof("feed: loaded %d episodes", len(episodes))
		return &Result{Episodes: episodes, Source: src.Name()}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.generation.Load() != gen {
		return nil, ErrSuperseded
	}

	log.Warnf("feed: all sources failed for %s, using placeholder episodes", feedURL)
	return &Result{Episodes: MockEpisodes(), Source: "mock", Mock: true}, nil
}

func (f *Fetcher) try(ctx context.Context, src Source, feedURL string) ([]models.Episode, error) {
	req, err := src.Request(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch feed: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read feed: %w", err)
	}
	if len(body) == 0 {
		return nil, errors.New("failed to fetch feed: empty response")
	}

	episodes, err := src.Decode(body)
	if err != nil {
		return nil, err
	}
	if len(episodes) == 0 {
		return nil, ErrNoItems
	}
	return episodes, nil
}
