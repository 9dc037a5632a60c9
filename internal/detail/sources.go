package detail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/csams/nutshell/internal/feed"
	"github.com/csams/nutshell/internal/log"
	"github.com/csams/nutshell/internal/models"
	"github.com/samber/lo"
)

// ErrNoTimestamp is returned for episodes whose audio URL carries no
// timestamp, so no sources document can be located.
var ErrNoTimestamp = errors.New("episode has no source timestamp")

const maxSourcesSize = 4 << 20

// SourceLoader fetches the cited sources of an episode. The document is
// requested directly first and through the allorigins relay after that.
type SourceLoader struct {
	client    *http.Client
	userAgent string
	relay     *feed.AllOrigins
}

type LoaderOptions struct {
	Client    *http.Client
	Timeout   time.Duration
	UserAgent string
	// Relay is the allorigins endpoint. Empty uses the public one; "-"
	// disables the relay.
	Relay string
}

func NewSourceLoader(opts LoaderOptions) *SourceLoader {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	var relay *feed.AllOrigins
	if opts.Relay != "-" {
		relay = &feed.AllOrigins{Endpoint: opts.Relay}
	}

	return &SourceLoader{
		client:    client,
		userAgent: opts.UserAgent,
		relay:     relay,
	}
}

// Load returns the sources of ep. A document without sources yields an
// empty, non-nil slice.
func (l *SourceLoader) Load(ctx context.Context, show models.Show, ep models.Episode) ([]models.Source, error) {
	location := show.SourcesLocation(ep.SourceTimestamp)
	if location == "" {
		return nil, ErrNoTimestamp
	}

	body, err := l.get(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	})
	if err != nil && l.relay != nil && ctx.Err() == nil {
		log.WithField("episode", ep.Slug).Debugf("detail: direct sources request failed: %v", err)
		body, err = l.get(ctx, func() (*http.Request, error) {
			return l.relay.Request(ctx, location)
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sources: %w", err)
	}

	return DecodeSources(body)
}

func (l *SourceLoader) get(ctx context.Context, build func() (*http.Request, error)) ([]byte, error) {
	req, err := build()
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if l.userAgent != "" {
		req.Header.Set("User-Agent", l.userAgent)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxSourcesSize))
}

type sourcesDocument struct {
	Sources []models.Source `json:"sources"`
}

// DecodeSources reads a sources document, unwrapping an allorigins
// envelope when there is one. Untitled sources get a placeholder title.
func DecodeSources(body []byte) ([]models.Source, error) {
	body = bytes.TrimSpace(body)

	var peek map[string]json.RawMessage
	if err := json.Unmarshal(body, &peek); err != nil {
		return nil, fmt.Errorf("failed to decode sources: %w", err)
	}
	if _, wrapped := peek["contents"]; wrapped {
		contents, err := feed.UnwrapContents(body)
		if err != nil {
			return nil, err
		}
		body = []byte(contents)
	}

	var doc sourcesDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode sources: %w", err)
	}

	return lo.Map(lo.Compact(doc.Sources), func(s models.Source, _ int) models.Source {
		if s.Title == "" {
			s.Title = "Untitled"
		}
		return s
	}), nil
}
