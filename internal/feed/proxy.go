package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/csams/nutshell/internal/models"
)

// Source is one place a feed can be read from. Each source shapes its own
// request and unwraps its own response.
type Source interface {
	Name() string
	Request(ctx context.Context, feedURL string) (*http.Request, error)
	Decode(body []byte) ([]models.Episode, error)
}

const acceptXML = "application/xml, text/xml, */*"

// Direct reads the feed from its origin with a cache-busting query parameter.
type Direct struct {
	now func() time.Time
}

func (Direct) Name() string { return "direct" }

func (d Direct) Request(ctx context.Context, feedURL string) (*http.Request, error) {
	u, err := url.Parse(feedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid feed url: %w", err)
	}

	now := time.Now
	if d.now != nil {
		now = d.now
	}
	q := u.Query()
	q.Set("_", strconv.FormatInt(now().UnixNano(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", acceptXML)
	return req, nil
}

func (Direct) Decode(body []byte) ([]models.Episode, error) {
	return Parse(body)
}

// AllOrigins wraps the feed in a JSON envelope: {"contents": "<xml>"}.
type AllOrigins struct {
	Endpoint string
}

func (AllOrigins) Name() string { return "allorigins" }

func (p AllOrigins) Request(ctx context.Context, feedURL string) (*http.Request, error) {
	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = "https://api.allorigins.win/get"
	}
	return http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?url="+url.QueryEscape(feedURL), nil)
}

func (AllOrigins) Decode(body []byte) ([]models.Episode, error) {
	contents, err := UnwrapContents(body)
	if err != nil {
		return nil, err
	}
	return Parse([]byte(contents))
}

// UnwrapContents extracts the payload of an allorigins envelope.
func UnwrapContents(body []byte) (string, error) {
	var envelope struct {
		Contents *string `json:"contents"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("failed to decode proxy envelope: %w", err)
	}
	if envelope.Contents == nil {
		return "", fmt.Errorf("proxy envelope has no contents")
	}
	return *envelope.Contents, nil
}

// CorsProxy passes the feed through untouched.
type CorsProxy struct {
	Endpoint string
}

func (CorsProxy) Name() string { return "corsproxy" }

func (p CorsProxy) Request(ctx context.Context, feedURL string) (*http.Request, error) {
	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = "https://corsproxy.io/"
	}
	return http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+url.QueryEscape(feedURL), nil)
}

func (CorsProxy) Decode(body []byte) ([]models.Episode, error) {
	return Parse(body)
}

// CodeTabs passes the feed through untouched. The target goes unescaped in
// the quest parameter.
type CodeTabs struct {
	Endpoint string
}

func (CodeTabs) Name() string { return "codetabs" }

func (p CodeTabs) Request(ctx context.Context, feedURL string) (*http.Request, error) {
	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = "https://api.codetabs.com/v1/proxy"
	}
	return http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?quest="+feedURL, nil)
}

func (CodeTabs) Decode(body []byte) ([]models.Episode, error) {
	return Parse(body)
}

// RSS2JSON returns the feed already converted to JSON items.
type RSS2JSON struct {
	Endpoint string
}

func (RSS2JSON) Name() string { return "rss2json" }

func (p RSS2JSON) Request(ctx context.Context, feedURL string) (*http.Request, error) {
	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = "https://api.rss2json.com/v1/api.json"
	}
	return http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?rss_url="+url.QueryEscape(feedURL), nil)
}

func (RSS2JSON) Decode(body []byte) ([]models.Episode, error) {
	return ParseRSS2JSON(body)
}

// ProxyByName maps a configured proxy name to its implementation.
func ProxyByName(name string) (Source, bool) {
	switch name {
	case "allorigins":
		return AllOrigins{}, true
	case "corsproxy":
		return CorsProxy{}, true
	case "codetabs":
		return CodeTabs{}, true
	case "rss2json":
		return RSS2JSON{}, true
	default:
		return nil, false
	}
}

// DefaultProxies is the fallback order used when nothing is configured.
func DefaultProxies() []Source {
	return []Source{AllOrigins{}, CorsProxy{}, CodeTabs{}, RSS2JSON{}}
}
