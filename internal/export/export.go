// Package export writes a show's listing pages and episode pages as static
// HTML fragments.
package export

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/csams/nutshell/internal/detail"
	"github.com/csams/nutshell/internal/filesystem"
	"github.com/csams/nutshell/internal/listing"
	"github.com/csams/nutshell/internal/log"
	"github.com/csams/nutshell/internal/models"
	"github.com/csams/nutshell/internal/text"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

type Options struct {
	Dir      string
	Origin   string
	PageSize int
	Related  int
	// Loader fetches each episode's sources before its page is written.
	// Nil leaves the sources section out.
	Loader detail.Loader
	// Workers bounds the episodes processed at once. Zero uses 4.
	Workers int
}

// Summary counts the files an export wrote.
type Summary struct {
	Pages    int
	Episodes int
	Dir      string
}

type Exporter struct {
	opts Options
}

func New(opts Options) *Exporter {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	return &Exporter{opts: opts}
}

// PagePath is the file of listing page n, relative to the show directory.
func PagePath(n int) string {
	if n <= 1 {
		return "index.html"
	}
	return fmt.Sprintf("page-%d.html", n)
}

// EpisodePath is the file of an episode page, relative to the show
// directory.
func EpisodePath(slug string) string {
	return filepath.Join(slug, "index.html")
}

// Export writes every listing page and every episode page of show under
// Dir/<show slug>. The first failure cancels the remaining work.
func (e *Exporter) Export(ctx context.Context, show models.Show, episodes []models.Episode) (Summary, error) {
	dir := filepath.Join(e.opts.Dir, show.Slug)
	summary := Summary{Dir: dir}

	if err := filesystem.API().MkdirAll(dir, os.ModePerm); err != nil {
		return summary, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	l := listing.New(show, episodes, e.opts.PageSize)
	for n := 1; n <= l.Pages(); n++ {
		page := l.RenderPage(n)
		if err := e.write(filepath.Join(dir, PagePath(n)), pageTemplate, pageData{Show: show, Page: page}); err != nil {
			return summary, err
		}
		summary.Pages++
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)

	// a slug names one page; the first episode carrying it wins
	pages := lo.UniqBy(episodes, func(ep models.Episode) string { return ep.Slug })
	if skipped := len(episodes) - len(pages); skipped > 0 {
		log.WithField("show", show.Slug).Debugf("export: %d episodes share a slug with an earlier one", skipped)
	}

	var written atomic.Int64
	for _, ep := range pages {
		g.Go(func() error {
			if err := e.exportEpisode(ctx, dir, show, ep, episodes); err != nil {
				return err
			}
			written.Add(1)
			return nil
		})
	}

	err := g.Wait()
	summary.Episodes = int(written.Load())
	if err != nil {
		return summary, err
	}

	log.WithField("show", show.Slug).Infof("export: %d pages, %d episodes written to %s", summary.Pages, summary.Episodes, dir)
	return summary, nil
}

func (e *Exporter) exportEpisode(ctx context.Context, dir string, show models.Show, ep models.Episode, episodes []models.Episode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if e.opts.Loader != nil && !ep.SourcesLoaded {
		sources, err := e.opts.Loader.Load(ctx, show, ep)
		if err != nil {
			// an episode without sources still gets its page
			log.WithField("episode", ep.Slug).Debugf("export: no sources: %v", err)
			sources = nil
		}
		ep.Sources = sources
		ep.SourcesLoaded = true
	}

	state := detail.StateOf(ep)
	if state == detail.LoadingSources {
		state = detail.NoSources
	}

	view := detail.NewEpisodeView(show, ep, state, detail.ViewOptions{
		Episodes: episodes,
		Origin:   e.opts.Origin,
		Related:  e.opts.Related,
	})

	path := filepath.Join(dir, EpisodePath(ep.Slug))
	if err := filesystem.API().MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	return e.write(path, episodeTemplate, episodeData{
		Show:       show,
		View:       view,
		Paragraphs: paragraphs(ep.Description),
	})
}

func (e *Exporter) write(path string, tpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	if err := filesystem.API().WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// paragraphs splits a description into the blocks of its plain text.
func paragraphs(description string) []string {
	var out []string
	for _, p := range strings.Split(text.Plain(description), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type pageData struct {
	Show models.Show
	Page listing.PageView
}

type episodeData struct {
	Show       models.Show
	View       detail.EpisodeView
	Paragraphs []string
}

var funcs = template.FuncMap{
	"pagePath":    PagePath,
	"add":         func(a, b int) int { return a + b },
	"episodeHref": func(slug string) string { return "../" + slug + "/" },
	"cardHref":    func(slug string) string { return slug + "/" },
}

var pageTemplate = template.Must(template.New("page").Funcs(funcs).Parse(`<section class="episodes" data-show="{{.Show.Slug}}">
  <h2>{{.Show.Name}}</h2>
{{- if .Page.Empty}}
  <p class="no-episodes">No episodes found</p>
{{- else}}
  <div class="episode-grid">
  {{- range .Page.Cards}}
    <article class="episode-card" data-guid="{{.GUID}}">
      <a class="episode-link" href="{{cardHref .Slug}}">
        <h3>{{.Title}}</h3>
        <p class="episode-meta">{{.Date}}{{if .Duration}} · {{.Duration}}{{end}}</p>
        <p class="episode-excerpt">{{.Excerpt}}</p>
      </a>
      {{- if .Platforms}}
      <ul class="platforms">
      {{- range .Platforms}}
        <li><a href="{{.URL}}" target="_blank" rel="noopener">{{.Name}}</a></li>
      {{- end}}
      </ul>
      {{- end}}
    </article>
  {{- end}}
  </div>
{{- end}}
  <nav class="pagination">
    {{- if .Page.HasPrev}}
    <a class="prev" href="{{pagePath (add .Page.Page -1)}}">Prev</a>
    {{- end}}
    <span class="page-info">{{.Page.Info}}</span>
    {{- if .Page.HasNext}}
    <a class="next" href="{{pagePath (add .Page.Page 1)}}">Next</a>
    {{- end}}
  </nav>
</section>
`))

var episodeTemplate = template.Must(template.New("episode").Funcs(funcs).Parse(`<head>
  <title>{{.View.Meta.Title}}</title>
  <meta name="description" content="{{.View.Meta.Description}}">
  <meta property="og:title" content="{{.View.Title}}">
  <meta property="og:description" content="{{.View.Meta.Social}}">
  <meta property="og:type" content="article">
  <meta property="og:url" content="{{.View.URL}}">
  <meta name="twitter:card" content="summary">
  <meta name="twitter:title" content="{{.View.Title}}">
  <meta name="twitter:description" content="{{.View.Meta.Social}}">
</head>
<article class="episode" data-guid="{{.View.GUID}}">
  <a class="back" href="../">Back to {{.Show.Name}}</a>
  <h1>{{.View.Title}}</h1>
  <p class="episode-meta">
    {{- if .View.EpisodeNumber}}Episode {{.View.EpisodeNumber}} · {{end}}{{.View.Date}}{{if .View.Duration}} · {{.View.Duration}}{{end -}}
  </p>
{{- if .View.Audio.Available}}
  <audio controls preload="metadata" src="{{.View.Audio.URL}}"></audio>
{{- else}}
  <div class="audio-placeholder">
    <p>{{.View.Audio.Placeholder}}</p>
    {{- range .View.Audio.Platforms}}
    <a href="{{.URL}}" target="_blank" rel="noopener">{{.Name}}</a>
    {{- end}}
  </div>
{{- end}}
{{- if .View.SpotifyURL}}
  <a class="spotify" href="{{.View.SpotifyURL}}" target="_blank" rel="noopener">Listen on Spotify</a>
{{- end}}
  <div class="description">
  {{- range .Paragraphs}}
    <p>{{.}}</p>
  {{- end}}
  </div>
{{- if .View.ShowSources}}
  <section class="sources">
    <h2>Sources</h2>
    <ol>
    {{- range .View.Sources}}
      <li><a href="{{.URL}}" target="_blank" rel="noopener">{{.Title}}</a>{{if .Label}} <span>{{.Label}}</span>{{end}}</li>
    {{- end}}
    </ol>
  </section>
{{- end}}
  <section class="share">
  {{- range .View.Share}}
    <a href="{{.URL}}" target="_blank" rel="noopener">{{.Name}}</a>
  {{- end}}
    <input class="share-url" readonly value="{{.View.URL}}">
  </section>
{{- if .View.Related}}
  <section class="related">
    <h2>More Episodes</h2>
    {{- range .View.Related}}
    <a href="{{episodeHref .Slug}}">{{.Title}}</a>
    {{- end}}
  </section>
{{- end}}
</article>
`))
