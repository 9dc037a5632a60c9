package detail

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/csams/nutshell/internal/feed"
	"github.com/csams/nutshell/internal/filesystem"
	"github.com/csams/nutshell/internal/models"
	"github.com/csams/nutshell/internal/player"
	"github.com/csams/nutshell/internal/route"
	"github.com/csams/nutshell/internal/store"
)

func init() {
	filesystem.SetMemMapFs()
}

var testShow = models.Show{
	Name:       "News in a Nutshell",
	Slug:       "news-in-a-nutshell",
	RSSURL:     "https://example.com/feed.rss",
	SourcesURL: "https://example.com/{show}/{timestamp}/sources.json",
	Platforms:  []models.PlatformLink{{Name: "Spotify", URL: "https://open.spotify.com/show/x"}},
}

type fixedFetcher struct {
	episodes []models.Episode
}

func (f fixedFetcher) Fetch(context.Context, string) (*feed.Result, error) {
	return &feed.Result{Episodes: f.episodes, Source: "fixed"}, nil
}

type fakeMedia struct {
	loaded []string
	source string
}

func (f *fakeMedia) Load(url string) error           { f.loaded = append(f.loaded, url); f.source = url; return nil }
func (f *fakeMedia) Clear() error                    { f.source = ""; return nil }
func (f *fakeMedia) Play() error                     { return nil }
func (f *fakeMedia) Pause() error                    { return nil }
func (f *fakeMedia) Seek(time.Duration) error        { return nil }
func (f *fakeMedia) SetVolume(int) error             { return nil }
func (f *fakeMedia) SetSpeed(float64) error          { return nil }
func (f *fakeMedia) Events() <-chan player.Event     { return nil }
func (f *fakeMedia) Close() error                    { return nil }

type fakeLoader struct {
	sources map[string][]models.Source
	err     error
	block   chan struct{}
	calls   atomic.Int32
}

func (l *fakeLoader) Load(ctx context.Context, _ models.Show, ep models.Episode) ([]models.Source, error) {
	l.calls.Add(1)
	if l.block != nil {
		<-l.block
	}
	if l.err != nil {
		return nil, l.err
	}
	if ep.SourceTimestamp == "" {
		return nil, ErrNoTimestamp
	}
	return l.sources[ep.GUID], nil
}

func testEpisodes() []models.Episode {
	mk := func(guid, title, audio, ts string) models.Episode {
		return models.Episode{
			GUID:            guid,
			Title:           title,
			Slug:            models.Slugify(title),
			FormattedDate:   "June 8, 2025",
			Duration:        "05:00",
			Description:     "About " + title,
			AudioURL:        audio,
			SourceTimestamp: ts,
		}
	}
	return []models.Episode{
		mk("a", "Episode A", "https://cdn.example.com/2025-06-08T01-25-50/a.mp3", "2025-06-08T01-25-50"),
		mk("b", "Episode B", "https://cdn.example.com/2025-06-07T01-25-50/b.mp3", "2025-06-07T01-25-50"),
		mk("c", "Episode C", "", ""),
		mk("d", "Episode D", "https://cdn.example.com/d.mp3", ""),
		mk("e", "Episode E", "https://cdn.example.com/e.mp3", ""),
	}
}

type fixture struct {
	store    *store.Store
	media    *fakeMedia
	player   *player.Player
	loader   *fakeLoader
	renderer *Renderer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s := store.New(testShow, fixedFetcher{episodes: testEpisodes()}, store.Options{Path: "/cache/" + t.Name() + "/episodes.json"})
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	media := &fakeMedia{}
	p := player.New(media)
	loader := &fakeLoader{sources: map[string][]models.Source{
		"a": {{URL: "https://news.example.com/1", Title: "Story", Domain: "news.example.com", Country: "UK"}},
	}}

	return &fixture{
		store:  s,
		media:  media,
		player: p,
		loader: loader,
		renderer: NewRenderer(Options{
			Store:    s,
			Loader:   loader,
			Player:   p,
			Location: route.NewLocation(testShow.BasePath()),
			Origin:   "https://example.com",
		}),
	}
}

func TestRenderEpisode_WithSources(t *testing.T) {
	f := newFixture(t)

	view, err := f.renderer.RenderEpisode(context.Background(), "episode-a")
	if err != nil {
		t.Fatalf("RenderEpisode() error = %v", err)
	}

	if view.State != SourcesReady || !view.ShowSources() {
		t.Fatalf("State = %v, want sources-ready", view.State)
	}
	if len(view.Sources) != 1 || view.Sources[0].Label != "news.example.com · UK" {
		t.Errorf("Sources = %+v", view.Sources)
	}
	if view.Path != "/news-in-a-nutshell/episode-a" {
		t.Errorf("Path = %q", view.Path)
	}
	if view.URL != "https://example.com/news-in-a-nutshell/episode-a" {
		t.Errorf("URL = %q", view.URL)
	}
	if f.renderer.Location().Path() != view.Path {
		t.Errorf("location = %q, want %q", f.renderer.Location().Path(), view.Path)
	}
	if !view.Audio.Available || view.Audio.URL != testEpisodes()[0].AudioURL {
		t.Errorf("Audio = %+v", view.Audio)
	}
	if len(view.Share) != 3 {
		t.Errorf("got %d share links, want 3", len(view.Share))
	}

	ep := f.store.Get("episode-a").MustGet()
	if !ep.SourcesLoaded || len(ep.Sources) != 1 {
		t.Errorf("sources not merged into the store: %+v", ep.Sources)
	}
}

func TestRenderEpisode_Related(t *testing.T) {
	f := newFixture(t)

	view, err := f.renderer.RenderEpisode(context.Background(), "episode-b")
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"a", "c", "d"}
	if len(view.Related) != len(want) {
		t.Fatalf("got %d related episodes, want %d", len(view.Related), len(want))
	}
	for i, guid := range want {
		if view.Related[i].GUID != guid {
			t.Errorf("Related[%d] = %q, want %q", i, view.Related[i].GUID, guid)
		}
	}
	if view.Related[0].Href != "/news-in-a-nutshell/episode-a" {
		t.Errorf("Href = %q", view.Related[0].Href)
	}
}

func TestRenderEpisode_MissingAudioShowsPlaceholder(t *testing.T) {
	f := newFixture(t)

	view, err := f.renderer.RenderEpisode(context.Background(), "episode-c")
	if err != nil {
		t.Fatalf("RenderEpisode() error = %v", err)
	}

	if view.Audio.Available {
		t.Error("expected no audio")
	}
	if view.Audio.Placeholder != PlaceholderText {
		t.Errorf("Placeholder = %q", view.Audio.Placeholder)
	}
	if len(view.Audio.Platforms) != 1 {
		t.Errorf("Platforms = %+v", view.Audio.Platforms)
	}
	if view.State != NoSources || view.ShowSources() {
		t.Errorf("State = %v, want no-sources", view.State)
	}
	if f.player.Mounted() {
		t.Error("player mounted for an episode without audio")
	}
}

func TestRenderEpisode_LoaderFailureHidesSources(t *testing.T) {
	f := newFixture(t)
	f.loader.err = errors.New("unreachable")

	view, err := f.renderer.RenderEpisode(context.Background(), "episode-a")
	if err != nil {
		t.Fatalf("RenderEpisode() error = %v", err)
	}
	if view.State != NoSources {
		t.Errorf("State = %v, want no-sources", view.State)
	}

	// a failed load is retried the next time the episode opens
	if f.store.Get("episode-a").MustGet().SourcesLoaded {
		t.Error("failed load marked as loaded")
	}
}

func TestRenderEpisode_SourcesLoadedOnce(t *testing.T) {
	f := newFixture(t)

	f.renderer.RenderEpisode(context.Background(), "episode-a")
	view, err := f.renderer.RenderEpisode(context.Background(), "episode-a")
	if err != nil {
		t.Fatal(err)
	}
	if f.loader.calls.Load() != 1 {
		t.Errorf("loader called %d times, want 1", f.loader.calls.Load())
	}
	if view.State != SourcesReady {
		t.Errorf("State = %v", view.State)
	}
}

func TestOpen_ReplacesPlayerSource(t *testing.T) {
	f := newFixture(t)

	if _, err := f.renderer.Open("episode-a"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.renderer.Open("episode-b"); err != nil {
		t.Fatal(err)
	}

	track, ok := f.player.Track()
	if !ok || track.Title != "Episode B" {
		t.Fatalf("track = %+v, mounted %v", track, ok)
	}
	if f.media.source != testEpisodes()[1].AudioURL {
		t.Errorf("source = %q", f.media.source)
	}
	if len(f.media.loaded) != 2 {
		t.Errorf("media loaded %d times, want 2", len(f.media.loaded))
	}
}

func TestLoadSources_Stale(t *testing.T) {
	f := newFixture(t)
	f.loader.block = make(chan struct{})

	if _, err := f.renderer.Open("episode-a"); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := f.renderer.LoadSources(context.Background())
		done <- err
	}()

	// let the load start before the next episode is opened
	for f.loader.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	if _, err := f.renderer.Open("episode-b"); err != nil {
		t.Fatal(err)
	}
	close(f.loader.block)

	if err := <-done; !errors.Is(err, ErrStale) {
		t.Fatalf("LoadSources() error = %v, want ErrStale", err)
	}
	if f.renderer.State() != LoadingSources {
		t.Errorf("State = %v, want loading-sources for episode B", f.renderer.State())
	}
	if f.renderer.View().GUID != "b" {
		t.Errorf("view shows %q, want b", f.renderer.View().GUID)
	}
}

func TestClose(t *testing.T) {
	f := newFixture(t)

	f.renderer.RenderEpisode(context.Background(), "episode-a")
	f.renderer.Close()

	if f.renderer.State() != NoEpisode || !f.renderer.View().Empty() {
		t.Errorf("State = %v, want no-episode", f.renderer.State())
	}
	if f.player.Mounted() || f.media.source != "" {
		t.Error("player source not cleared")
	}
	if f.renderer.Location().Path() != "/news-in-a-nutshell" {
		t.Errorf("location = %q, want show base path", f.renderer.Location().Path())
	}
}

func TestOpen_EmptyStore(t *testing.T) {
	s := store.New(testShow, fixedFetcher{}, store.Options{Path: "/cache/empty/episodes.json"})
	r := NewRenderer(Options{Store: s})

	if _, err := r.Open("anything"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Open() error = %v, want ErrNotFound", err)
	}
}

func TestOpen_UnknownSlugFallsBackToFirst(t *testing.T) {
	f := newFixture(t)

	view, err := f.renderer.Open("no-such-episode")
	if err != nil {
		t.Fatal(err)
	}
	if view.GUID != "a" {
		t.Errorf("GUID = %q, want first episode", view.GUID)
	}
}

func TestPageMeta(t *testing.T) {
	long := "<p>" + strings.Repeat("Ünïcode ", 30) + "</p>"

	tests := []struct {
		name        string
		description string
		wantDesc    string
		wantSocial  int
	}{
		{"short description kept", "<p>Short <b>news</b>.</p>\n<p>More.</p>", "Short news. More.", len([]rune("Short news. More."))},
		{"long description cut", long, strings.TrimSpace(string([]rune(strings.Repeat("Ünïcode ", 30))[:160])) + "...", 202},
		{"empty description", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewEpisodeView(testShow, models.Episode{Title: "Big Week", Slug: "big-week", Description: tt.description}, NoSources, ViewOptions{}).Meta
			if meta.Title != "Big Week | News in a Nutshell" {
				t.Errorf("Title = %q", meta.Title)
			}
			if meta.Description != tt.wantDesc {
				t.Errorf("Description = %q, want %q", meta.Description, tt.wantDesc)
			}
			if got := len([]rune(meta.Social)); got != tt.wantSocial {
				t.Errorf("Social has %d runes, want %d", got, tt.wantSocial)
			}
		})
	}
}
