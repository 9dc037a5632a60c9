package ui

import (
	"fmt"
	"testing"
	"time"

	"github.com/csams/nutshell/internal/listing"
	"github.com/csams/nutshell/internal/models"
	"github.com/gdamore/tcell/v2"
)

type recordedActions struct {
	opened []string
	links  []string
	closed int
}

func (r *recordedActions) OpenEpisode(slug string) { r.opened = append(r.opened, slug) }
func (r *recordedActions) CloseEpisode()           { r.closed++ }
func (r *recordedActions) OpenLink(url string)     { r.links = append(r.links, url) }

var testShow = models.Show{
	Name: "News in a Nutshell",
	Slug: "news-in-a-nutshell",
	Platforms: []models.PlatformLink{
		{Name: "Spotify", URL: "https://open.spotify.com/show/x"},
		{Name: "Apple Podcasts", URL: "https://podcasts.apple.com/x"},
	},
}

func makeEpisodes(n int) []models.Episode {
	episodes := make([]models.Episode, n)
	base := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	for i := range episodes {
		title := fmt.Sprintf("Episode %d", i+1)
		published := base.Add(-time.Duration(i) * 24 * time.Hour)
		episodes[i] = models.Episode{
			GUID:          fmt.Sprint(i + 1),
			Title:         title,
			Slug:          models.Slugify(title),
			PublishedAt:   published,
			FormattedDate: models.FormatDate(published),
		}
	}
	return episodes
}

func newTestScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Failed to init screen: %v", err)
	}
	s.SetSize(80, 40)
	t.Cleanup(s.Fini)
	return s
}

func TestArchiveView_Clicks(t *testing.T) {
	s := newTestScreen(t)
	act := &recordedActions{}
	v := NewArchiveView(listing.New(testShow, makeEpisodes(1), 10), act)

	var hits HitMap
	v.Draw(s, &hits, 38)

	// The first card starts on line 2; its platform links are on line 5.
	if !hits.Click(1, 5) {
		t.Fatal("Expected a platform link at (1, 5)")
	}
	if len(act.links) != 1 || act.links[0] != "https://open.spotify.com/show/x" {
		t.Errorf("Expected the Spotify link, got %v", act.links)
	}
	if len(act.opened) != 0 {
		t.Errorf("Expected the card not to open from a link click, got %v", act.opened)
	}

	if !hits.Click(30, 3) {
		t.Fatal("Expected the card at (30, 3)")
	}
	if len(act.opened) != 1 || act.opened[0] != "episode-1" {
		t.Errorf("Expected episode-1 opened, got %v", act.opened)
	}
}

func TestArchiveView_Paging(t *testing.T) {
	s := newTestScreen(t)
	v := NewArchiveView(listing.New(testShow, makeEpisodes(25), 10), &recordedActions{})

	var hits HitMap
	v.Draw(s, &hits, 38)

	if v.Page().HasPrev {
		t.Error("Expected no previous page on page 1")
	}

	next := len("Next >")
	if !hits.Click(80-next-1, 37) {
		t.Fatal("Expected the Next control on the pager line")
	}
	if v.Page().Page != 2 {
		t.Errorf("Expected page 2 after Next, got %d", v.Page().Page)
	}

	v.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone))
	if v.Page().Page != 1 {
		t.Errorf("Expected page 1 after p, got %d", v.Page().Page)
	}
}

func TestArchiveView_Search(t *testing.T) {
	v := NewArchiveView(listing.New(testShow, makeEpisodes(12), 10), &recordedActions{})

	v.Search("Episode 12")
	if len(v.Page().Cards) != 1 || v.Page().Cards[0].Slug != "episode-12" {
		t.Fatalf("Expected only episode-12, got %+v", v.Page().Cards)
	}

	v.HandleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	act := v.act.(*recordedActions)
	if len(act.opened) != 1 || act.opened[0] != "episode-12" {
		t.Errorf("Expected Enter to open the selected card, got %v", act.opened)
	}
}

func TestShowListView_Click(t *testing.T) {
	s := newTestScreen(t)
	act := &recordedActions{}
	v := NewShowListView(testShow.Name, act)
	v.SetRows(listing.ShowList(makeEpisodes(3), "2"))

	var hits HitMap
	v.Draw(s, &hits, 38)

	// Header on line 2, rows from line 3, newest first.
	if !hits.Click(10, 4) {
		t.Fatal("Expected a row at line 4")
	}
	if len(act.opened) != 1 || act.opened[0] != "episode-2" {
		t.Errorf("Expected episode-2 opened, got %v", act.opened)
	}
}
