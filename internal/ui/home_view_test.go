package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/csams/nutshell/internal/listing"
	"github.com/gdamore/tcell/v2"
)

func rowText(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var b strings.Builder
	for _, c := range cells[y*w : (y+1)*w] {
		if len(c.Runes) == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(c.Runes[0])
	}
	return b.String()
}

func TestHomeView_Stats(t *testing.T) {
	s := newTestScreen(t)
	episodes := makeEpisodes(8)
	episodes[7].PublishedAt = time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)
	v := NewHomeView(listing.NewHome(testShow, episodes, 6), &recordedActions{})

	var hits HitMap
	v.Draw(s, &hits, 38)
	s.Show()

	header := rowText(s, 0)
	if !strings.Contains(header, "6 of 8") {
		t.Errorf("Expected the shown count, got %q", header)
	}
	if !strings.HasSuffix(strings.TrimRight(header, " "), "8 episodes since 2024") {
		t.Errorf("Expected the episode total and launch year, got %q", header)
	}
}

func TestHomeStats(t *testing.T) {
	tests := []struct {
		view listing.HomeView
		want string
	}{
		{listing.HomeView{}, ""},
		{listing.HomeView{Total: 1}, "1 episode"},
		{listing.HomeView{Total: 42, LaunchYear: 2025}, "42 episodes since 2025"},
	}
	for _, tt := range tests {
		if got := homeStats(tt.view); got != tt.want {
			t.Errorf("homeStats(%+v) = %q, want %q", tt.view, got, tt.want)
		}
	}
}
