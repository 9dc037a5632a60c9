package listing

import (
	"github.com/csams/nutshell/internal/models"
	"github.com/samber/lo"
)

// DefaultHomeSize is both the initial number of cards on the home view and
// the increment of each "load more".
const DefaultHomeSize = 6

// HomeView is the latest-episodes strip.
type HomeView struct {
	Cards      []Card
	CanLoad    bool
	Shown      int
	Total      int
	// LaunchYear is the year of the oldest dated episode, 0 when no
	// episode has a date.
	LaunchYear int
}

// Home shows the newest episodes in feed order, growing by a fixed step.
type Home struct {
	show     models.Show
	episodes []models.Episode
	step     int
	shown    int
}

func NewHome(show models.Show, episodes []models.Episode, step int) *Home {
	if step <= 0 {
		step = DefaultHomeSize
	}
	return &Home{
		show:     show,
		episodes: episodes,
		step:     step,
		shown:    min(step, len(episodes)),
	}
}

// View renders the cards shown so far.
func (h *Home) View() HomeView {
	cards := make([]Card, 0, h.shown)
	for _, ep := range h.episodes[:h.shown] {
		cards = append(cards, NewCard(h.show, ep, ""))
	}
	return HomeView{
		Cards:      cards,
		CanLoad:    h.shown < len(h.episodes),
		Shown:      h.shown,
		Total:      len(h.episodes),
		LaunchYear: LaunchYear(h.episodes),
	}
}

// LaunchYear is the year the oldest dated episode was published.
func LaunchYear(episodes []models.Episode) int {
	dated := lo.Filter(episodes, func(ep models.Episode, _ int) bool { return !ep.PublishedAt.IsZero() })
	if len(dated) == 0 {
		return 0
	}
	oldest := lo.MinBy(dated, func(a, b models.Episode) bool { return a.PublishedAt.Before(b.PublishedAt) })
	return oldest.PublishedAt.Year()
}

// LoadMore reveals the next step of episodes. The control is hidden once
// every episode is shown.
func (h *Home) LoadMore() HomeView {
	h.shown = min(h.shown+h.step, len(h.episodes))
	return h.View()
}
