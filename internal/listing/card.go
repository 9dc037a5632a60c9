package listing

import (
	"strings"
	"sync"

	"github.com/csams/nutshell/internal/models"
	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// ExcerptLength is the number of description runes shown on a card.
const ExcerptLength = 120

// Card is one episode tile. Activating the card opens Href; activating one
// of its platform links opens only that link.
type Card struct {
	GUID      string
	Slug      string
	Title     string
	Date      string
	Excerpt   string
	Duration  string
	Href      string
	Platforms []models.PlatformLink

	// TitleMatches holds rune offsets in Title covered by the search query.
	TitleMatches []int
}

func NewCard(show models.Show, ep models.Episode, query string) Card {
	return Card{
		GUID:         ep.GUID,
		Slug:         ep.Slug,
		Title:        ep.Title,
		Date:         ep.FormattedDate,
		Excerpt:      ep.Excerpt(ExcerptLength),
		Duration:     ep.Duration,
		Href:         show.EpisodePath(ep.Slug),
		Platforms:    show.Platforms,
		TitleMatches: MatchPositions(ep.Title, query),
	}
}

var initAlgo sync.Once

// MatchPositions returns the rune offsets of a case-insensitive occurrence
// of query in text, or nil when there is none. When query occurs more than
// once the occurrence fzf scores best is used.
func MatchPositions(text, query string) []int {
	if strings.TrimSpace(query) == "" || text == "" {
		return nil
	}

	initAlgo.Do(func() { algo.Init("default") })

	chars := util.ToChars([]byte(text))
	pattern := []rune(strings.ToLower(query))
	slab := util.MakeSlab(16384, 1024)

	result, _ := algo.ExactMatchNaive(false, false, true, &chars, pattern, false, slab)
	if result.Start < 0 || result.End <= result.Start {
		return nil
	}

	positions := make([]int, 0, result.End-result.Start)
	for i := result.Start; i < result.End; i++ {
		positions = append(positions, i)
	}
	return positions
}
