package listing

import (
	"sort"

	"github.com/csams/nutshell/internal/models"
)

// Row is one line of the show page episode list.
type Row struct {
	GUID     string
	Slug     string
	Title    string
	Date     string
	Duration string
	HasAudio bool
	Playing  bool
}

// ShowList builds the show page list: newest first, episodes without a
// parseable date last, feed order kept among equals. The episode with
// playingGUID is marked as playing.
func ShowList(episodes []models.Episode, playingGUID string) []Row {
	sorted := make([]models.Episode, len(episodes))
	copy(sorted, episodes)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].PublishedAt, sorted[j].PublishedAt
		if a.IsZero() != b.IsZero() {
			return b.IsZero()
		}
		return a.After(b)
	})

	rows := make([]Row, 0, len(sorted))
	for _, ep := range sorted {
		rows = append(rows, Row{
			GUID:     ep.GUID,
			Slug:     ep.Slug,
			Title:    ep.Title,
			Date:     ep.FormattedDate,
			Duration: ep.Duration,
			HasAudio: ep.HasAudio(),
			Playing:  playingGUID != "" && ep.GUID == playingGUID,
		})
	}
	return rows
}
