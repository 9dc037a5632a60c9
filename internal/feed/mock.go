package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/csams/nutshell/internal/models"
)

// MockEpisodeCount is the size of the placeholder episode set.
const MockEpisodeCount = 20

var mockBase = []struct {
	title, description, duration, audioURL string
}{
	{
		title:       "Tragedy in London: Missing Woman's Case Takes a Grim Turn",
		description: "This episode covers the tragic discovery in the search for Yajaira Castro Mendez, a fire incident in BC, Australia's speedy housing solution, a salmonella outbreak linked to eggs, and a study on bedroom design impacting workers' well-being.",
		duration:    "00:01:41",
		audioURL:    "https://op3.dev/e/f003.backblazeb2.com/file/bojack-sanchez-podcasts/news-in-a-nutshell/2025-06-08T01-25-50/podcast.mp3",
	},
	{
		title:       "Pakistan's Water Woes and Other Absurdities",
		description: "Explore Pakistan's desperate plea for water from India, British Columbia's gas pipeline approval amidst fires, and the creation of liquid carbon in tech. Plus, dive into River Island's job-cutting rescue plan and the discovery of the tiniest dinosaur.",
		duration:    "00:01:53",
		audioURL:    "https://op3.dev/e/f003.backblazeb2.com/file/bojack-sanchez-podcasts/news-in-a-nutshell/2025-06-07T12-32-25/podcast.mp3",
	},
	{
		title:       "Ex-Police Chief's Failed Prison Escape and Other News",
		description: "A rundown of today's biggest stories, from a failed prison escape by an ex-police chief to the latest Apple gadget reveal, along with Wall Street's rise and a stunning solar photo.",
		duration:    "00:01:57",
	},
	{
		title:       "U.S. Army's Massive Military Parade and Other Wild News",
		description: "From the U.S. Army's colossal military parade to Australia's nitrous oxide crisis and humpback whales having a bubbly good time. Get the scoop on the craziest news highlights of the week!",
		duration:    "00:02:14",
	},
	{
		title:       "Volleyball, Smoke, and AI: A Wild News Roundup",
		description: "In this episode, we dive into the bizarre detention of a Massachusetts teen by ICE, the smoky air in Chicago, the rise of AI, a casino's money laundering scandal, and Tom Cruise's latest record-breaking stunt.",
		duration:    "00:02:37",
	},
}

var mockEpoch = time.Date(2025, time.June, 8, 1, 27, 13, 0, time.UTC)

// MockEpisodes returns the placeholder set shown when every feed source
// failed. The set is the same on every call.
func MockEpisodes() []models.Episode {
	episodes := make([]models.Episode, 0, MockEpisodeCount)
	for i := 0; i < MockEpisodeCount; i++ {
		base := mockBase[i%len(mockBase)]
		published := mockEpoch.Add(-time.Duration(i) * 36 * time.Hour)

		prefix := models.Slugify(base.title)
		if len(prefix) > 30 {
			prefix = strings.TrimRight(prefix[:30], "-")
		}

		ep := models.Episode{
			GUID:            fmt.Sprintf("mock-episode-%d", i+1),
			Title:           fmt.Sprintf("%s (Episode %d)", base.title, i+1),
			Description:     base.description,
			Link:            "https://bojacksanchez.com",
			PubDate:         published.Format(time.RFC1123),
			PublishedAt:     published,
			FormattedDate:   models.FormatDate(published),
			Duration:        models.FormatDuration(base.duration),
			AudioURL:        base.audioURL,
			MediaURL:        base.audioURL,
			SourceTimestamp: models.ExtractSourceTimestamp(base.audioURL),
			Slug:            fmt.Sprintf("episode-%d-%s", i+1, prefix),
			EpisodeNumber:   i + 1,
		}
		episodes = append(episodes, ep)
	}
	return episodes
}
