package feed

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/csams/nutshell/internal/models"
	"github.com/samber/lo"
)

type rss2jsonResponse struct {
	Status string         `json:"status"`
	Items  []rss2jsonItem `json:"items"`
}

type rss2jsonItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	PubDate     string `json:"pubDate"`
	Link        string `json:"link"`
	GUID        string `json:"guid"`
	Enclosure   struct {
		Link     string          `json:"link"`
		Duration json.RawMessage `json:"duration"`
	} `json:"enclosure"`
	Duration json.RawMessage `json:"duration"`
}

// ParseRSS2JSON converts an rss2json response into episodes, normalized the
// same way as items parsed from XML.
func ParseRSS2JSON(data []byte) ([]models.Episode, error) {
	var resp rss2jsonResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode rss2json response: %w", err)
	}
	if resp.Status != "" && resp.Status != "ok" {
		return nil, fmt.Errorf("rss2json returned status %q", resp.Status)
	}
	if len(resp.Items) == 0 {
		return nil, ErrNoItems
	}

	episodes := make([]models.Episode, 0, len(resp.Items))
	for _, item := range resp.Items {
		description := strings.TrimSpace(item.Description)
		if description == "" {
			description = strings.TrimSpace(item.Content)
		}

		episodes = append(episodes, buildEpisode(rawEpisode{
			guid:        strings.TrimSpace(item.GUID),
			title:       strings.TrimSpace(item.Title),
			description: description,
			link:        item.Link,
			pubDate:     item.PubDate,
			duration: resolveDuration(
				"",
				lo.CoalesceOrEmpty(jsonScalar(item.Duration), jsonScalar(item.Enclosure.Duration)),
				description,
			),
			audioURL: item.Enclosure.Link,
			mediaURL: item.Enclosure.Link,
		}))
	}
	return episodes, nil
}

// jsonScalar renders a JSON string or number as text. rss2json reports
// durations as either, and uses 0 for unknown.
func jsonScalar(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil && n.String() != "0" {
		return n.String()
	}
	return ""
}
