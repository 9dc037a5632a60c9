package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/csams/nutshell/internal/log"
	"github.com/csams/nutshell/internal/models"
	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
)

const (
	itunesNS    = "http://www.itunes.com/dtds/podcast-1.0.dtd"
	itunesAltNS = "http://itunes.apple.com/dtds/podcast-1.0.dtd"
	mediaNS     = "http://search.yahoo.com/mrss/"
)

// ErrNoItems is returned when a document parses but holds no episodes.
var ErrNoItems = errors.New("no episodes found in feed")

// Node is one child element of an RSS <item>. Children of children are kept
// so that media:group/media:content can be found.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []Node     `xml:",any"`
}

// Item is a raw RSS item. Accessors never fail: a missing element or
// attribute reads as "".
type Item struct {
	Children []Node `xml:",any"`
}

// Text returns the trimmed text of the first child named local in namespace
// space. An empty space matches only un-namespaced elements.
func (it Item) Text(space, local string) string {
	if n, ok := it.find(space, local); ok {
		return strings.TrimSpace(n.Text)
	}
	return ""
}

// Attr returns an attribute of the first child named local in namespace
// space.
func (it Item) Attr(space, local, attr string) string {
	n, ok := it.find(space, local)
	if !ok {
		return ""
	}
	for _, a := range n.Attrs {
		if a.Name.Local == attr {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}

func (it Item) find(space, local string) (Node, bool) {
	var walk func(nodes []Node) (Node, bool)
	walk = func(nodes []Node) (Node, bool) {
		for _, n := range nodes {
			if n.XMLName.Local == local && n.XMLName.Space == space {
				return n, true
			}
		}
		for _, n := range nodes {
			if found, ok := walk(n.Children); ok {
				return found, true
			}
		}
		return Node{}, false
	}
	return walk(it.Children)
}

// anyText is Text over several namespaces in order. Feeds that forget to
// declare a prefix end up with the bare prefix ("itunes") as the space.
func (it Item) anyText(local string, spaces ...string) string {
	for _, space := range spaces {
		if v := it.Text(space, local); v != "" {
			return v
		}
	}
	return ""
}

// Parse decodes an RSS document into episodes in feed order. Each item is
// decoded on its own so a defective item becomes an empty-field episode
// while the items around it still parse. Documents that are not RSS (Atom,
// JSON Feed) go through the gofeed universal parser.
func Parse(data []byte) ([]models.Episode, error) {
	episodes, err := parseRSS(data)
	if err == nil && len(episodes) > 0 {
		return episodes, nil
	}

	if fallback, ferr := parseUniversal(data); ferr == nil && len(fallback) > 0 {
		return fallback, nil
	}

	if err == nil {
		err = ErrNoItems
	}
	return nil, err
}

func newDecoder(r io.Reader) *xml.Decoder {
	d := xml.NewDecoder(r)
	d.Strict = false
	d.Entity = xml.HTMLEntity
	return d
}

func parseRSS(data []byte) ([]models.Episode, error) {
	offsets := itemOffsets(data)
	if len(offsets) == 0 {
		return nil, checkDocument(data)
	}

	scope := namespaceScope(data[:offsets[0]])
	episodes := make([]models.Episode, 0, len(offsets))
	for i, start := range offsets {
		end := len(data)
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}

		item, err := decodeItem(scope, data[start:end])
		if err != nil {
			log.Warnf("feed: defective item %d: %v", i+1, err)
		}
		episodes = append(episodes, ParseItem(item))
	}
	return episodes, nil
}

// checkDocument explains why a document without items yielded nothing.
func checkDocument(data []byte) error {
	d := newDecoder(bytes.NewReader(data))
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return errors.New("failed to parse RSS: empty document")
		}
		if err != nil {
			return fmt.Errorf("failed to parse RSS: %w", err)
		}
		if _, ok := tok.(xml.StartElement); ok {
			return ErrNoItems
		}
	}
}

var (
	itemOpen     = []byte("<item")
	cdataOpen    = []byte("<![CDATA[")
	cdataClose   = []byte("]]>")
	commentOpen  = []byte("<!--")
	commentClose = []byte("-->")
)

// itemOffsets returns the byte offset of every <item> start tag, skipping
// CDATA sections and comments.
func itemOffsets(data []byte) []int {
	var offsets []int
	for i := 0; i < len(data); {
		j := bytes.IndexByte(data[i:], '<')
		if j < 0 {
			break
		}
		i += j
		rest := data[i:]

		switch {
		case bytes.HasPrefix(rest, cdataOpen):
			k := bytes.Index(rest, cdataClose)
			if k < 0 {
				return offsets
			}
			i += k + len(cdataClose)
			continue
		case bytes.HasPrefix(rest, commentOpen):
			k := bytes.Index(rest, commentClose)
			if k < 0 {
				return offsets
			}
			i += k + len(commentClose)
			continue
		case isItemStart(rest):
			offsets = append(offsets, i)
		}
		i++
	}
	return offsets
}

func isItemStart(b []byte) bool {
	if !bytes.HasPrefix(b, itemOpen) {
		return false
	}
	if len(b) == len(itemOpen) {
		return true
	}
	switch b[len(itemOpen)] {
	case '>', '/', ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

// namespaceScope collects the xmlns declarations of the document header
// into an opening tag that items are decoded under.
func namespaceScope(header []byte) string {
	var b strings.Builder
	b.WriteString("<scope")

	d := newDecoder(bytes.NewReader(header))
	for {
		tok, err := d.Token()
		if err != nil {
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		for _, a := range start.Attr {
			switch {
			case a.Name.Space == "xmlns":
				b.WriteString(" xmlns:" + a.Name.Local + `="`)
			case a.Name.Space == "" && a.Name.Local == "xmlns":
				b.WriteString(` xmlns="`)
			default:
				continue
			}
			_ = xml.EscapeText(&b, []byte(a.Value))
			b.WriteString(`"`)
		}
	}

	b.WriteString(">")
	return b.String()
}

// decodeItem decodes the first <item> in chunk. The chunk runs up to the
// next item, so trailing closing tags of the document are ignored.
func decodeItem(scope string, chunk []byte) (Item, error) {
	d := newDecoder(io.MultiReader(strings.NewReader(scope), bytes.NewReader(chunk)))
	for {
		tok, err := d.Token()
		if err != nil {
			return Item{}, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "item" {
			continue
		}

		var item Item
		if err := d.DecodeElement(&item, &start); err != nil {
			return Item{}, err
		}
		return item, nil
	}
}

// ParseItem converts one raw item into a normalized episode.
func ParseItem(item Item) models.Episode {
	title := item.Text("", "title")
	if title == "" {
		title = item.anyText("title", itunesNS, itunesAltNS, "itunes")
	}
	if title == "" {
		title = models.UntitledEpisode
	}

	description := item.Text("", "description")
	if description == "" {
		description = item.anyText("summary", itunesNS, itunesAltNS, "itunes")
	}

	guid := item.Text("", "guid")
	if guid == "" {
		guid = uuid.NewString()
	}

	enclosureURL := item.Attr("", "enclosure", "url")
	mediaURL := item.Attr(mediaNS, "content", "url")
	if mediaURL == "" {
		mediaURL = item.Attr("media", "content", "url")
	}
	if enclosureURL != "" {
		mediaURL = enclosureURL
	}

	duration := resolveDuration(
		item.anyText("duration", itunesNS, itunesAltNS, "itunes"),
		item.Text("", "duration"),
		description,
	)

	link := item.Text("", "link")
	pubDate := item.Text("", "pubDate")

	return buildEpisode(rawEpisode{
		guid:        guid,
		title:       title,
		description: description,
		link:        link,
		pubDate:     pubDate,
		duration:    duration,
		audioURL:    enclosureURL,
		mediaURL:    mediaURL,
	})
}

type rawEpisode struct {
	guid, title, description, link, pubDate, duration, audioURL, mediaURL string
}

func buildEpisode(raw rawEpisode) models.Episode {
	if raw.title == "" {
		raw.title = models.UntitledEpisode
	}
	if raw.guid == "" {
		raw.guid = uuid.NewString()
	}

	ep := models.Episode{
		GUID:          raw.guid,
		Title:         raw.title,
		Description:   raw.description,
		Link:          raw.link,
		PubDate:       raw.pubDate,
		Duration:      models.FormatDuration(raw.duration),
		AudioURL:      raw.audioURL,
		MediaURL:      raw.mediaURL,
		Slug:          models.EpisodeSlug(raw.title, raw.guid),
		EpisodeNumber: models.ExtractEpisodeNumber(raw.title, raw.guid),
		SpotifyURL:    models.ExtractSpotifyURL(raw.description, raw.link),
	}

	timestampSource := raw.audioURL
	if timestampSource == "" {
		timestampSource = raw.mediaURL
	}
	ep.SourceTimestamp = models.ExtractSourceTimestamp(timestampSource)

	if t, err := models.ParsePubDate(raw.pubDate); err == nil {
		ep.PublishedAt = t
	}
	ep.FormattedDate = models.FormatDate(ep.PublishedAt)

	return ep
}

var descriptionDurationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:duration|length|runtime):\s*(\d{1,2}:\d{2}(?::\d{2})?)`),
	regexp.MustCompile(`(?i)(\d{1,2}:\d{2}(?::\d{2})?)\s*(?:duration|long|minutes)`),
	regexp.MustCompile(`\b(\d{1,2}:\d{2})\b`),
}

// resolveDuration picks the first usable duration: the itunes field, the
// plain duration field, a clock-looking value in the description, then
// the default.
func resolveDuration(namespaced, generic, description string) string {
	if namespaced != "" {
		return namespaced
	}
	if generic != "" {
		return generic
	}
	for _, pattern := range descriptionDurationPatterns {
		if m := pattern.FindStringSubmatch(description); m != nil {
			return m[1]
		}
	}
	return models.DefaultDuration
}

func parseUniversal(data []byte) ([]models.Episode, error) {
	parsed, err := gofeed.NewParser().ParseString(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	episodes := make([]models.Episode, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}

		raw := rawEpisode{
			guid:        item.GUID,
			title:       strings.TrimSpace(item.Title),
			description: strings.TrimSpace(item.Description),
			link:        item.Link,
			pubDate:     item.Published,
		}
		if raw.description == "" {
			raw.description = strings.TrimSpace(item.Content)
		}
		if len(item.Enclosures) > 0 && item.Enclosures[0] != nil {
			raw.audioURL = item.Enclosures[0].URL
		}
		raw.mediaURL = raw.audioURL
		if raw.mediaURL == "" {
			if contents := item.Extensions["media"]["content"]; len(contents) > 0 {
				raw.mediaURL = contents[0].Attrs["url"]
			}
		}

		var namespaced string
		if item.ITunesExt != nil {
			namespaced = item.ITunesExt.Duration
		}
		raw.duration = resolveDuration(namespaced, "", raw.description)

		episodes = append(episodes, buildEpisode(raw))
	}

	if len(episodes) == 0 {
		return nil, ErrNoItems
	}
	return episodes, nil
}
