package models

import (
	"strings"
	"unicode"
)

// Slugify derives the URL identifier for an episode title.
//
// The title is lowercased, every character other than a-z, 0-9, whitespace
// and '-' is dropped, whitespace runs become a single hyphen, repeated
// hyphens collapse and hyphens at either end are trimmed. Dropped characters
// are removed, not replaced, so "Q&A" becomes "qa".
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingHyphen = true
		}
	}

	return b.String()
}

// EpisodeSlug is Slugify with the guid fallback used for titles that contain
// no slug-safe characters at all.
func EpisodeSlug(title, guid string) string {
	if slug := Slugify(title); slug != "" {
		return slug
	}
	if slug := Slugify(guid); slug != "" {
		return "episode-" + slug
	}
	return "episode"
}

// DespaceSlug turns a slug back into the space separated form used for
// loose title matching.
func DespaceSlug(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}
