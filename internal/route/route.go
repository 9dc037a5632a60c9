// Package route tracks the path of the current view. Paths have the form
// "/<show>" for a show page and "/<show>/<episode>" for an episode.
package route

import (
	"strings"
	"sync"
)

// Parse splits a path into its show and episode slugs. Either may be empty.
func Parse(path string) (show, episode string) {
	parts := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], parts[1]
	}
}

// Join builds the path for a show and, when slug is not empty, an episode.
func Join(show, slug string) string {
	if slug == "" {
		return "/" + show
	}
	return "/" + show + "/" + slug
}

// URL is the absolute address of path under origin.
func URL(origin, path string) string {
	return strings.TrimRight(origin, "/") + path
}

// Location holds the current path and the paths visited before it.
// Changing it never reloads anything; listeners decide what to render.
type Location struct {
	mu      sync.Mutex
	path    string
	history []string
}

func NewLocation(path string) *Location {
	if path == "" {
		path = "/"
	}
	return &Location{path: path}
}

func (l *Location) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

// Push moves to path, remembering the current one. Pushing the current
// path again is a no-op.
func (l *Location) Push(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if path == l.path {
		return
	}
	l.history = append(l.history, l.path)
	l.path = path
}

// Back returns to the previous path.
func (l *Location) Back() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.history) == 0 {
		return l.path, false
	}
	l.path = l.history[len(l.history)-1]
	l.history = l.history[:len(l.history)-1]
	return l.path, true
}
