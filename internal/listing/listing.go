// Package listing turns the episode list into paginated, searchable and
// filterable page views.
package listing

import (
	"fmt"
	"strings"

	"github.com/csams/nutshell/internal/models"
	"github.com/samber/lo"
)

// Filter selects a fixed slice of the episode list.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterRecent  Filter = "recent"
	FilterPopular Filter = "popular"
)

const (
	DefaultPageSize = 9
	RecentCount     = 30
	PopularCount    = 20
)

// Filters lists the filters in display order.
var Filters = []Filter{FilterAll, FilterRecent, FilterPopular}

// PageView is everything needed to draw one page of the episode listing.
type PageView struct {
	Cards   []Card
	Page    int
	Pages   int
	HasPrev bool
	HasNext bool
	Info    string
	Total   int
	Query   string
	Filter  Filter

	// Narrowed is set while a search or a non-"all" filter is active.
	Narrowed bool
}

// Empty reports whether the page has nothing to show.
func (v PageView) Empty() bool {
	return len(v.Cards) == 0
}

// Listing holds the listing state for one show. Search and filter always
// start from the full list and clear each other.
type Listing struct {
	show     models.Show
	all      []models.Episode
	narrowed []models.Episode
	pageSize int
	page     int
	query    string
	filter   Filter
}

func New(show models.Show, episodes []models.Episode, pageSize int) *Listing {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Listing{
		show:     show,
		all:      episodes,
		pageSize: pageSize,
		page:     1,
		filter:   FilterAll,
	}
}

// SetEpisodes replaces the full list and resets search, filter and page.
func (l *Listing) SetEpisodes(episodes []models.Episode) {
	l.all = episodes
	l.Reset()
}

// Reset drops any search or filter and returns to page 1.
func (l *Listing) Reset() {
	l.narrowed = nil
	l.query = ""
	l.filter = FilterAll
	l.page = 1
}

func (l *Listing) current() []models.Episode {
	if l.narrowed != nil {
		return l.narrowed
	}
	return l.all
}

// Pages is ceil(total/pageSize), and never less than 1.
func (l *Listing) Pages() int {
	return PageCount(len(l.current()), l.pageSize)
}

// PageCount is ceil(total/size), and never less than 1.
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Page returns the current page number.
func (l *Listing) Page() int {
	return l.page
}

// Query returns the active search query.
func (l *Listing) Query() string {
	return l.query
}

// Filter returns the active filter.
func (l *Listing) Filter() Filter {
	return l.filter
}

// RenderPage shows page n of the current result set. n is clamped to the
// valid range.
func (l *Listing) RenderPage(n int) PageView {
	l.page = lo.Clamp(n, 1, l.Pages())
	return l.view()
}

// Current re-renders the current page.
func (l *Listing) Current() PageView {
	return l.RenderPage(l.page)
}

// Next advances one page. On the last page it re-renders in place.
func (l *Listing) Next() PageView {
	return l.RenderPage(l.page + 1)
}

// Prev goes back one page. On page 1 it re-renders in place.
func (l *Listing) Prev() PageView {
	return l.RenderPage(l.page - 1)
}

// Search narrows the full list to episodes whose title or description
// contains query, ignoring case. A blank query resets to page 1 of the full
// list. Any active filter is cleared.
func (l *Listing) Search(query string) PageView {
	l.filter = FilterAll
	l.page = 1

	if strings.TrimSpace(query) == "" {
		l.query = ""
		l.narrowed = nil
		return l.view()
	}

	l.query = query
	needle := strings.ToLower(query)
	l.narrowed = lo.Filter(l.all, func(e models.Episode, _ int) bool {
		return strings.Contains(strings.ToLower(e.Title), needle) ||
			strings.Contains(strings.ToLower(e.Description), needle)
	})
	return l.view()
}

// ApplyFilter narrows the full list to a fixed slice and clears any search.
// Unknown names behave like FilterAll.
func (l *Listing) ApplyFilter(f Filter) PageView {
	l.query = ""
	l.page = 1

	switch f {
	case FilterRecent:
		l.filter = FilterRecent
		l.narrowed = l.all[:min(RecentCount, len(l.all))]
	case FilterPopular:
		l.filter = FilterPopular
		l.narrowed = l.all[:min(PopularCount, len(l.all))]
	default:
		l.filter = FilterAll
		l.narrowed = nil
	}
	return l.view()
}

func (l *Listing) view() PageView {
	episodes := l.current()
	pages := l.Pages()

	start := (l.page - 1) * l.pageSize
	end := min(start+l.pageSize, len(episodes))
	if start > end {
		start = end
	}

	cards := make([]Card, 0, end-start)
	for _, ep := range episodes[start:end] {
		cards = append(cards, NewCard(l.show, ep, l.query))
	}

	v := PageView{
		Cards:    cards,
		Page:     l.page,
		Pages:    pages,
		HasPrev:  l.page > 1,
		HasNext:  l.page < pages,
		Total:    len(episodes),
		Query:    l.query,
		Filter:   l.filter,
		Narrowed: l.narrowed != nil,
	}

	v.Info = fmt.Sprintf("Page %d of %d", v.Page, v.Pages)
	if v.Narrowed {
		v.Info += fmt.Sprintf(" (%d results)", v.Total)
	}
	return v
}
