// Package browse holds the interactive browsing state over a note collection:
// search term, tag filter and current page.
package browse

import (
	"github.com/starford/secondbrain/internal/index"
	"github.com/starford/secondbrain/internal/models"
	"github.com/starford/secondbrain/internal/paginate"
)

// DefaultPageSize matches the grid of the web client.
const DefaultPageSize = 6

// Session is not safe for concurrent use; each surface owns its own.
type Session struct {
	search   index.Search
	page     int
	pageSize int
}

// View is what a surface renders for the current state.
type View struct {
	Notes      []models.Note
	Tags       []string
	Page       int
	TotalPages int
	// Total counts notes matching the filters across all pages.
	Total int
	// Filtered reports whether a term or tag narrows the collection.
	Filtered bool
}

// NewSession starts on page 1 with no filters. pageSize <= 0 uses DefaultPageSize.
func NewSession(pageSize int) *Session {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Session{page: 1, pageSize: pageSize}
}

// Search returns the active term and tag filter.
func (s *Session) Search() index.Search { return s.search }

// Page returns the current 1-based page.
func (s *Session) Page() int { return s.page }

// PageSize returns the number of notes per page.
func (s *Session) PageSize() int { return s.pageSize }

// SetTerm changes the search term. Any change returns to page 1.
func (s *Session) SetTerm(term string) {
	if term == s.search.Term {
		return
	}
	s.search.Term = term
	s.page = 1
}

// SetTag changes the tag filter. Any change returns to page 1.
func (s *Session) SetTag(tag string) {
	if tag == s.search.Tag {
		return
	}
	s.search.Tag = tag
	s.page = 1
}

// ToggleTag selects tag, or clears the filter when tag is already selected.
func (s *Session) ToggleTag(tag string) {
	if s.search.Tag == tag {
		s.SetTag("")
		return
	}
	s.SetTag(tag)
}

// ClearFilters drops term and tag, returning to page 1 if either was set.
func (s *Session) ClearFilters() {
	s.SetTerm("")
	s.SetTag("")
}

// SetPage moves to page. Values below 1 become 1; the upper bound is applied by View.
func (s *Session) SetPage(page int) {
	s.page = max(page, 1)
}

// NextPage advances one page. View clamps it to the last page.
func (s *Session) NextPage() { s.page++ }

// PrevPage goes back one page, stopping at 1.
func (s *Session) PrevPage() { s.SetPage(s.page - 1) }

// View filters and paginates notes. The page is clamped into range first and
// the clamped value is kept.
func (s *Session) View(notes []models.Note) View {
	res := index.Query(notes, s.search)
	total := paginate.TotalPages(len(res.Notes), s.pageSize)
	s.page = paginate.Clamp(s.page, total)
	p := paginate.Paginate(res.Notes, s.pageSize, s.page)
	return View{
		Notes:      p.Items,
		Tags:       res.Tags,
		Page:       p.Page,
		TotalPages: p.TotalPages,
		Total:      p.Total,
		Filtered:   !s.search.IsZero(),
	}
}
