// Package index derives the filtered, tag-aware view over a note collection.
// Everything here is a pure function of its inputs.
package index

import (
	"strings"

	"github.com/starford/secondbrain/internal/models"
)

// Search is the caller-owned query state.
type Search struct {
	// Term is matched case-insensitively against title and content.
	Term string `json:"term"`
	// Tag, when set, must be carried by the note exactly.
	Tag string `json:"tag"`
}

// IsZero reports whether s filters nothing.
func (s Search) IsZero() bool {
	return s.Term == "" && s.Tag == ""
}

// Result is the outcome of a Query.
type Result struct {
	Notes []models.Note
	// Tags holds every tag of the unfiltered input in first-seen order.
	Tags []string
}

// Query filters notes by s, preserving input order, and collects the tag set.
func Query(notes []models.Note, s Search) Result {
	term := strings.ToLower(s.Term)
	res := Result{
		Notes: make([]models.Note, 0, len(notes)),
		Tags:  AllTags(notes),
	}
	for _, n := range notes {
		if Matches(n, term, s.Tag) {
			res.Notes = append(res.Notes, n)
		}
	}
	return res
}

// Matches applies the search predicate. lowerTerm must already be lowercased.
func Matches(n models.Note, lowerTerm, tag string) bool {
	if lowerTerm != "" &&
		!strings.Contains(strings.ToLower(n.Title), lowerTerm) &&
		!strings.Contains(strings.ToLower(n.Content), lowerTerm) {
		return false
	}
	return tag == "" || n.HasTag(tag)
}

// AllTags returns the deduplicated tags of notes in first-seen order.
func AllTags(notes []models.Note) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, n := range notes {
		for _, t := range n.Tags {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
