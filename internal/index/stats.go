package index

import "github.com/starford/secondbrain/internal/models"

// Stats are the dashboard counters over a collection.
type Stats struct {
	Total     int `json:"total"`
	Favorites int `json:"favorites"`
	Tags      int `json:"tags"`
}

// ComputeStats counts notes, favorites and distinct tags.
func ComputeStats(notes []models.Note) Stats {
	st := Stats{Total: len(notes), Tags: len(AllTags(notes))}
	for _, n := range notes {
		if n.IsFavorite {
			st.Favorites++
		}
	}
	return st
}
