package linkdetect

import "github.com/starford/secondbrain/internal/models"

// Merge returns primary followed by the hints whose URL is not already
// present. Duplicate URLs within either input are dropped too, so the result
// never lists a URL twice.
func Merge(primary, hints []models.Link) []models.Link {
	seen := make(map[string]struct{}, len(primary)+len(hints))
	out := make([]models.Link, 0, len(primary)+len(hints))
	for _, group := range [][]models.Link{primary, hints} {
		for _, l := range group {
			if _, dup := seen[l.URL]; dup {
				continue
			}
			seen[l.URL] = struct{}{}
			out = append(out, l)
		}
	}
	return out
}

// ForNote re-derives the links in a note's content and merges in any
// pre-attached links.
func ForNote(n models.Note) []models.Link {
	return Merge(Detect(n.Content), n.Links)
}
