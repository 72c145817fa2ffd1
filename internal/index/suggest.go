package index

import "github.com/sahilm/fuzzy"

// SuggestTags ranks tags against a partially typed query for tag pickers.
// An empty query returns the tags unchanged. limit <= 0 means no limit.
func SuggestTags(tags []string, query string, limit int) []string {
	if query == "" {
		return truncate(append([]string{}, tags...), limit)
	}
	matches := fuzzy.Find(query, tags)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Str)
	}
	return truncate(out, limit)
}

func truncate(s []string, limit int) []string {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
