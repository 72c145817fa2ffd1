// Package paginate slices ordered collections into fixed-size pages.
package paginate

// Page is one window over a collection.
type Page[T any] struct {
	Items []T
	// Page is the requested 1-based page number, echoed back unchanged.
	Page int
	// TotalPages is at least 1, even for an empty collection.
	TotalPages int
	// Total is the size of the whole collection.
	Total int
}

// Paginate returns page (1-based) of items. Pages outside [1, TotalPages]
// yield no items. A pageSize <= 0 puts everything on a single page.
func Paginate[T any](items []T, pageSize, page int) Page[T] {
	p := Page[T]{
		Items:      []T{},
		Page:       page,
		TotalPages: TotalPages(len(items), pageSize),
		Total:      len(items),
	}
	if pageSize <= 0 {
		if page == 1 {
			p.Items = append(p.Items, items...)
		}
		return p
	}
	if page < 1 || page > p.TotalPages {
		return p
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return p
	}
	end := min(start+pageSize, len(items))
	p.Items = append(p.Items, items[start:end]...)
	return p
}

// TotalPages is ceil(n/pageSize), never less than 1.
func TotalPages(n, pageSize int) int {
	if n == 0 || pageSize <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// Clamp moves page into [1, totalPages].
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	switch {
	case page < 1:
		return 1
	case page > totalPages:
		return totalPages
	default:
		return page
	}
}
