package models

import (
	"fmt"
	"strings"
)

// Category is the closed set of note categories. The zero value is invalid.
type Category int

// Categories.
const (
	CategoryTechnology Category = iota + 1
	CategoryPersonal
	CategoryDesign
	CategoryBusiness
	CategoryScience
	CategoryOther
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryTechnology,
	CategoryPersonal,
	CategoryDesign,
	CategoryBusiness,
	CategoryScience,
	CategoryOther,
}

// String returns the display name, or "" for an invalid category.
func (c Category) String() string {
	switch c {
	case CategoryTechnology:
		return "Technology"
	case CategoryPersonal:
		return "Personal"
	case CategoryDesign:
		return "Design"
	case CategoryBusiness:
		return "Business"
	case CategoryScience:
		return "Science"
	case CategoryOther:
		return "Other"
	}
	return ""
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c.String() != ""
}

// Color returns the palette name used to badge the category.
func (c Category) Color() string {
	switch c {
	case CategoryTechnology:
		return "blue"
	case CategoryPersonal:
		return "green"
	case CategoryDesign:
		return "purple"
	case CategoryBusiness:
		return "orange"
	case CategoryScience:
		return "teal"
	case CategoryOther:
		return "gray"
	}
	return "gray"
}

// ParseCategory resolves a display name (case-insensitive) to a Category.
func ParseCategory(s string) (Category, error) {
	name := strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(c.String(), name) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return []byte(""), nil
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty value decodes
// to the zero (invalid) category so validation can report it.
func (c *Category) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*c = 0
		return nil
	}
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
