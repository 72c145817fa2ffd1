// Package models defines the domain types for secondbrain.
package models

import "time"

// Note is one captured piece of knowledge.
type Note struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Tags       []string  `json:"tags"`
	Category   Category  `json:"category"`
	CreatedAt  time.Time `json:"created_at"`
	IsFavorite bool      `json:"is_favorite"`
	// Links are pre-attached descriptors. They are a hint only; links found in
	// Content are re-derived at read time.
	Links []Link `json:"links,omitempty"`
}

// HasTag reports whether the note carries tag (exact match).
func (n Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a copy of n that shares no slices with it.
func (n Note) Clone() Note {
	c := n
	if n.Tags != nil {
		c.Tags = append(make([]string, 0, len(n.Tags)), n.Tags...)
	}
	if n.Links != nil {
		c.Links = append(make([]Link, 0, len(n.Links)), n.Links...)
	}
	return c
}

// Draft holds the caller-supplied fields for a new note.
type Draft struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	Category   Category `json:"category"`
	Links      []Link   `json:"links,omitempty"`
	IsFavorite bool     `json:"is_favorite"`
	// LinkInput is free text scanned for links together with Content.
	LinkInput string `json:"link_input,omitempty"`
}
