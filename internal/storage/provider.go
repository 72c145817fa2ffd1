// Package storage persists the note collection.
package storage

import "github.com/starford/secondbrain/internal/models"

// Provider loads and saves the whole collection. Save receives the complete
// current collection, most recent first, and replaces what was stored.
type Provider interface {
	Load() ([]models.Note, error)
	Save(notes []models.Note) error
}

// ChangeReporter is implemented by providers that can tell whether the
// stored collection moved since their last Load or Save.
type ChangeReporter interface {
	Changed() (bool, error)
}
