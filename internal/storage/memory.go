package storage

import (
	"sync"

	"github.com/starford/secondbrain/internal/models"
)

// Memory keeps the collection in process. Used for ephemeral runs and tests.
type Memory struct {
	mu    sync.Mutex
	notes []models.Note
	saves int
}

// NewMemory returns a provider preloaded with notes.
func NewMemory(notes ...models.Note) *Memory {
	m := &Memory{}
	m.notes = cloneAll(notes)
	return m
}

// Load returns a copy of the last saved collection.
func (m *Memory) Load() ([]models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneAll(m.notes), nil
}

// Save replaces the held collection with a copy of notes.
func (m *Memory) Save(notes []models.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = cloneAll(notes)
	m.saves++
	return nil
}

// Saves reports how many times Save has been called.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func cloneAll(notes []models.Note) []models.Note {
	out := make([]models.Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}
	return out
}
