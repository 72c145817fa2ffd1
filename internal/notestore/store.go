// Package notestore owns the authoritative in-memory note collection.
package notestore

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/starford/secondbrain/internal/apperr"
	"github.com/starford/secondbrain/internal/models"
)

// maxIDAttempts bounds retries when the id generator collides.
const maxIDAttempts = 8

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source used by Create.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides the identifier source used by Create.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// Store keeps notes most-recently-created first. Mutations are serialized;
// readers always receive copies.
type Store struct {
	mu    sync.RWMutex
	notes []models.Note

	now   func() time.Time
	newID func() string
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		notes: []models.Note{},
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates d, assigns an id and timestamp, and inserts the note at
// the front of the collection.
func (s *Store) Create(d models.Draft) (models.Note, error) {
	d = normalizeDraft(d)
	if err := validateDraft(d); err != nil {
		return models.Note{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for attempt := 1; s.indexOf(id) >= 0; attempt++ {
		if attempt >= maxIDAttempts {
			return models.Note{}, fmt.Errorf("notestore: no unique id after %d attempts", maxIDAttempts)
		}
		id = s.newID()
	}

	n := models.Note{
		ID:         id,
		Title:      d.Title,
		Content:    d.Content,
		Tags:       d.Tags,
		Category:   d.Category,
		CreatedAt:  s.now(),
		IsFavorite: d.IsFavorite,
		Links:      d.Links,
	}
	s.notes = append([]models.Note{n}, s.notes...)
	return n.Clone(), nil
}

// Delete removes the note with id. Unknown ids are ignored; the result
// reports whether anything was removed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.notes = append(s.notes[:i:i], s.notes[i+1:]...)
	return true
}

// ToggleFavorite flips the favorite flag of the note with id.
func (s *Store) ToggleFavorite(id string) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Note{}, apperr.ErrNotFound
	}
	s.notes[i].IsFavorite = !s.notes[i].IsFavorite
	return s.notes[i].Clone(), nil
}

// Get returns the note with id.
func (s *Store) Get(id string) (models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Note{}, apperr.ErrNotFound
	}
	return s.notes[i].Clone(), nil
}

// All returns a snapshot of every note, most-recently-created first.
func (s *Store) All() []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Note, len(s.notes))
	for i, n := range s.notes {
		out[i] = n.Clone()
	}
	return out
}

// Len returns the number of stored notes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// Replace swaps the collection for notes loaded from persistence. Notes are
// ordered newest first and later duplicates of an id are dropped.
func (s *Store) Replace(notes []models.Note) {
	seen := make(map[string]struct{}, len(notes))
	next := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if _, dup := seen[n.ID]; dup || n.ID == "" {
			continue
		}
		seen[n.ID] = struct{}{}
		next = append(next, n.Clone())
	}
	sort.SliceStable(next, func(i, j int) bool {
		return next[i].CreatedAt.After(next[j].CreatedAt)
	})

	s.mu.Lock()
	s.notes = next
	s.mu.Unlock()
}

func (s *Store) indexOf(id string) int {
	for i := range s.notes {
		if s.notes[i].ID == id {
			return i
		}
	}
	return -1
}

// normalizeDraft trims text fields and tags, dropping empty and duplicate tags.
func normalizeDraft(d models.Draft) models.Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Content = strings.TrimSpace(d.Content)
	d.Tags = NormalizeTags(d.Tags)
	if d.Links != nil {
		d.Links = append([]models.Link(nil), d.Links...)
	}
	return d
}

// NormalizeTags trims each tag and removes empty and repeated entries,
// keeping the first occurrence order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func validateDraft(d models.Draft) error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Required.Error("title is required")),
		validation.Field(&d.Content, validation.Required.Error("content is required")),
		validation.Field(&d.Category, validation.By(validCategory)),
	)
	if err == nil {
		return nil
	}
	if fields, ok := err.(validation.Errors); ok {
		return apperr.NewValidationError(fields)
	}
	return err
}

func validCategory(value interface{}) error {
	c, _ := value.(models.Category)
	if !c.Valid() {
		return validation.NewError("validation_category_invalid", "must be one of Technology, Personal, Design, Business, Science, Other")
	}
	return nil
}
