package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/secondbrain/internal/models"
)

func sampleNotes() []models.Note {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return []models.Note{
		{
			ID:         "b",
			Title:      "Daily Reflection",
			Content:    "Taking breaks.",
			Tags:       []string{"personal"},
			Category:   models.CategoryPersonal,
			CreatedAt:  base.Add(time.Hour),
			IsFavorite: false,
		},
		{
			ID:         "a",
			Title:      "Understanding React Hooks",
			Content:    "See https://youtu.be/dQw4w9WgXcQ",
			Tags:       []string{"react", "programming"},
			Category:   models.CategoryTechnology,
			CreatedAt:  base,
			IsFavorite: true,
			Links: []models.Link{{
				Kind:         models.LinkYouTube,
				URL:          "https://youtu.be/dQw4w9WgXcQ",
				EmbedID:      "dQw4w9WgXcQ",
				ThumbnailURL: "https://img.youtube.com/vi/dQw4w9WgXcQ/mqdefault.jpg",
				Title:        "YouTube Video",
			}},
		},
	}
}

// assertSameNotes compares by id, ignoring order and time zones.
func assertSameNotes(t *testing.T, got, want []models.Note) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	byID := make(map[string]models.Note, len(got))
	for _, n := range got {
		byID[n.ID] = n
	}
	for _, w := range want {
		g, ok := byID[w.ID]
		if !ok {
			t.Errorf("note %q missing", w.ID)
			continue
		}
		if g.Title != w.Title || g.Content != w.Content || g.Category != w.Category || g.IsFavorite != w.IsFavorite {
			t.Errorf("note %q = %+v, want %+v", w.ID, g, w)
		}
		if !g.CreatedAt.Equal(w.CreatedAt) {
			t.Errorf("note %q created = %v, want %v", w.ID, g.CreatedAt, w.CreatedAt)
		}
		if len(g.Tags) != len(w.Tags) {
			t.Errorf("note %q tags = %v, want %v", w.ID, g.Tags, w.Tags)
		}
		if len(g.Links) != len(w.Links) {
			t.Errorf("note %q links = %+v, want %+v", w.ID, g.Links, w.Links)
		} else {
			for i := range w.Links {
				if g.Links[i] != w.Links[i] {
					t.Errorf("note %q link %d = %+v, want %+v", w.ID, i, g.Links[i], w.Links[i])
				}
			}
		}
	}
}

func roundTrip(t *testing.T, p Provider) {
	t.Helper()
	notes := sampleNotes()
	if err := p.Save(notes); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := p.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertSameNotes(t, got, notes)

	// Removing a note and toggling another is reflected on the next load.
	notes[1].IsFavorite = false
	if err := p.Save(notes[1:]); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = p.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertSameNotes(t, got, notes[1:])
}

func TestMemory_RoundTrip(t *testing.T) {
	m := NewMemory()
	roundTrip(t, m)
	if m.Saves() != 2 {
		t.Errorf("saves = %d, want 2", m.Saves())
	}
}

func TestMemory_LoadIsIsolated(t *testing.T) {
	m := NewMemory(sampleNotes()...)
	got, _ := m.Load()
	got[0].Tags[0] = "mutated"
	again, _ := m.Load()
	if again[0].Tags[0] != "personal" {
		t.Errorf("load shares slices with provider: %v", again[0].Tags)
	}
}

func TestSQLite_RoundTrip(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "notes.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	roundTrip(t, db)
}

func TestSQLite_EmptyLoad(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "notes.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	got, err := db.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestSQLite_TagsNeverNil(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "notes.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	n := sampleNotes()[0]
	n.Tags = nil
	if err := db.Save([]models.Note{n}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := db.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got[0].Tags == nil || len(got[0].Tags) != 0 {
		t.Errorf("tags = %#v, want empty non-nil", got[0].Tags)
	}
}
