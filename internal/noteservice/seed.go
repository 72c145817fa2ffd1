package noteservice

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/starford/secondbrain/internal/models"
	"github.com/starford/secondbrain/internal/sse"
)

func demoNotes() []models.Note {
	day := func(d int) time.Time { return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC) }
	return []models.Note{
		{
			ID:         uuid.NewString(),
			Title:      "Understanding React Hooks",
			Content:    "React Hooks allow you to use state and other React features without writing a class component. Key hooks include useState, useEffect, and useContext.",
			Tags:       []string{"react", "javascript", "programming"},
			Category:   models.CategoryTechnology,
			CreatedAt:  day(1),
			IsFavorite: true,
		},
		{
			ID:         uuid.NewString(),
			Title:      "Daily Reflection",
			Content:    "Today I learned about the importance of taking breaks during coding sessions. It helps prevent burnout and improves problem-solving abilities.",
			Tags:       []string{"personal", "productivity", "wellness"},
			Category:   models.CategoryPersonal,
			CreatedAt:  day(2),
			IsFavorite: false,
		},
		{
			ID:         uuid.NewString(),
			Title:      "Design Principles",
			Content:    "Good design is about hierarchy, contrast, balance, and movement. These principles help create visually appealing and functional interfaces.",
			Tags:       []string{"design", "ui", "principles"},
			Category:   models.CategoryDesign,
			CreatedAt:  day(3),
			IsFavorite: true,
		},
	}
}

// SeedDemo fills an empty collection with the demo notes and persists them.
// It reports whether anything was added.
func (s *Service) SeedDemo(_ context.Context) (bool, error) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if s.store.Len() > 0 {
		return false, nil
	}
	s.store.Replace(demoNotes())
	s.logger.Info("seeded demo notes", slog.Int("count", s.store.Len()))
	s.publish(sse.NotesReloaded, "")
	return true, s.persist()
}
