// Package noteservice is the single entry point the HTTP, MCP and terminal
// surfaces use to read and change the note collection.
package noteservice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/secondbrain/internal/index"
	"github.com/starford/secondbrain/internal/linkdetect"
	"github.com/starford/secondbrain/internal/models"
	"github.com/starford/secondbrain/internal/notestore"
	"github.com/starford/secondbrain/internal/paginate"
	"github.com/starford/secondbrain/internal/sse"
	"github.com/starford/secondbrain/internal/storage"
)

// DefaultPageSize is used when a list request does not name one.
const DefaultPageSize = 6

// Publisher receives note change notifications.
type Publisher interface {
	PublishNoteEvent(kind sse.NoteEventKind, id string)
}

// NoteDetail is a note with the links to display for it.
type NoteDetail struct {
	models.Note
	// Links are the detected links followed by unseen pre-attached ones.
	Links    []models.Link            `json:"links"`
	Previews []linkdetect.RenderModel `json:"previews"`
}

// NoteList is one page of a filtered listing.
type NoteList struct {
	Notes      []NoteDetail `json:"notes"`
	Tags       []string     `json:"tags"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
	Total      int          `json:"total"`
}

// LinkPreview is the result of scanning free text.
type LinkPreview struct {
	Links    []models.Link            `json:"links"`
	Previews []linkdetect.RenderModel `json:"previews"`
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher routes change notifications to p.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.pub = p }
}

// WithPageSize sets the page size used when a request passes none.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithShareBaseURL sets the prefix of generated share links.
func WithShareBaseURL(u string) Option {
	return func(s *Service) { s.shareBaseURL = u }
}

// WithTokenGenerator overrides the share token source.
func WithTokenGenerator(gen func() string) Option {
	return func(s *Service) { s.newToken = gen }
}

// Service coordinates the store, persistence and event publication.
// The in-memory store is authoritative; a failed save is logged and
// returned but not rolled back.
type Service struct {
	store    *notestore.Store
	provider storage.Provider
	logger   *slog.Logger
	pub      Publisher

	pageSize     int
	shareBaseURL string
	newToken     func() string

	// persistMu keeps snapshot-then-save atomic so saves land in mutation order.
	persistMu sync.Mutex
}

// NewService creates a note service.
func NewService(store *notestore.Store, provider storage.Provider, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:        store,
		provider:     provider,
		logger:       logger,
		pageSize:     DefaultPageSize,
		shareBaseURL: DefaultShareBaseURL,
		newToken:     newShareToken,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PageSize returns the default page size.
func (s *Service) PageSize() int { return s.pageSize }

// CreateNote stores a new note. Links found in the content and in
// d.LinkInput are attached to the note, followed by any links in d.Links.
func (s *Service) CreateNote(_ context.Context, d models.Draft) (models.Note, error) {
	d.Links = linkdetect.Merge(linkdetect.DetectCombined(d.Content, d.LinkInput), d.Links)
	if len(d.Links) == 0 {
		d.Links = nil
	}
	d.LinkInput = ""

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	n, err := s.store.Create(d)
	if err != nil {
		return models.Note{}, err
	}
	s.logger.Info("note created", slog.String("id", n.ID), slog.String("title", n.Title))
	s.publish(sse.NoteCreated, n.ID)
	return n, s.persist()
}

// DeleteNote removes a note. Deleting an unknown id succeeds and changes nothing.
func (s *Service) DeleteNote(_ context.Context, id string) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if !s.store.Delete(id) {
		return nil
	}
	s.logger.Info("note deleted", slog.String("id", id))
	s.publish(sse.NoteDeleted, id)
	return s.persist()
}

// ToggleFavorite flips the favorite flag and returns the updated note.
func (s *Service) ToggleFavorite(_ context.Context, id string) (models.Note, error) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	n, err := s.store.ToggleFavorite(id)
	if err != nil {
		return models.Note{}, err
	}
	s.publish(sse.NoteFavorited, id)
	return n, s.persist()
}

// GetNote returns one note with its display links.
func (s *Service) GetNote(_ context.Context, id string) (*NoteDetail, error) {
	n, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	d := detail(n)
	return &d, nil
}

// Notes returns a snapshot of the whole collection, newest first.
func (s *Service) Notes(_ context.Context) []models.Note {
	return s.store.All()
}

// ListNotes filters the collection and returns one page of it.
// pageSize <= 0 uses the service default.
func (s *Service) ListNotes(_ context.Context, search index.Search, page, pageSize int) (*NoteList, error) {
	if pageSize <= 0 {
		pageSize = s.pageSize
	}
	res := index.Query(s.store.All(), search)
	p := paginate.Paginate(res.Notes, pageSize, page)

	list := &NoteList{
		Notes:      make([]NoteDetail, 0, len(p.Items)),
		Tags:       res.Tags,
		Page:       p.Page,
		TotalPages: p.TotalPages,
		Total:      p.Total,
	}
	for _, n := range p.Items {
		list.Notes = append(list.Notes, detail(n))
	}
	return list, nil
}

// Tags returns every tag in first-seen order.
func (s *Service) Tags(_ context.Context) []string {
	return index.AllTags(s.store.All())
}

// SuggestTags ranks known tags against a partial query.
func (s *Service) SuggestTags(ctx context.Context, query string, limit int) []string {
	return index.SuggestTags(s.Tags(ctx), query, limit)
}

// Stats returns the collection counters.
func (s *Service) Stats(_ context.Context) index.Stats {
	return index.ComputeStats(s.store.All())
}

// DetectLinks scans text and returns the links with their render models.
func (s *Service) DetectLinks(text string) LinkPreview {
	links := linkdetect.Detect(text)
	return LinkPreview{Links: links, Previews: linkdetect.RenderAll(links)}
}

// Load replaces the in-memory collection with the persisted one. It waits
// for in-flight mutations, so no acknowledged change is overwritten.
func (s *Service) Load(_ context.Context) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	return s.load()
}

func (s *Service) load() error {
	notes, err := s.provider.Load()
	if err != nil {
		return fmt.Errorf("noteservice: load: %w", err)
	}
	s.store.Replace(notes)
	s.logger.Info("notes loaded", slog.Int("count", s.store.Len()))
	return nil
}

// Reload is Load followed by a notes.reloaded event. The storage watcher
// calls it after file events, including those caused by our own saves; a
// provider that reports no change since its last load or save is skipped.
func (s *Service) Reload(_ context.Context) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if cr, ok := s.provider.(storage.ChangeReporter); ok {
		changed, err := cr.Changed()
		if err != nil {
			s.logger.Warn("change check failed", slog.String("error", err.Error()))
		} else if !changed {
			s.logger.Debug("reload skipped, storage unchanged")
			return nil
		}
	}
	if err := s.load(); err != nil {
		s.logger.Error("reload failed", slog.String("error", err.Error()))
		return err
	}
	s.publish(sse.NotesReloaded, "")
	return nil
}

func (s *Service) persist() error {
	if err := s.provider.Save(s.store.All()); err != nil {
		s.logger.Error("persist notes", slog.String("error", err.Error()))
		return fmt.Errorf("noteservice: persist: %w", err)
	}
	return nil
}

func (s *Service) publish(kind sse.NoteEventKind, id string) {
	if s.pub != nil {
		s.pub.PublishNoteEvent(kind, id)
	}
}

func detail(n models.Note) NoteDetail {
	links := linkdetect.ForNote(n)
	return NoteDetail{
		Note:     n,
		Links:    links,
		Previews: linkdetect.RenderAll(links),
	}
}
