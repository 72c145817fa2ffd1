package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/secondbrain/internal/index"
	"github.com/starford/secondbrain/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes filtered by term and tag, one page at a time
//	@Tags			notes
//	@Produce		json
//	@Param			q			query		string	false	"Case-insensitive term matched against title and content"
//	@Param			tag			query		string	false	"Exact tag filter"
//	@Param			page		query		int		false	"1-based page"	default(1)
//	@Param			page_size	query		int		false	"Page size"
//	@Success		200			{object}	NoteListResponse
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := 1
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("page must be an integer"))
			return
		}
		page = n
	}
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	list, err := h.svc.ListNotes(r.Context(), index.Search{Term: q.Get("q"), Tag: q.Get("tag")}, page, pageSize)
	if err != nil {
		writeError(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetNote handles GET /api/notes/{id}.
//
//	@Summary		Get a single note with its link previews
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{object}	NoteDetail
//	@Failure		404	{object}	errResponse
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.GetNote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Create a new note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNoteRequest	true	"Note to create"
//	@Success		201		{object}	NoteDetail
//	@Failure		400		{object}	errResponse
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	note, err := h.svc.CreateNote(r.Context(), req)
	if err != nil && note.ID == "" {
		writeError(w, "create note", err)
		return
	}
	if err != nil {
		// Kept in memory; the save is retried on the next mutation.
		slog.Warn("note created but not persisted", slog.String("id", note.ID), slog.String("error", err.Error()))
	}
	detail, err := h.svc.GetNote(r.Context(), note.ID)
	if err != nil {
		writeError(w, "create note", err)
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

// DeleteNote handles DELETE /api/notes/{id}. Unknown ids also return 204.
//
//	@Summary		Delete a note
//	@Tags			notes
//	@Param			id	path	string	true	"Note id"
//	@Success		204	"Note deleted"
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteNote(r.Context(), id); err != nil {
		slog.Warn("note deleted but not persisted", slog.String("id", id), slog.String("error", err.Error()))
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleFavorite handles POST /api/notes/{id}/favorite.
//
//	@Summary		Flip the favorite flag of a note
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{object}	NoteDetail
//	@Failure		404	{object}	errResponse
//	@Router			/notes/{id}/favorite [post]
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	note, err := h.svc.ToggleFavorite(r.Context(), id)
	if err != nil && note.ID == "" {
		writeError(w, "toggle favorite", err)
		return
	}
	if err != nil {
		slog.Warn("favorite toggled but not persisted", slog.String("id", id), slog.String("error", err.Error()))
	}
	detail, err := h.svc.GetNote(r.Context(), id)
	if err != nil {
		writeError(w, "toggle favorite", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Tags handles GET /api/tags.
//
//	@Summary		List tags, or rank them against a partial query
//	@Tags			tags
//	@Produce		json
//	@Param			q		query		string	false	"Partial tag for fuzzy suggestions"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	TagsResponse
//	@Router			/tags [get]
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	tags := h.svc.SuggestTags(r.Context(), r.URL.Query().Get("q"), limit)
	writeJSON(w, http.StatusOK, TagsResponse{Tags: tags})
}

// Stats handles GET /api/stats.
//
//	@Summary		Collection counters
//	@Tags			notes
//	@Produce		json
//	@Success		200	{object}	StatsResponse
//	@Router			/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Stats(r.Context()))
}

// DetectLinks handles POST /api/links/detect.
//
//	@Summary		Detect YouTube and Twitter/X links in free text
//	@Tags			links
//	@Accept			json
//	@Produce		json
//	@Param			body	body		DetectLinksRequest	true	"Text to scan"
//	@Success		200		{object}	DetectLinksResponse
//	@Failure		400		{object}	errResponse
//	@Router			/links/detect [post]
func (h *Handler) DetectLinks(w http.ResponseWriter, r *http.Request) {
	var req DetectLinksRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.DetectLinks(req.Text))
}

// Share handles POST /api/share.
//
//	@Summary		Generate a share link for one note or the whole collection
//	@Tags			share
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ShareRequest	true	"Share options"
//	@Success		201		{object}	ShareResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Router			/share [post]
func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	var req ShareRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	link, err := h.svc.ShareLink(r.Context(), req)
	if err != nil {
		writeError(w, "share", err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}
