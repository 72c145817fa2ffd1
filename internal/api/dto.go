package api

import (
	"github.com/starford/secondbrain/internal/index"
	"github.com/starford/secondbrain/internal/models"
	"github.com/starford/secondbrain/internal/noteservice"
)

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest = models.Draft

// NoteDetail is a note with its display links (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// NoteListResponse is one page of notes plus the tag set of the whole collection.
type NoteListResponse = noteservice.NoteList

// TagsResponse lists tags, ranked when a query was given.
type TagsResponse struct {
	Tags []string `json:"tags" validate:"required"`
}

// StatsResponse holds the dashboard counters.
type StatsResponse = index.Stats

// DetectLinksRequest is the request body for link detection.
type DetectLinksRequest struct {
	Text string `json:"text" example:"watch https://youtu.be/dQw4w9WgXcQ"`
}

// DetectLinksResponse is the detected links with their render models.
type DetectLinksResponse = noteservice.LinkPreview

// ShareRequest is the request body for generating a share link.
type ShareRequest = noteservice.ShareRequest

// ShareResponse describes the generated share link.
type ShareResponse = noteservice.ShareLink
