package noteservice

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/starford/secondbrain/internal/apperr"
)

// DefaultShareBaseURL prefixes share links when none is configured.
const DefaultShareBaseURL = "http://localhost:8080"

// Visibility says who a share link is meant for. It is descriptive only.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// Share scopes.
const (
	ScopeNote  = "note"
	ScopeBrain = "brain"
)

// ShareRequest asks for a link to one note, or to every note when NoteID is empty.
type ShareRequest struct {
	NoteID     string     `json:"note_id"`
	Visibility Visibility `json:"visibility"`
	// Emails is a comma separated recipient list.
	Emails  string `json:"emails"`
	Message string `json:"message"`
}

// ShareLink describes a generated link. Nothing enforces it.
type ShareLink struct {
	URL        string     `json:"url"`
	Visibility Visibility `json:"visibility"`
	Recipients []string   `json:"recipients"`
	Message    string     `json:"message,omitempty"`
	Scope      string     `json:"scope"`
	NoteID     string     `json:"note_id,omitempty"`
}

// ShareLink validates req and builds a link of the form <base>/shared/<token>.
// Visibility defaults to private.
func (s *Service) ShareLink(_ context.Context, req ShareRequest) (*ShareLink, error) {
	if req.Visibility == "" {
		req.Visibility = VisibilityPrivate
	}
	link := &ShareLink{
		Visibility: req.Visibility,
		Recipients: splitEmails(req.Emails),
		Message:    strings.TrimSpace(req.Message),
		Scope:      ScopeBrain,
	}

	err := validation.ValidateStruct(link,
		validation.Field(&link.Visibility, validation.In(VisibilityPrivate, VisibilityPublic).
			Error("must be public or private")),
		validation.Field(&link.Recipients, validation.Each(is.Email)),
	)
	if err != nil {
		if fields, ok := err.(validation.Errors); ok {
			return nil, apperr.NewValidationError(fields)
		}
		return nil, err
	}

	if id := strings.TrimSpace(req.NoteID); id != "" {
		if _, err := s.store.Get(id); err != nil {
			return nil, err
		}
		link.Scope = ScopeNote
		link.NoteID = id
	}

	link.URL = strings.TrimRight(s.shareBaseURL, "/") + "/shared/" + s.newToken()
	return link, nil
}

func splitEmails(raw string) []string {
	out := []string{}
	for _, e := range strings.Split(raw, ",") {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

func newShareToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
