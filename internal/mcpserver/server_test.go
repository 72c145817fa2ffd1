package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/secondbrain/internal/noteservice"
	"github.com/starford/secondbrain/internal/testutil"
)

func testServer(t *testing.T) (*Server, *noteservice.Service) {
	t.Helper()
	svc := testutil.TestService(t, nil)
	return New(svc), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no in-process "call tool" helper, so handlers are called directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_notes":
		result, err = srv.searchNotes(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "create_note":
		result, err = srv.createNote(ctx, req)
	case "delete_note":
		result, err = srv.deleteNote(ctx, req)
	case "toggle_favorite":
		result, err = srv.toggleFavorite(ctx, req)
	case "list_tags":
		result, err = srv.listTags(ctx, req)
	case "detect_links":
		result, err = srv.detectLinks(ctx, req)
	case "get_note_contract":
		result, err = srv.getNoteContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func createdID(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	text := resultText(r)
	if r.IsError || !strings.HasPrefix(text, "created: ") {
		t.Fatalf("create result = %q", text)
	}
	return strings.TrimPrefix(text, "created: ")
}

func TestCreateAndReadNote(t *testing.T) {
	srv, _ := testServer(t)

	id := createdID(t, callTool(t, srv, "create_note", map[string]any{
		"title":    "Test",
		"content":  "Hello https://youtu.be/dQw4w9WgXcQ",
		"category": "technology",
		"tags":     "go, mcp,",
		"links":    "https://x.com/a/status/5",
	}))

	r := callTool(t, srv, "read_note", map[string]any{"id": id})
	var note noteservice.NoteDetail
	if err := json.Unmarshal([]byte(resultText(r)), &note); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if note.Title != "Test" {
		t.Errorf("title = %q", note.Title)
	}
	if len(note.Tags) != 2 || note.Tags[0] != "go" || note.Tags[1] != "mcp" {
		t.Errorf("tags = %v", note.Tags)
	}
	if len(note.Links) != 2 {
		t.Errorf("links = %+v", note.Links)
	}
}

func TestCreateNote_Invalid(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_note", map[string]any{"title": "t", "content": "c", "category": "Cooking"})
	if !r.IsError {
		t.Error("expected error for unknown category")
	}
	r = callTool(t, srv, "create_note", map[string]any{"title": " ", "content": "c", "category": "Other"})
	if !r.IsError {
		t.Error("expected error for blank title")
	}
	r = callTool(t, srv, "create_note", map[string]any{"content": "c", "category": "Other"})
	if !r.IsError {
		t.Error("expected error for missing title")
	}
}

func TestSearchNotes(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "create_note", map[string]any{"title": "Go tips", "content": "x", "category": "Technology", "tags": "go"})
	callTool(t, srv, "create_note", map[string]any{"title": "Garden", "content": "tomatoes", "category": "Personal"})

	r := callTool(t, srv, "search_notes", map[string]any{"query": "TOMATO"})
	var list noteservice.NoteList
	if err := json.Unmarshal([]byte(resultText(r)), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Total != 1 || list.Notes[0].Title != "Garden" {
		t.Errorf("list = %+v", list)
	}

	r = callTool(t, srv, "search_notes", map[string]any{"tag": "go"})
	_ = json.Unmarshal([]byte(resultText(r)), &list)
	if list.Total != 1 || list.Notes[0].Title != "Go tips" {
		t.Errorf("tag list = %+v", list)
	}
}

func TestReadNoteMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_note", map[string]any{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestDeleteAndFavorite(t *testing.T) {
	srv, svc := testServer(t)
	id := createdID(t, callTool(t, srv, "create_note", map[string]any{"title": "t", "content": "c", "category": "Other"}))

	r := callTool(t, srv, "toggle_favorite", map[string]any{"id": id})
	if resultText(r) != "favorite: true" {
		t.Errorf("toggle = %q", resultText(r))
	}
	r = callTool(t, srv, "toggle_favorite", map[string]any{"id": "missing"})
	if !r.IsError {
		t.Error("expected error toggling a missing note")
	}

	r = callTool(t, srv, "delete_note", map[string]any{"id": id})
	if r.IsError {
		t.Errorf("delete failed: %q", resultText(r))
	}
	r = callTool(t, srv, "delete_note", map[string]any{"id": id})
	if r.IsError {
		t.Error("second delete should not be an error")
	}
	if n := len(svc.Notes(context.Background())); n != 0 {
		t.Errorf("notes left = %d", n)
	}
}

func TestListTags(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "list_tags", map[string]any{})
	if resultText(r) != "no tags found" {
		t.Errorf("empty tags = %q", resultText(r))
	}

	callTool(t, srv, "create_note", map[string]any{"title": "t", "content": "c", "category": "Other", "tags": "design,programming"})
	r = callTool(t, srv, "list_tags", map[string]any{})
	if resultText(r) != "design\nprogramming" {
		t.Errorf("tags = %q", resultText(r))
	}
	r = callTool(t, srv, "list_tags", map[string]any{"query": "prg"})
	if resultText(r) != "programming" {
		t.Errorf("suggestions = %q", resultText(r))
	}
}

func TestDetectLinks(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "detect_links", map[string]any{"text": "https://twitter.com/a/status/1"})
	var preview noteservice.LinkPreview
	if err := json.Unmarshal([]byte(resultText(r)), &preview); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(preview.Previews) != 1 || preview.Previews[0].TweetID != "1" {
		t.Errorf("preview = %+v", preview)
	}
}

func TestNoteContract(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_note_contract", nil)
	if !strings.Contains(resultText(r), "Technology, Personal, Design") {
		t.Error("contract should list the categories")
	}

	contents, err := srv.readNoteFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != NoteFormatURI {
		t.Errorf("resource = %+v", contents[0])
	}
}
