package tui_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/secondbrain/internal/models"
	"github.com/starford/secondbrain/internal/noteservice"
	"github.com/starford/secondbrain/internal/notestore"
	"github.com/starford/secondbrain/internal/storage"
	"github.com/starford/secondbrain/internal/tui"
)

// newService returns a service holding n notes. Every even note is tagged
// "work", every third "go".
func newService(t *testing.T, n int) *noteservice.Service {
	t.Helper()
	seq := 0
	clock := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store := notestore.New(
		notestore.WithIDGenerator(func() string { seq++; return fmt.Sprintf("n%d", seq) }),
		notestore.WithClock(func() time.Time { clock = clock.Add(time.Hour); return clock }),
	)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := noteservice.NewService(store, storage.NewMemory(), logger)

	for i := 1; i <= n; i++ {
		var tags []string
		if i%2 == 0 {
			tags = append(tags, "work")
		}
		if i%3 == 0 {
			tags = append(tags, "go")
		}
		_, err := svc.CreateNote(context.Background(), models.Draft{
			Title:    fmt.Sprintf("Note %d", i),
			Content:  fmt.Sprintf("body of note %d", i),
			Tags:     tags,
			Category: models.CategoryTechnology,
		})
		if err != nil {
			t.Fatalf("create note %d: %v", i, err)
		}
	}
	return svc
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, app tui.App, msgs ...tea.KeyMsg) tui.App {
	t.Helper()
	for _, msg := range msgs {
		updated, _ := app.Update(msg)
		app = updated.(tui.App)
	}
	return app
}

func typeText(t *testing.T, app tui.App, text string) tui.App {
	t.Helper()
	for _, r := range text {
		app = press(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return app
}

func TestApp_Navigation_JK(t *testing.T) {
	app := tui.NewApp(tui.AppParams{Service: newService(t, 2)})

	if app.Cursor() != 0 {
		t.Errorf("expected initial cursor 0, got %d", app.Cursor())
	}

	app = press(t, app, runes("j"))
	if app.Cursor() != 1 {
		t.Errorf("after j, expected cursor 1, got %d", app.Cursor())
	}

	// j at the bottom stays put
	app = press(t, app, runes("j"))
	if app.Cursor() != 1 {
		t.Errorf("j at bottom should stay at 1, got %d", app.Cursor())
	}

	app = press(t, app, runes("k"), runes("k"))
	if app.Cursor() != 0 {
		t.Errorf("k at top should stay at 0, got %d", app.Cursor())
	}
}

func TestApp_Paging(t *testing.T) {
	app := tui.NewApp(tui.AppParams{Service: newService(t, 8), PageSize: 3})

	page := app.Page()
	if page.Page != 1 || page.TotalPages != 3 {
		t.Fatalf("page = %d/%d, want 1/3", page.Page, page.TotalPages)
	}
	if page.Notes[0].Title != "Note 8" {
		t.Errorf("first note = %q, want newest %q", page.Notes[0].Title, "Note 8")
	}

	app = press(t, app, runes("j"), runes("n"))
	if app.Page().Page != 2 {
		t.Errorf("after n, page = %d, want 2", app.Page().Page)
	}
	if app.Cursor() != 0 {
		t.Errorf("cursor should reset on page change, got %d", app.Cursor())
	}

	app = press(t, app, runes("n"), runes("n"))
	if app.Page().Page != 3 {
		t.Errorf("next past the last page should stay on 3, got %d", app.Page().Page)
	}
	if len(app.Page().Notes) != 2 {
		t.Errorf("last page has %d notes, want 2", len(app.Page().Notes))
	}

	app = press(t, app, runes("p"))
	if app.Page().Page != 2 {
		t.Errorf("after p, page = %d, want 2", app.Page().Page)
	}
}

func TestApp_Search(t *testing.T) {
	app := tui.NewApp(tui.AppParams{Service: newService(t, 12), PageSize: 3})
	app = press(t, app, runes("n"))

	app = press(t, app, runes("/"))
	if app.Mode() != tui.ModeSearch {
		t.Fatalf("mode = %v, want ModeSearch", app.Mode())
	}

	app = typeText(t, app, "note 1")
	if got := app.Session().Search().Term; got != "note 1" {
		t.Errorf("term = %q, want %q", got, "note 1")
	}
	if app.Session().Page() != 1 {
		t.Errorf("search should reset to page 1, got %d", app.Session().Page())
	}
	// Note 1, Note 10, Note 11, Note 12
	if app.Page().Total != 4 {
		t.Errorf("total = %d, want 4", app.Page().Total)
	}

	app = press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.Mode() != tui.ModeList {
		t.Errorf("enter should leave search mode, got %v", app.Mode())
	}
	if app.Session().Search().Term != "note 1" {
		t.Error("leaving search mode should keep the term")
	}
}

func TestApp_TagFilter(t *testing.T) {
	app := tui.NewApp(tui.AppParams{Service: newService(t, 6)})

	app = press(t, app, runes("t"))
	if app.Mode() != tui.ModeTag {
		t.Fatalf("mode = %v, want ModeTag", app.Mode())
	}
	if len(app.Suggestions()) != 2 {
		t.Errorf("empty query should suggest every tag, got %v", app.Suggestions())
	}

	app = typeText(t, app, "wor")
	if s := app.Suggestions(); len(s) != 1 || s[0] != "work" {
		t.Fatalf("suggestions = %v, want [work]", s)
	}

	app = press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if got := app.Session().Search().Tag; got != "work" {
		t.Errorf("tag = %q, want %q", got, "work")
	}
	if app.Page().Total != 3 {
		t.Errorf("total = %d, want 3 notes tagged work", app.Page().Total)
	}
	// Tags stay computed over the whole collection.
	if len(app.Page().Tags) != 2 {
		t.Errorf("tags = %v, want both tags", app.Page().Tags)
	}

	app = press(t, app, runes("c"))
	if !app.Session().Search().IsZero() {
		t.Errorf("c should clear filters, got %+v", app.Session().Search())
	}
}

func TestApp_TagFilter_EscCancels(t *testing.T) {
	app := tui.NewApp(tui.AppParams{Service: newService(t, 4)})

	app = press(t, app, runes("t"))
	app = typeText(t, app, "work")
	app = press(t, app, tea.KeyMsg{Type: tea.KeyEsc})

	if app.Mode() != tui.ModeList {
		t.Errorf("esc should return to list mode, got %v", app.Mode())
	}
	if app.Session().Search().Tag != "" {
		t.Errorf("esc should not apply a tag, got %q", app.Session().Search().Tag)
	}
}

func TestApp_Favorite(t *testing.T) {
	svc := newService(t, 3)
	app := tui.NewApp(tui.AppParams{Service: svc})

	app = press(t, app, runes("j"), runes("f"))

	id := app.Page().Notes[1].ID
	detail, err := svc.GetNote(context.Background(), id)
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if !detail.IsFavorite {
		t.Error("f should mark the selected note as favorite")
	}
	if app.Status() != "Added to favorites" {
		t.Errorf("status = %q", app.Status())
	}

	app = press(t, app, runes("f"))
	if app.Page().Notes[1].IsFavorite {
		t.Error("second f should clear the favorite flag")
	}
}

func TestApp_Delete_RequiresConfirm(t *testing.T) {
	svc := newService(t, 3)
	app := tui.NewApp(tui.AppParams{Service: svc})

	app = press(t, app, runes("d"))
	if app.Mode() != tui.ModeConfirmDelete {
		t.Fatalf("mode = %v, want ModeConfirmDelete", app.Mode())
	}

	app = press(t, app, runes("x"))
	if app.Mode() != tui.ModeList {
		t.Errorf("any other key should cancel, mode = %v", app.Mode())
	}
	if got := len(svc.Notes(context.Background())); got != 3 {
		t.Errorf("cancelled delete removed a note, %d left", got)
	}

	app = press(t, app, runes("d"), runes("y"))
	notes := svc.Notes(context.Background())
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes after delete, got %d", len(notes))
	}
	for _, n := range notes {
		if n.Title == "Note 3" {
			t.Error("the selected note should be deleted")
		}
	}
	if len(app.Page().Notes) != 2 {
		t.Errorf("view should refresh after delete, got %d notes", len(app.Page().Notes))
	}
}

func TestApp_Delete_LastRowMovesCursor(t *testing.T) {
	app := tui.NewApp(tui.AppParams{Service: newService(t, 2)})

	app = press(t, app, runes("j"), runes("d"), tea.KeyMsg{Type: tea.KeyEnter})
	if app.Cursor() != 0 {
		t.Errorf("cursor should move up after deleting the last row, got %d", app.Cursor())
	}
}

func TestApp_Share_CopiesLink(t *testing.T) {
	var copied string
	app := tui.NewApp(tui.AppParams{
		Service: newService(t, 1),
		Copy:    func(s string) error { copied = s; return nil },
	})

	app = press(t, app, runes("s"))

	if !strings.HasPrefix(copied, noteservice.DefaultShareBaseURL+"/shared/") {
		t.Errorf("copied = %q, want a share URL", copied)
	}
	if app.Status() != "Share link copied to clipboard" {
		t.Errorf("status = %q", app.Status())
	}
}

func TestApp_Share_ClipboardFailureShowsURL(t *testing.T) {
	app := tui.NewApp(tui.AppParams{
		Service: newService(t, 1),
		Copy:    func(string) error { return errors.New("no clipboard") },
	})

	app = press(t, app, runes("s"))

	if !strings.HasPrefix(app.Status(), "Share link: "+noteservice.DefaultShareBaseURL) {
		t.Errorf("status = %q, want the URL inline", app.Status())
	}
}

func TestApp_Quit(t *testing.T) {
	app := tui.NewApp(tui.AppParams{Service: newService(t, 1)})

	_, cmd := app.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestApp_View(t *testing.T) {
	app := tui.NewApp(tui.AppParams{Service: newService(t, 2)})

	out := app.View()
	for _, want := range []string{"Second Brain", "Note 2", "Note 1", "page 1/1"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestApp_View_Empty(t *testing.T) {
	app := tui.NewApp(tui.AppParams{Service: newService(t, 0)})

	if !strings.Contains(app.View(), "No notes yet.") {
		t.Error("empty collection should render the empty state")
	}
}
