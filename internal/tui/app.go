// Package tui is a terminal browser for the note collection.
package tui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/secondbrain/internal/browse"
	"github.com/starford/secondbrain/internal/noteservice"
)

// Mode is what keystrokes currently drive.
type Mode int

const (
	ModeList Mode = iota
	ModeSearch
	ModeTag
	ModeConfirmDelete
)

const maxTagSuggestions = 5

// App is the main bubbletea model for the note browser.
type App struct {
	ctx     context.Context
	svc     *noteservice.Service
	session *browse.Session
	keys    KeyMap
	styles  Styles
	help    help.Model
	copy    func(string) error

	mode        Mode
	searchInput textinput.Model
	tagInput    textinput.Model
	suggestions []string
	suggestIdx  int

	view   browse.View
	cursor int
	status string
	err    error

	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Context  context.Context // optional, defaults to context.Background()
	Service  *noteservice.Service
	PageSize int     // optional, defaults to the service page size
	Keys     *KeyMap // optional, uses default if nil
	Styles   *Styles // optional, uses default if nil
	// Copy writes to the system clipboard. Defaults to atotto/clipboard.
	Copy func(string) error
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}
	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}
	ctx := params.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = params.Service.PageSize()
	}
	copyFn := params.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	searchInput := textinput.New()
	searchInput.Placeholder = "Search notes..."
	searchInput.Prompt = "/ "
	searchInput.CharLimit = 200

	tagInput := textinput.New()
	tagInput.Placeholder = "Tag..."
	tagInput.Prompt = "# "
	tagInput.CharLimit = 100

	app := App{
		ctx:         ctx,
		svc:         params.Service,
		session:     browse.NewSession(pageSize),
		keys:        keys,
		styles:      styles,
		help:        help.New(),
		copy:        copyFn,
		searchInput: searchInput,
		tagInput:    tagInput,
		width:       80,
		height:      24,
	}
	app.refresh()
	return app
}

// refresh recomputes the visible page and keeps the cursor on it.
func (a *App) refresh() {
	a.view = a.session.View(a.svc.Notes(a.ctx))
	if a.cursor >= len(a.view.Notes) {
		a.cursor = len(a.view.Notes) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// Cursor returns the selected row on the current page.
func (a App) Cursor() int { return a.cursor }

// Mode returns the current input mode.
func (a App) Mode() Mode { return a.mode }

// Page returns what is currently displayed.
func (a App) Page() browse.View { return a.view }

// Session returns the browsing state.
func (a App) Session() *browse.Session { return a.session }

// Status returns the last status line message.
func (a App) Status() string { return a.status }

// Suggestions returns the tag suggestions shown in tag mode.
func (a App) Suggestions() []string { return a.suggestions }

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		return a, nil

	case tea.KeyMsg:
		switch a.mode {
		case ModeSearch:
			return a.updateSearch(msg)
		case ModeTag:
			return a.updateTag(msg)
		case ModeConfirmDelete:
			return a.updateConfirmDelete(msg)
		}
		return a.updateList(msg)
	}
	return a, nil
}

func (a App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.status, a.err = "", nil

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.view.Notes)-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.NextPage):
		if a.view.Page < a.view.TotalPages {
			a.session.NextPage()
			a.cursor = 0
			a.refresh()
		}

	case key.Matches(msg, a.keys.PrevPage):
		if a.view.Page > 1 {
			a.session.PrevPage()
			a.cursor = 0
			a.refresh()
		}

	case key.Matches(msg, a.keys.Search):
		a.mode = ModeSearch
		a.searchInput.SetValue(a.session.Search().Term)
		a.searchInput.CursorEnd()
		return a, a.searchInput.Focus()

	case key.Matches(msg, a.keys.Tag):
		a.mode = ModeTag
		a.tagInput.Reset()
		a.suggestIdx = 0
		a.suggestions = a.svc.SuggestTags(a.ctx, "", maxTagSuggestions)
		return a, a.tagInput.Focus()

	case key.Matches(msg, a.keys.Clear), key.Matches(msg, a.keys.Cancel):
		a.session.ClearFilters()
		a.cursor = 0
		a.refresh()

	case key.Matches(msg, a.keys.Favorite):
		if id, ok := a.selectedID(); ok {
			n, err := a.svc.ToggleFavorite(a.ctx, id)
			switch {
			case err != nil && n.ID == "":
				a.err = err
			case n.IsFavorite:
				a.status = "Added to favorites"
			default:
				a.status = "Removed from favorites"
			}
			a.refresh()
		}

	case key.Matches(msg, a.keys.Delete):
		if _, ok := a.selectedID(); ok {
			a.mode = ModeConfirmDelete
		}

	case key.Matches(msg, a.keys.Share):
		req := noteservice.ShareRequest{Visibility: noteservice.VisibilityPrivate}
		if id, ok := a.selectedID(); ok {
			req.NoteID = id
		}
		link, err := a.svc.ShareLink(a.ctx, req)
		if err != nil {
			a.err = err
			break
		}
		if err := a.copy(link.URL); err != nil {
			a.status = "Share link: " + link.URL
			break
		}
		a.status = "Share link copied to clipboard"
	}
	return a, nil
}

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		a.mode = ModeList
		a.searchInput.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	a.session.SetTerm(a.searchInput.Value())
	a.cursor = 0
	a.refresh()
	return a, cmd
}

func (a App) updateTag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.mode = ModeList
		a.tagInput.Blur()
		return a, nil

	case tea.KeyEnter:
		tag := a.tagInput.Value()
		if len(a.suggestions) > 0 {
			tag = a.suggestions[a.suggestIdx]
		}
		a.mode = ModeList
		a.tagInput.Blur()
		if tag != "" {
			a.session.ToggleTag(tag)
			a.cursor = 0
			a.refresh()
		}
		return a, nil

	case tea.KeyDown, tea.KeyTab:
		if a.suggestIdx < len(a.suggestions)-1 {
			a.suggestIdx++
		}
		return a, nil

	case tea.KeyUp, tea.KeyShiftTab:
		if a.suggestIdx > 0 {
			a.suggestIdx--
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.tagInput, cmd = a.tagInput.Update(msg)
	a.suggestions = a.svc.SuggestTags(a.ctx, a.tagInput.Value(), maxTagSuggestions)
	a.suggestIdx = 0
	return a, cmd
}

func (a App) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.mode = ModeList
	if !key.Matches(msg, a.keys.Confirm) {
		a.status = "Delete cancelled"
		return a, nil
	}
	id, ok := a.selectedID()
	if !ok {
		return a, nil
	}
	if err := a.svc.DeleteNote(a.ctx, id); err != nil {
		a.err = fmt.Errorf("delete: %w", err)
	} else {
		a.status = "Note deleted"
	}
	a.refresh()
	return a, nil
}

func (a App) selectedID() (string, bool) {
	if a.cursor < 0 || a.cursor >= len(a.view.Notes) {
		return "", false
	}
	return a.view.Notes[a.cursor].ID, true
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
