package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/starford/secondbrain/internal/linkdetect"
	"github.com/starford/secondbrain/internal/models"
)

const previewWidth = 72

func (a App) renderView() string {
	var b strings.Builder

	b.WriteString(a.renderHeader())
	b.WriteString("\n")
	if line := a.renderFilters(); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch a.mode {
	case ModeSearch:
		b.WriteString(a.searchInput.View())
		b.WriteString("\n\n")
	case ModeTag:
		b.WriteString(a.tagInput.View())
		b.WriteString("\n")
		b.WriteString(a.renderSuggestions())
		b.WriteString("\n")
	}

	b.WriteString(a.renderNotes())
	b.WriteString(a.renderFooter())

	return a.styles.App.Render(b.String())
}

func (a App) renderHeader() string {
	stats := a.svc.Stats(a.ctx)
	counts := fmt.Sprintf("%d notes · %d favorites · %d tags", stats.Total, stats.Favorites, stats.Tags)
	return a.styles.Title.Render("Second Brain") + "  " + a.styles.Stats.Render(counts)
}

func (a App) renderFilters() string {
	search := a.session.Search()
	var parts []string
	if search.Term != "" {
		parts = append(parts, fmt.Sprintf("search %q", search.Term))
	}
	if search.Tag != "" {
		parts = append(parts, a.styles.TagActive.Render("#"+search.Tag))
	}

	var tags []string
	for _, t := range a.view.Tags {
		if t == search.Tag {
			continue
		}
		tags = append(tags, a.styles.Tag.Render("#"+t))
	}

	line := strings.Join(parts, "  ")
	if len(tags) > 0 {
		if line != "" {
			line += "  "
		}
		line += strings.Join(tags, " ")
	}
	return line
}

func (a App) renderSuggestions() string {
	if len(a.suggestions) == 0 {
		return a.styles.Empty.Render("no matching tags")
	}
	chips := make([]string, 0, len(a.suggestions))
	for i, s := range a.suggestions {
		if i == a.suggestIdx {
			chips = append(chips, a.styles.TagActive.Render("#"+s))
			continue
		}
		chips = append(chips, a.styles.Tag.Render("#"+s))
	}
	return strings.Join(chips, " ")
}

func (a App) renderNotes() string {
	if len(a.view.Notes) == 0 {
		msg := "No notes yet."
		if a.view.Filtered {
			msg = "No notes match the current filters."
		}
		return a.styles.Empty.Render(msg) + "\n"
	}

	var b strings.Builder
	for i, n := range a.view.Notes {
		b.WriteString(a.renderNote(n, i == a.cursor))
		b.WriteString("\n")
	}
	return b.String()
}

func (a App) renderNote(n models.Note, selected bool) string {
	star := " "
	if n.IsFavorite {
		star = a.styles.Favorite.Render("★")
	}
	title := fmt.Sprintf("%s %s  %s  %s", star, n.Title, a.styles.CategoryBadge(n.Category),
		a.styles.Stats.Render(n.CreatedAt.Format("Jan 2, 2006")))

	lines := []string{title}
	if preview := firstLine(n.Content, previewWidth); preview != "" {
		lines = append(lines, a.styles.Content.Render(preview))
	}
	if len(n.Tags) > 0 {
		tags := make([]string, len(n.Tags))
		for i, t := range n.Tags {
			tags[i] = "#" + t
		}
		lines = append(lines, a.styles.Content.Render(a.styles.Tag.Render(strings.Join(tags, " "))))
	}
	for _, m := range linkdetect.RenderAll(linkdetect.ForNote(n)) {
		label := "YouTube"
		if m.Kind == models.LinkTwitter {
			label = "Tweet"
		}
		lines = append(lines, a.styles.Link.Render(label+": "+m.URL))
	}

	block := lipgloss.JoinVertical(lipgloss.Left, lines...)
	if selected {
		return a.styles.ItemSelected.Render(block)
	}
	return a.styles.Item.Render(block)
}

func (a App) renderFooter() string {
	var b strings.Builder
	pager := fmt.Sprintf("page %d/%d · %d notes", a.view.Page, a.view.TotalPages, a.view.Total)
	b.WriteString(a.styles.Footer.Render(pager))
	b.WriteString("\n")

	switch {
	case a.mode == ModeConfirmDelete:
		b.WriteString(a.styles.Error.Render("Delete this note? enter/y to confirm, any other key to cancel"))
	case a.err != nil:
		b.WriteString(a.styles.Error.Render(a.err.Error()))
	case a.status != "":
		b.WriteString(a.styles.Status.Render(a.status))
	default:
		b.WriteString(a.help.View(a.keys))
	}
	return b.String()
}

// firstLine returns the first non-blank line of s, truncated to width runes.
func firstLine(s string, width int) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r := []rune(line)
		if len(r) > width {
			return string(r[:width-1]) + "…"
		}
		return line
	}
	return ""
}
