package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/starford/secondbrain/internal/models"
)

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App          lipgloss.Style
	Title        lipgloss.Style
	Stats        lipgloss.Style
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	Content      lipgloss.Style
	Tag          lipgloss.Style
	TagActive    lipgloss.Style
	Link         lipgloss.Style
	Favorite     lipgloss.Style
	Footer       lipgloss.Style
	Status       lipgloss.Style
	Error        lipgloss.Style
	Empty        lipgloss.Style
}

// palette maps Category.Color names to terminal colors.
var palette = map[string]lipgloss.AdaptiveColor{
	"blue":   {Light: "#1D4ED8", Dark: "#60A5FA"},
	"green":  {Light: "#15803D", Dark: "#4ADE80"},
	"purple": {Light: "#7E22CE", Dark: "#C084FC"},
	"orange": {Light: "#C2410C", Dark: "#FB923C"},
	"teal":   {Light: "#0F766E", Dark: "#2DD4BF"},
	"gray":   {Light: "#4B5563", Dark: "#9CA3AF"},
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#303030", Dark: "#D0D0D0"}
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#707070"}
	accent := lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#A78BFA"}

	return Styles{
		App: lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Stats: lipgloss.NewStyle().
			Foreground(subtle),

		Item: lipgloss.NewStyle().
			Foreground(primary).
			PaddingLeft(1),

		ItemSelected: lipgloss.NewStyle().
			PaddingLeft(1).
			Bold(true).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(accent),

		Content: lipgloss.NewStyle().
			Foreground(subtle).
			PaddingLeft(3),

		Tag: lipgloss.NewStyle().
			Foreground(subtle),

		TagActive: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),

		Link: lipgloss.NewStyle().
			Foreground(subtle).
			Italic(true).
			PaddingLeft(3),

		Favorite: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EAB308")),

		Footer: lipgloss.NewStyle().
			Foreground(subtle).
			PaddingTop(1),

		Status: lipgloss.NewStyle().
			Foreground(accent),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DC2626")),

		Empty: lipgloss.NewStyle().
			Foreground(subtle).
			PaddingLeft(1),
	}
}

// CategoryBadge renders the category name in its palette color.
func (s Styles) CategoryBadge(c models.Category) string {
	color, ok := palette[c.Color()]
	if !ok {
		color = palette["gray"]
	}
	return lipgloss.NewStyle().Foreground(color).Render(c.String())
}
