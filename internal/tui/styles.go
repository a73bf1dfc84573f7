package tui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	Primary   = lipgloss.AdaptiveColor{Light: "#101F38", Dark: "#8BC34A"}
	Muted     = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	Border    = lipgloss.AdaptiveColor{Light: "#dce0e5", Dark: "#2a3850"}
	Highlight = lipgloss.AdaptiveColor{Light: "#e1e4e8", Dark: "#1e2a3d"}
	Star      = lipgloss.Color("#FFC107")
	Danger    = lipgloss.Color("#e53935")
)

// Styles groups the lipgloss styles used by the model.
type Styles struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	FilterTab lipgloss.Style
	ActiveTab lipgloss.Style
	Pane      lipgloss.Style
	Item      lipgloss.Style
	Selected  lipgloss.Style
	Stars     lipgloss.Style
	BigStars  lipgloss.Style
	Empty     lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
}

// DefaultStyles returns the default styling.
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(Primary),
		Subtitle:  lipgloss.NewStyle().Foreground(Muted),
		FilterTab: lipgloss.NewStyle().Padding(0, 1).Foreground(Muted),
		ActiveTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(Primary).Underline(true),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1),
		Item:     lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(Primary).Background(Highlight),
		Stars:    lipgloss.NewStyle().Foreground(Star),
		BigStars: lipgloss.NewStyle().Foreground(Star).Bold(true).MarginTop(1).MarginBottom(1),
		Empty:    lipgloss.NewStyle().Italic(true).Foreground(Muted),
		Error:    lipgloss.NewStyle().Foreground(Danger),
		Help:     lipgloss.NewStyle().Foreground(Muted),
	}
}
