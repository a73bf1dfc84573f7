// Package tui provides the interactive terminal rater built on bubbletea.
//
// The model is a thin renderer over an *imagerater.Rater: every key press is
// translated into a Rater operation and the screen is redrawn from a fresh
// View snapshot, so ratings made here persist exactly like ratings made
// through the HTTP API or the CLI.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agentstation/imagerater"
	"github.com/agentstation/imagerater/pkg/filter"
	"github.com/agentstation/imagerater/pkg/ratings"
)

const (
	defaultWidth  = 100
	defaultHeight = 24
	listWidth     = 44
	nameWidth     = 26
	// title, filter bar, blank line, help line and pane borders
	chromeHeight = 7
)

// Empty state texts.
const (
	EmptyFilterText  = "No images match this filter"
	NoSelectionText  = "Select an image to preview"
	NeedSelectionMsg = "Select an image before rating"
)

// Model is the bubbletea model of the rater.
type Model struct {
	rater  *imagerater.Rater
	keys   KeyMap
	help   help.Model
	styles Styles
	width  int
	height int
	status string
	err    error
}

// New creates a model over r.
func New(r *imagerater.Rater) Model {
	return Model{
		rater:  r,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		styles: DefaultStyles(),
		width:  defaultWidth,
		height: defaultHeight,
	}
}

// Run starts an interactive program over r and blocks until the user quits
// or ctx is cancelled.
func Run(ctx context.Context, r *imagerater.Rater, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(r), opts...).Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Down):
		m.move(1)

	case key.Matches(msg, m.keys.Up):
		m.move(-1)

	case key.Matches(msg, m.keys.Next):
		m.rater.Next()

	case key.Matches(msg, m.keys.Previous):
		m.rater.Previous()

	case key.Matches(msg, m.keys.Rate):
		m.rate(ratings.Rating(msg.Runes[0] - '0'))

	case key.Matches(msg, m.keys.Unrate):
		if id, ok := m.rater.Selection(); ok {
			m.err = m.rater.Unrate(id)
		} else {
			m.status = NeedSelectionMsg
		}

	case key.Matches(msg, m.keys.Filter):
		m.rater.SetFilter(m.rater.Filter().Next())

	case key.Matches(msg, m.keys.All):
		m.rater.SetFilter(filter.All())

	case key.Matches(msg, m.keys.Unrated):
		m.rater.SetFilter(filter.Unrated())
	}
	return m, nil
}

// move walks the filtered list like a cursor. Without a visible selection it
// lands on the first entry (down) or the last one (up).
func (m Model) move(delta int) {
	nav := m.rater.Navigation()
	if nav.Position >= 0 {
		if delta > 0 {
			m.rater.Next()
		} else {
			m.rater.Previous()
		}
		return
	}
	entries := m.rater.Filtered()
	if len(entries) == 0 {
		return
	}
	if delta > 0 {
		m.rater.Select(entries[0].ID)
	} else {
		m.rater.Select(entries[len(entries)-1].ID)
	}
}

func (m *Model) rate(value ratings.Rating) {
	id, ok := m.rater.Selection()
	if !ok {
		m.status = NeedSelectionMsg
		return
	}
	m.err = m.rater.Rate(id, value)
}

// View implements tea.Model.
func (m Model) View() string {
	v := m.rater.View()

	var b strings.Builder
	b.WriteString(m.renderHeader(v))
	b.WriteString("\n")
	b.WriteString(m.renderFilterBar(v))
	b.WriteString("\n")

	left := m.styles.Pane.Width(listWidth).Render(m.renderList(v))
	rightWidth := m.width - listWidth - 8
	if rightWidth < 20 {
		rightWidth = 20
	}
	right := m.styles.Pane.Width(rightWidth).Render(m.renderPreview(v))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(m.styles.Error.Render(m.err.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(m.styles.Subtitle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Help.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderHeader(v imagerater.View) string {
	title := m.styles.Title.Render("Image Rater")
	progress := m.styles.Subtitle.Render(fmt.Sprintf("  %d/%d rated (%d%%)", v.Counts.Rated, v.Counts.Total, v.Progress))
	return title + progress
}

func (m Model) renderFilterBar(v imagerater.View) string {
	tabs := make([]string, 0, len(filter.Options()))
	for _, s := range filter.Options() {
		label := fmt.Sprintf("%s (%d)", s.Label(), v.Counts.For(s))
		if s == v.Filter {
			tabs = append(tabs, m.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.styles.FilterTab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderList(v imagerater.View) string {
	if len(v.Entries) == 0 {
		return m.styles.Empty.Render(EmptyFilterText)
	}

	start, end := visibleRange(v.Navigation.Position, len(v.Entries), m.listHeight())
	lines := make([]string, 0, end-start)
	for _, e := range v.Entries[start:end] {
		stars := ""
		if e.Rated() {
			stars = e.Rating.Stars()
		}
		line := fmt.Sprintf("%3d  %-*s %s", e.Index+1, nameWidth, truncate(e.Name, nameWidth), m.styles.Stars.Render(stars))
		if e.Selected {
			lines = append(lines, m.styles.Selected.Render("› "+line))
		} else {
			lines = append(lines, m.styles.Item.Render("  "+line))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderPreview(v imagerater.View) string {
	if !v.Navigation.HasSelection {
		return m.styles.Empty.Render(NoSelectionText)
	}

	id := v.Navigation.ID
	r, rated := m.rater.Rating(id)

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(id))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render(v.Navigation.String()))
	b.WriteString("\n")
	b.WriteString(m.styles.BigStars.Render(bigStars(r)))
	b.WriteString("\n")
	if rated {
		b.WriteString(r.Label())
	} else {
		b.WriteString(m.styles.Empty.Render("Not rated yet"))
	}
	return b.String()
}

func (m Model) listHeight() int {
	h := m.height - chromeHeight
	if m.help.ShowAll {
		h -= 3
	}
	if h < 1 {
		h = 1
	}
	return h
}

// visibleRange returns the window [start, end) of n rows of which at most
// height are shown, keeping pos in view.
func visibleRange(pos, n, height int) (int, int) {
	if n <= height {
		return 0, n
	}
	if pos < 0 {
		return 0, height
	}
	start := pos - height/2
	if start < 0 {
		start = 0
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}

func bigStars(r ratings.Rating) string {
	return strings.Join(strings.Split(r.Stars(), ""), " ")
}

func truncate(s string, l int) string {
	runes := []rune(s)
	if len(runes) > l {
		return string(runes[:l-1]) + "…"
	}
	return s
}
