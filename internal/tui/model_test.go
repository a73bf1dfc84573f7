package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/imagerater"
	"github.com/agentstation/imagerater/pkg/filter"
	"github.com/agentstation/imagerater/pkg/logging"
	"github.com/agentstation/imagerater/pkg/ratings"
)

var testImages = []string{
	"https://img.test/a.jpg",
	"https://img.test/b.jpg",
	"https://img.test/c.jpg",
}

func newTestModel(t *testing.T) (Model, *imagerater.Rater) {
	t.Helper()
	r, err := imagerater.New(
		imagerater.WithImages(testImages),
		imagerater.WithLogger(logging.NewNopLogger()),
	)
	require.NoError(t, err)
	require.NoError(t, r.Load())
	return New(r), r
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		var ok bool
		m, ok = updated.(Model)
		require.True(t, ok)
	}
	return m
}

func TestInitialView(t *testing.T) {
	m, _ := newTestModel(t)

	out := m.View()
	assert.Contains(t, out, "Image Rater")
	assert.Contains(t, out, "0/3 rated (0%)")
	assert.Contains(t, out, NoSelectionText)
	assert.Contains(t, out, "a.jpg")
}

func TestCursorSelects(t *testing.T) {
	m, r := newTestModel(t)

	m = press(t, m, runeKey("j"))
	id, ok := r.Selection()
	require.True(t, ok)
	assert.Equal(t, testImages[0], id)
	assert.Contains(t, m.View(), "Image 1 of 3")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, runeKey("j"))
	id, _ = r.Selection()
	assert.Equal(t, testImages[2], id)

	// stays on the last entry
	m = press(t, m, runeKey("j"))
	id, _ = r.Selection()
	assert.Equal(t, testImages[2], id)

	m = press(t, m, runeKey("k"), tea.KeyMsg{Type: tea.KeyUp})
	id, _ = r.Selection()
	assert.Equal(t, testImages[0], id)
	assert.Contains(t, m.View(), "Image 1 of 3")
}

func TestUpWithoutSelectionPicksLast(t *testing.T) {
	m, r := newTestModel(t)

	press(t, m, runeKey("k"))
	id, ok := r.Selection()
	require.True(t, ok)
	assert.Equal(t, testImages[2], id)
}

func TestRateAndUnrate(t *testing.T) {
	m, r := newTestModel(t)

	m = press(t, m, runeKey("j"), runeKey("3"))
	got, ok := r.Rating(testImages[0])
	require.True(t, ok)
	assert.Equal(t, ratings.Rating(3), got)

	out := m.View()
	assert.Contains(t, out, "Rated 3 stars")
	assert.Contains(t, out, "1/3 rated (33%)")

	m = press(t, m, runeKey("1"))
	assert.Contains(t, m.View(), "Rated 1 star")

	m = press(t, m, runeKey("x"))
	_, ok = r.Rating(testImages[0])
	assert.False(t, ok)
	assert.Contains(t, m.View(), "Not rated yet")

	press(t, m, runeKey("4"), runeKey("0"))
	_, ok = r.Rating(testImages[0])
	assert.False(t, ok)
}

func TestRateWithoutSelection(t *testing.T) {
	m, r := newTestModel(t)

	m = press(t, m, runeKey("5"))
	assert.Empty(t, r.Ratings())
	assert.Contains(t, m.View(), NeedSelectionMsg)

	// the message clears on the next key
	m = press(t, m, runeKey("j"))
	assert.NotContains(t, m.View(), NeedSelectionMsg)
}

func TestFilterKeys(t *testing.T) {
	m, r := newTestModel(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, filter.Unrated(), r.Filter())

	m = press(t, m, runeKey("f"))
	assert.Equal(t, filter.MustStars(1), r.Filter())
	assert.Contains(t, m.View(), EmptyFilterText)

	m = press(t, m, runeKey("a"))
	assert.Equal(t, filter.All(), r.Filter())

	m = press(t, m, runeKey("u"))
	assert.Equal(t, filter.Unrated(), r.Filter())
	assert.NotContains(t, m.View(), EmptyFilterText)
}

func TestFilterCycleWraps(t *testing.T) {
	m, r := newTestModel(t)

	for range filter.Options() {
		m = press(t, m, runeKey("f"))
	}
	assert.Equal(t, filter.All(), r.Filter())
}

func TestNavigationWithinFilter(t *testing.T) {
	m, r := newTestModel(t)
	require.NoError(t, r.Rate(testImages[1], 4))

	// a and c are unrated
	m = press(t, m, runeKey("u"), runeKey("j"))
	id, _ := r.Selection()
	assert.Equal(t, testImages[0], id)
	assert.Contains(t, m.View(), "Image 1 of 3 (1/2 in filter)")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	id, _ = r.Selection()
	assert.Equal(t, testImages[2], id)
	assert.Contains(t, m.View(), "Image 3 of 3 (2/2 in filter)")

	m = press(t, m, runeKey("p"))
	id, _ = r.Selection()
	assert.Equal(t, testImages[0], id)

	// rating removes the image from the unrated view but keeps it selected
	m = press(t, m, runeKey("2"))
	id, _ = r.Selection()
	assert.Equal(t, testImages[0], id)
	nav := r.Navigation()
	assert.Equal(t, -1, nav.Position)
	assert.False(t, nav.CanNext)

	// next is a no-op, down re-enters the filtered list
	press(t, m, runeKey("n"))
	id, _ = r.Selection()
	assert.Equal(t, testImages[0], id)

	press(t, m, runeKey("j"))
	id, _ = r.Selection()
	assert.Equal(t, testImages[2], id)
}

func TestQuit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runeKey("q"), {Type: tea.KeyCtrlC}} {
		m, _ := newTestModel(t)
		_, cmd := m.Update(msg)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestWindowSize(t *testing.T) {
	m, _ := newTestModel(t)

	updated, cmd := m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	assert.Nil(t, cmd)
	m = updated.(Model)
	assert.Equal(t, 140, m.width)
	assert.Equal(t, 40, m.height)
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t)

	assert.False(t, m.help.ShowAll)
	m = press(t, m, runeKey("?"))
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "unrate")
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		name               string
		pos, n, height     int
		wantStart, wantEnd int
	}{
		{"fits", 1, 3, 10, 0, 3},
		{"no position", -1, 20, 5, 0, 5},
		{"centered", 10, 20, 5, 8, 13},
		{"clamped start", 1, 20, 5, 0, 5},
		{"clamped end", 19, 20, 5, 15, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := visibleRange(tt.pos, tt.n, tt.height)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "★ ★ ☆ ☆ ☆", bigStars(2))
}
