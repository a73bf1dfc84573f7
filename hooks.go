package imagerater

import (
	"sync"

	"github.com/agentstation/imagerater/pkg/filter"
	"github.com/agentstation/imagerater/pkg/ratings"
)

// RatingChange describes a single mutation of the rating mapping.
// New is ratings.Unrated when the entry was cleared.
type RatingChange struct {
	ID  string         `json:"id"`
	Old ratings.Rating `json:"old"`
	New ratings.Rating `json:"new"`
}

// SelectionChange describes a move of the current selection.
// An empty identifier means no selection.
type SelectionChange struct {
	Old string `json:"old,omitempty"`
	New string `json:"new,omitempty"`
}

// FilterChange describes a switch of the active filter.
type FilterChange struct {
	Old filter.Selector `json:"old"`
	New filter.Selector `json:"new"`
}

// Hook function types for rater events
type (
	// RatingChangedHook is called after a rating is set or cleared
	RatingChangedHook func(change RatingChange)

	// SelectionChangedHook is called after the selection moves
	SelectionChangedHook func(change SelectionChange)

	// FilterChangedHook is called after the filter changes
	FilterChangedHook func(change FilterChange)
)

// hooks manages event callbacks for state changes
type hooks struct {
	mu                 sync.RWMutex
	onRatingChanged    []RatingChangedHook
	onSelectionChanged []SelectionChangedHook
	onFilterChanged    []FilterChangedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnRatingChanged registers a callback for rating changes
func (h *hooks) OnRatingChanged(fn RatingChangedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRatingChanged = append(h.onRatingChanged, fn)
}

// OnSelectionChanged registers a callback for selection changes
func (h *hooks) OnSelectionChanged(fn SelectionChangedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSelectionChanged = append(h.onSelectionChanged, fn)
}

// OnFilterChanged registers a callback for filter changes
func (h *hooks) OnFilterChanged(fn FilterChangedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFilterChanged = append(h.onFilterChanged, fn)
}

func (h *hooks) triggerRatingChanged(change RatingChange) {
	h.mu.RLock()
	fns := append([]RatingChangedHook(nil), h.onRatingChanged...)
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(change)
	}
}

func (h *hooks) triggerSelectionChanged(change SelectionChange) {
	h.mu.RLock()
	fns := append([]SelectionChangedHook(nil), h.onSelectionChanged...)
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(change)
	}
}

func (h *hooks) triggerFilterChanged(change FilterChange) {
	h.mu.RLock()
	fns := append([]FilterChangedHook(nil), h.onFilterChanged...)
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(change)
	}
}
