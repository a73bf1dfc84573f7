package imagerater

import (
	"fmt"

	"github.com/agentstation/imagerater/pkg/filter"
)

// Navigation describes where the selection sits relative to the fixed list
// and the active filter, and which moves are available.
//
// When there is no selection, or the selection is not part of the filtered
// list, both CanPrevious and CanNext are false.
type Navigation struct {
	HasSelection bool            `json:"has_selection" yaml:"has_selection"`
	ID           string          `json:"id,omitempty" yaml:"id,omitempty"`
	Index        int             `json:"index" yaml:"index"`       // original index, -1 if not in the list
	Position     int             `json:"position" yaml:"position"` // index in the filtered list, -1 if absent
	FilteredLen  int             `json:"filtered_len" yaml:"filtered_len"`
	Total        int             `json:"total" yaml:"total"`
	Filter       filter.Selector `json:"filter" yaml:"filter"`
	CanPrevious  bool            `json:"can_previous" yaml:"can_previous"`
	CanNext      bool            `json:"can_next" yaml:"can_next"`
}

// String renders the preview position, e.g. "Image 3 of 14 (2/5 in filter)".
func (n Navigation) String() string {
	switch {
	case !n.HasSelection:
		return "No selection"
	case n.Index < 0:
		return "Image not in list"
	}
	s := fmt.Sprintf("Image %d of %d", n.Index+1, n.Total)
	if !n.Filter.IsAll() && n.Position >= 0 {
		s += fmt.Sprintf(" (%d/%d in filter)", n.Position+1, n.FilteredLen)
	}
	return s
}

// Select sets the selection to id unconditionally. The identifier does not
// need to be in the fixed list or the filtered list.
func (r *Rater) Select(id string) {
	r.mu.Lock()
	old := r.selectionLocked()
	if r.selected && r.selection == id {
		r.mu.Unlock()
		return
	}
	r.selection = id
	r.selected = true
	r.version++
	r.mu.Unlock()

	r.hooks.triggerSelectionChanged(SelectionChange{Old: old, New: id})
}

// ClearSelection removes the selection
func (r *Rater) ClearSelection() {
	r.mu.Lock()
	if !r.selected {
		r.mu.Unlock()
		return
	}
	old := r.selection
	r.selection = ""
	r.selected = false
	r.version++
	r.mu.Unlock()

	r.hooks.triggerSelectionChanged(SelectionChange{Old: old})
}

// Selection returns the selected identifier and whether there is one
func (r *Rater) Selection() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selection, r.selected
}

func (r *Rater) selectionLocked() string {
	if !r.selected {
		return ""
	}
	return r.selection
}

// Next moves the selection to the following entry of the filtered list.
// It reports whether the selection moved.
func (r *Rater) Next() bool {
	return r.step(1)
}

// Previous moves the selection to the preceding entry of the filtered list.
// It reports whether the selection moved.
func (r *Rater) Previous() bool {
	return r.step(-1)
}

func (r *Rater) step(delta int) bool {
	r.mu.Lock()
	if !r.selected {
		r.mu.Unlock()
		return false
	}
	entries := filter.Apply(r.images, r.ratings, r.filter)
	pos := filter.Position(entries, r.selection)
	target := pos + delta
	if pos < 0 || target < 0 || target >= len(entries) {
		r.mu.Unlock()
		return false
	}
	old := r.selection
	r.selection = entries[target].ID
	r.version++
	r.mu.Unlock()

	r.hooks.triggerSelectionChanged(SelectionChange{Old: old, New: entries[target].ID})
	return true
}

// Navigation returns the navigation state for the current selection
func (r *Rater) Navigation() Navigation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.navigationLocked(filter.Apply(r.images, r.ratings, r.filter))
}

func (r *Rater) navigationLocked(entries []filter.Entry) Navigation {
	n := Navigation{
		HasSelection: r.selected,
		Index:        -1,
		Position:     -1,
		FilteredLen:  len(entries),
		Total:        len(r.images),
		Filter:       r.filter,
	}
	if !r.selected {
		return n
	}

	n.ID = r.selection
	for i, id := range r.images {
		if id == r.selection {
			n.Index = i
			break
		}
	}
	n.Position = filter.Position(entries, r.selection)
	if n.Position >= 0 {
		n.CanPrevious = n.Position > 0
		n.CanNext = n.Position < len(entries)-1
	}
	return n
}
