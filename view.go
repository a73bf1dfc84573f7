package imagerater

import (
	"github.com/agentstation/imagerater/pkg/filter"
	"github.com/agentstation/imagerater/pkg/images"
	"github.com/agentstation/imagerater/pkg/ratings"
)

// View is a consistent snapshot of everything a renderer needs.
type View struct {
	Filter     filter.Selector `json:"filter" yaml:"filter"`
	Entries    []ViewEntry     `json:"entries" yaml:"entries"`
	Counts     filter.Counts   `json:"counts" yaml:"counts"`
	Progress   int             `json:"progress" yaml:"progress"`
	Selection  string          `json:"selection,omitempty" yaml:"selection,omitempty"`
	Navigation Navigation      `json:"navigation" yaml:"navigation"`
}

// ViewEntry is one visible image with its rating.
type ViewEntry struct {
	ID       string         `json:"id" yaml:"id"`
	Index    int            `json:"index" yaml:"index"`
	Name     string         `json:"name" yaml:"name"`
	Rating   ratings.Rating `json:"rating,omitempty" yaml:"rating,omitempty"`
	Selected bool           `json:"selected,omitempty" yaml:"selected,omitempty"`
}

// Rated reports whether the entry carries a rating
func (e ViewEntry) Rated() bool {
	return e.Rating != ratings.Unrated
}

// Label returns "Rated n star(s)" or "Unrated".
func (e ViewEntry) Label() string {
	return e.Rating.Label()
}

// View returns a snapshot of the current view state
func (r *Rater) View() View {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := filter.Apply(r.images, r.ratings, r.filter)
	counts := filter.Count(r.images, r.ratings)

	v := View{
		Filter:     r.filter,
		Entries:    make([]ViewEntry, len(entries)),
		Counts:     counts,
		Progress:   counts.Progress(),
		Selection:  r.selectionLocked(),
		Navigation: r.navigationLocked(entries),
	}
	for i, e := range entries {
		v.Entries[i] = r.entryLocked(e)
	}
	return v
}

// Entries returns the images visible under s with their ratings, without
// changing the active filter.
func (r *Rater) Entries(s filter.Selector) []ViewEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := filter.Apply(r.images, r.ratings, s)
	out := make([]ViewEntry, len(entries))
	for i, e := range entries {
		out[i] = r.entryLocked(e)
	}
	return out
}

// Entry returns the image at the given original index with its rating.
func (r *Rater) Entry(index int) (ViewEntry, error) {
	id, err := r.Image(index)
	if err != nil {
		return ViewEntry{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entryLocked(filter.Entry{ID: id, Index: index}), nil
}

func (r *Rater) entryLocked(e filter.Entry) ViewEntry {
	return ViewEntry{
		ID:       e.ID,
		Index:    e.Index,
		Name:     images.DisplayName(e.ID),
		Rating:   r.ratings[e.ID],
		Selected: r.selected && r.selection == e.ID,
	}
}
