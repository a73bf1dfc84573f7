// Package imagerater holds the rating store and view state for manually
// rating a fixed, ordered list of images on a 1 to 5 star scale.
//
// A Rater owns the rating mapping, the active filter and the current
// selection. Ratings are hydrated from a storage.Store with Load and written
// back after every change once hydration has completed. Filtered lists,
// counts and navigation availability are derived on demand.
//
// Example:
//
//	r, err := imagerater.New(
//		imagerater.WithDefaultImages(),
//		imagerater.WithStorage(store),
//	)
//	if err != nil {
//		return err
//	}
//	if err := r.Load(); err != nil {
//		log.Warn().Err(err).Msg("starting with empty ratings")
//	}
//	_ = r.Rate(id, 5)
package imagerater

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/imagerater/pkg/errors"
	"github.com/agentstation/imagerater/pkg/filter"
	"github.com/agentstation/imagerater/pkg/logging"
	"github.com/agentstation/imagerater/pkg/ratings"
	"github.com/agentstation/imagerater/pkg/storage/memory"
)

// Rater manages ratings for a fixed image list along with filter and
// selection view state. It is safe for concurrent use.
type Rater struct {
	mu      sync.RWMutex
	config  *config
	images  []string
	ratings ratings.Ratings
	loaded  bool
	// pending records changes made before Load; Unrated marks a removal
	pending   map[string]ratings.Rating
	filter    filter.Selector
	selection string
	selected  bool

	// version increases on every state change
	version uint64

	// saveMu serializes snapshot-and-write so the last write wins with the latest state
	saveMu sync.Mutex

	// Event hooks
	hooks *hooks

	logger *zerolog.Logger
}

// New creates a new Rater with the given options
func New(opts ...Option) (*Rater, error) {
	cfg := defaultConfig()
	if err := cfg.apply(opts...); err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}

	if len(cfg.images) == 0 {
		return nil, errors.NewConfigError("rater", "no image list configured", nil)
	}
	if cfg.store == nil {
		cfg.store = memory.New()
	}
	if cfg.logger == nil {
		cfg.logger = logging.Default()
	}

	logger := cfg.logger.With().Str("component", "rater").Logger()
	r := &Rater{
		config:  cfg,
		images:  cfg.images,
		ratings: ratings.Ratings{},
		filter:  filter.All(),
		hooks:   newHooks(),
		logger:  &logger,
	}

	r.hooks.OnRatingChanged(r.autoSave)

	return r, nil
}

// Images returns a copy of the fixed image list
func (r *Rater) Images() []string {
	return append([]string(nil), r.images...)
}

// Total returns the number of images in the fixed list
func (r *Rater) Total() int {
	return len(r.images)
}

// Image returns the identifier at the given original index.
func (r *Rater) Image(index int) (string, error) {
	if index < 0 || index >= len(r.images) {
		return "", errors.NewNotFoundError("image", fmt.Sprintf("%d", index))
	}
	return r.images[index], nil
}

// IndexOf returns the original index of id, or -1 when it is not in the list.
func (r *Rater) IndexOf(id string) int {
	for i, img := range r.images {
		if img == id {
			return i
		}
	}
	return -1
}

// Rate sets the rating for id, overwriting any previous value.
// Values outside [1,5] are rejected with a ValidationError.
func (r *Rater) Rate(id string, value ratings.Rating) error {
	if id == "" {
		return errors.NewValidationError("id", id, "cannot be empty")
	}
	if err := value.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	old, existed := r.ratings[id]
	if existed && old == value {
		r.mu.Unlock()
		return nil
	}
	r.ratings[id] = value
	r.recordPending(id, value)
	r.version++
	r.mu.Unlock()

	r.logger.Debug().Str("image", id).Int("rating", int(value)).Msg("rated")
	r.hooks.triggerRatingChanged(RatingChange{ID: id, Old: old, New: value})
	return nil
}

// Unrate clears the rating for id. Clearing an unrated image is a no-op.
func (r *Rater) Unrate(id string) error {
	if id == "" {
		return errors.NewValidationError("id", id, "cannot be empty")
	}

	r.mu.Lock()
	old, existed := r.ratings[id]
	if !existed {
		r.mu.Unlock()
		return nil
	}
	delete(r.ratings, id)
	r.recordPending(id, ratings.Unrated)
	r.version++
	r.mu.Unlock()

	r.logger.Debug().Str("image", id).Msg("unrated")
	r.hooks.triggerRatingChanged(RatingChange{ID: id, Old: old, New: ratings.Unrated})
	return nil
}

// Rating returns the rating for id and whether one is set
func (r *Rater) Rating(id string) (ratings.Rating, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ratings.Get(id)
}

// Ratings returns a copy of the rating mapping
func (r *Rater) Ratings() ratings.Ratings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ratings.Clone()
}

// SetFilter changes the active filter. The selection is left untouched even
// when it no longer matches.
func (r *Rater) SetFilter(s filter.Selector) {
	r.mu.Lock()
	old := r.filter
	if old == s {
		r.mu.Unlock()
		return
	}
	r.filter = s
	r.version++
	r.mu.Unlock()

	r.hooks.triggerFilterChanged(FilterChange{Old: old, New: s})
}

// Filter returns the active filter
func (r *Rater) Filter() filter.Selector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter
}

// Filtered returns the images visible under the active filter in list order
func (r *Rater) Filtered() []filter.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filter.Apply(r.images, r.ratings, r.filter)
}

// FilteredBy returns the images visible under s without changing the active filter
func (r *Rater) FilteredBy(s filter.Selector) []filter.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filter.Apply(r.images, r.ratings, s)
}

// Version returns a counter that increases whenever ratings, filter or
// selection change. Equal versions imply identical derived views.
func (r *Rater) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Counts returns the aggregate counts for every filter bucket
func (r *Rater) Counts() filter.Counts {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filter.Count(r.images, r.ratings)
}

// OnRatingChanged registers a callback for rating changes
func (r *Rater) OnRatingChanged(fn RatingChangedHook) {
	r.hooks.OnRatingChanged(fn)
}

// OnSelectionChanged registers a callback for selection changes
func (r *Rater) OnSelectionChanged(fn SelectionChangedHook) {
	r.hooks.OnSelectionChanged(fn)
}

// OnFilterChanged registers a callback for filter changes
func (r *Rater) OnFilterChanged(fn FilterChangedHook) {
	r.hooks.OnFilterChanged(fn)
}
