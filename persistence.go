package imagerater

import (
	"bytes"

	"github.com/agentstation/imagerater/pkg/errors"
	"github.com/agentstation/imagerater/pkg/ratings"
)

// Load hydrates the rating mapping from storage.
//
// A missing key or a blank value yields an empty mapping. Malformed or out-of-range data also
// yields an empty mapping: the problem is logged and returned as a ParseError
// for diagnostics, and the rater is still marked loaded. Storage failures
// leave the rater unloaded so that auto-save cannot clobber existing data.
//
// Ratings changed before Load are applied on top of the hydrated mapping and,
// with auto-save on, written back once hydration completes.
func (r *Rater) Load() error {
	key := r.config.storageKey
	data, err := r.config.store.Get(key)
	switch {
	case errors.IsNotFound(err), err == nil && len(bytes.TrimSpace(data)) == 0:
		r.setLoaded(ratings.Ratings{})
		r.logger.Debug().Str("key", key).Msg("no stored ratings")
		return nil
	case err != nil:
		r.logger.Error().Err(err).Str("key", key).Msg("failed to read ratings")
		return errors.WrapResource("load", "ratings", key, err)
	}

	rs, err := ratings.Decode(data)
	if err != nil {
		r.setLoaded(ratings.Ratings{})
		r.logger.Warn().Err(err).Str("key", key).Msg("ignoring malformed stored ratings")
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			pe.File = key
			return pe
		}
		return errors.WrapParse("json", key, err)
	}

	r.setLoaded(rs)
	r.logger.Debug().Str("key", key).Int("count", len(rs)).Msg("loaded ratings")
	return nil
}

func (r *Rater) setLoaded(rs ratings.Ratings) {
	r.mu.Lock()
	for id, value := range r.pending {
		if value == ratings.Unrated {
			delete(rs, id)
		} else {
			rs[id] = value
		}
	}
	applied := len(r.pending)
	r.pending = nil
	r.ratings = rs
	r.loaded = true
	r.version++
	r.mu.Unlock()

	if applied == 0 {
		return
	}
	r.logger.Info().Int("changes", applied).Msg("applied ratings changed before load")
	if r.config.autoSave {
		if err := r.Save(); err != nil {
			r.logger.Error().Err(err).Msg("failed to save ratings")
		}
	}
}

// recordPending remembers a change made before hydration. Callers hold mu.
func (r *Rater) recordPending(id string, value ratings.Rating) {
	if r.loaded {
		return
	}
	if r.pending == nil {
		r.pending = make(map[string]ratings.Rating)
	}
	r.pending[id] = value
}

// Loaded reports whether Load has completed
func (r *Rater) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// Save writes the current mapping to storage. It returns ErrNotLoaded until
// Load has completed.
func (r *Rater) Save() error {
	r.saveMu.Lock()
	defer r.saveMu.Unlock()

	r.mu.RLock()
	loaded := r.loaded
	snapshot := r.ratings.Clone()
	r.mu.RUnlock()

	if !loaded {
		return errors.ErrNotLoaded
	}

	data, err := ratings.Encode(snapshot)
	if err != nil {
		return errors.WrapResource("encode", "ratings", r.config.storageKey, err)
	}
	if err := r.config.store.Set(r.config.storageKey, data); err != nil {
		return errors.WrapResource("save", "ratings", r.config.storageKey, err)
	}
	return nil
}

// autoSave persists after every rating change once hydration has completed.
// Write failures are logged and the in-memory change is kept.
func (r *Rater) autoSave(change RatingChange) {
	if !r.config.autoSave || !r.Loaded() {
		return
	}
	if err := r.Save(); err != nil {
		r.logger.Error().Err(err).Str("image", change.ID).Msg("failed to save ratings")
	}
}
