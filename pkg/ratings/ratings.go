// Package ratings defines the star rating value and the mapping from image
// identifier to rating, along with the JSON layout it is persisted in.
package ratings

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/agentstation/imagerater/pkg/constants"
	"github.com/agentstation/imagerater/pkg/errors"
)

// Rating is a star value in [MinRating, MaxRating]. The zero value means unrated.
type Rating int

// Bounds of a valid rating.
const (
	Unrated Rating = 0
	Min     Rating = constants.MinRating
	Max     Rating = constants.MaxRating
)

// All returns every valid rating in ascending order.
func All() []Rating {
	all := make([]Rating, 0, Max-Min+1)
	for r := Min; r <= Max; r++ {
		all = append(all, r)
	}
	return all
}

// Valid reports whether r is within [Min, Max].
func (r Rating) Valid() bool {
	return r >= Min && r <= Max
}

// Validate returns a ValidationError when r is outside [Min, Max].
func (r Rating) Validate() error {
	if !r.Valid() {
		return errors.NewValidationError("rating", int(r),
			fmt.Sprintf("must be between %d and %d, got %d", Min, Max, r))
	}
	return nil
}

// Stars renders r as filled and empty stars, e.g. "★★★☆☆".
func (r Rating) Stars() string {
	out := make([]rune, 0, Max)
	for i := Min; i <= Max; i++ {
		if i <= r {
			out = append(out, '★')
		} else {
			out = append(out, '☆')
		}
	}
	return string(out)
}

// Label is the human description shown next to a rated image.
func (r Rating) Label() string {
	if !r.Valid() {
		return "Unrated"
	}
	if r == 1 {
		return "Rated 1 star"
	}
	return fmt.Sprintf("Rated %d stars", r)
}

// Ratings maps image identifiers to their rating. Absence means unrated;
// every present value is in [Min, Max].
type Ratings map[string]Rating

// Get returns the rating for id and whether one exists.
func (rs Ratings) Get(id string) (Rating, bool) {
	r, ok := rs[id]
	return r, ok
}

// Clone returns an independent copy.
func (rs Ratings) Clone() Ratings {
	if rs == nil {
		return Ratings{}
	}
	return maps.Clone(rs)
}

// IDs returns the rated identifiers in sorted order.
func (rs Ratings) IDs() []string {
	return slices.Sorted(maps.Keys(rs))
}

// Validate checks every entry, returning the first invalid one.
func (rs Ratings) Validate() error {
	for _, id := range rs.IDs() {
		if id == "" {
			return errors.NewValidationError("id", id, "image identifier must not be empty")
		}
		if err := rs[id].Validate(); err != nil {
			return fmt.Errorf("image %s: %w", id, err)
		}
	}
	return nil
}

// Encode serializes the mapping as a UTF-8 JSON object of identifier to integer.
func Encode(rs Ratings) ([]byte, error) {
	if rs == nil {
		rs = Ratings{}
	}
	return json.Marshal(map[string]Rating(rs))
}

// Decode parses the persisted JSON object. Anything that is not an object of
// integers in [Min, Max] is rejected with a ParseError.
func Decode(data []byte) (Ratings, error) {
	var raw map[string]Rating
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewParseError("json", "", "malformed ratings", err)
	}
	rs := Ratings(raw)
	if rs == nil {
		// JSON null
		rs = Ratings{}
	}
	if err := rs.Validate(); err != nil {
		return nil, errors.NewParseError("json", "", "invalid ratings", err)
	}
	return rs, nil
}
