// Package filter derives the visible subset of the fixed image list from the
// rating mapping and a filter selector, and computes the per-bucket counts
// shown next to each filter option.
package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agentstation/imagerater/pkg/errors"
	"github.com/agentstation/imagerater/pkg/ratings"
)

// Kind identifies the family of a Selector.
type Kind int

const (
	// KindAll matches every image.
	KindAll Kind = iota
	// KindUnrated matches images with no rating.
	KindUnrated
	// KindStars matches images rated exactly Selector.Stars.
	KindStars
)

// Selector is one of all, unrated, or an exact star count. The zero value is All.
type Selector struct {
	kind  Kind
	stars ratings.Rating
}

// All selects every image.
func All() Selector { return Selector{kind: KindAll} }

// Unrated selects images without a rating.
func Unrated() Selector { return Selector{kind: KindUnrated} }

// Stars selects images rated exactly r. It returns a ValidationError for r outside [1,5].
func Stars(r ratings.Rating) (Selector, error) {
	if err := r.Validate(); err != nil {
		return Selector{}, err
	}
	return Selector{kind: KindStars, stars: r}, nil
}

// MustStars is like Stars but panics on an invalid rating.
func MustStars(r ratings.Rating) Selector {
	s, err := Stars(r)
	if err != nil {
		panic(err)
	}
	return s
}

// Options returns every selector in display order: all, unrated, 1..5.
func Options() []Selector {
	opts := []Selector{All(), Unrated()}
	for _, r := range ratings.All() {
		opts = append(opts, Selector{kind: KindStars, stars: r})
	}
	return opts
}

// Kind returns the selector family.
func (s Selector) Kind() Kind { return s.kind }

// StarCount returns the exact rating matched by a KindStars selector, or Unrated.
func (s Selector) StarCount() ratings.Rating { return s.stars }

// IsAll reports whether s matches every image.
func (s Selector) IsAll() bool { return s.kind == KindAll }

// Next returns the selector after s in Options order, wrapping around.
func (s Selector) Next() Selector {
	opts := Options()
	for i, o := range opts {
		if o == s {
			return opts[(i+1)%len(opts)]
		}
	}
	return All()
}

// Match reports whether an image with the given rating (ok=false for unrated) is visible.
func (s Selector) Match(r ratings.Rating, ok bool) bool {
	switch s.kind {
	case KindUnrated:
		return !ok
	case KindStars:
		return ok && r == s.stars
	default:
		return true
	}
}

// String returns "all", "unrated", or the star count.
func (s Selector) String() string {
	switch s.kind {
	case KindUnrated:
		return "unrated"
	case KindStars:
		return strconv.Itoa(int(s.stars))
	default:
		return "all"
	}
}

// Label returns the display label used on filter buttons, e.g. "3★".
func (s Selector) Label() string {
	switch s.kind {
	case KindUnrated:
		return "Unrated"
	case KindStars:
		return fmt.Sprintf("%d★", s.stars)
	default:
		return "All"
	}
}

// Parse converts "all", "unrated", or "1".."5" (also "3star", "3★") into a Selector.
// The empty string parses as All.
func Parse(s string) (Selector, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "", "all":
		return All(), nil
	case "unrated", "none":
		return Unrated(), nil
	}
	v = strings.TrimSuffix(strings.TrimSuffix(strings.TrimSuffix(v, "stars"), "star"), "★")
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return Selector{}, errors.NewValidationError("filter", s,
			"must be one of all, unrated, 1, 2, 3, 4, 5")
	}
	return Stars(ratings.Rating(n))
}

// MarshalText implements encoding.TextMarshaler.
func (s Selector) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Selector) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Entry is one visible image: its identifier and its position in the fixed list.
type Entry struct {
	ID    string `json:"id" yaml:"id"`
	Index int    `json:"index" yaml:"index"`
}

// Apply returns the entries of images matching s, in fixed-list order.
func Apply(images []string, rs ratings.Ratings, s Selector) []Entry {
	entries := make([]Entry, 0, len(images))
	for i, id := range images {
		r, ok := rs.Get(id)
		if s.Match(r, ok) {
			entries = append(entries, Entry{ID: id, Index: i})
		}
	}
	return entries
}

// Position returns the index of id within entries, or -1.
func Position(entries []Entry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
