package filter

import (
	"math"

	"github.com/agentstation/imagerater/pkg/ratings"
)

// Counts aggregates the fixed image list against the rating mapping.
// Ratings for identifiers outside the list are not counted.
type Counts struct {
	Total   int                    `json:"total" yaml:"total"`
	Rated   int                    `json:"rated" yaml:"rated"`
	Unrated int                    `json:"unrated" yaml:"unrated"`
	ByStars map[ratings.Rating]int `json:"by_stars" yaml:"by_stars"`
}

// Count computes Counts in a single pass over images.
func Count(images []string, rs ratings.Ratings) Counts {
	c := Counts{
		Total:   len(images),
		ByStars: make(map[ratings.Rating]int, ratings.Max),
	}
	for _, r := range ratings.All() {
		c.ByStars[r] = 0
	}
	for _, id := range images {
		if r, ok := rs.Get(id); ok {
			c.Rated++
			c.ByStars[r]++
		}
	}
	c.Unrated = c.Total - c.Rated
	return c
}

// For returns the number of images visible under s.
func (c Counts) For(s Selector) int {
	switch s.Kind() {
	case KindUnrated:
		return c.Unrated
	case KindStars:
		return c.ByStars[s.StarCount()]
	default:
		return c.Total
	}
}

// Progress is the rated share of the list as a rounded percentage.
func (c Counts) Progress() int {
	if c.Total == 0 {
		return 0
	}
	return int(math.Round(float64(c.Rated) / float64(c.Total) * 100))
}
