package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/imagerater/pkg/errors"
	"github.com/agentstation/imagerater/pkg/ratings"
)

var images = []string{"A", "B", "C", "D", "E"}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Selector
	}{
		{"", All()},
		{"all", All()},
		{"ALL", All()},
		{"unrated", Unrated()},
		{"1", MustStars(1)},
		{"5", MustStars(5)},
		{"3star", MustStars(3)},
		{"2 stars", MustStars(2)},
		{"4★", MustStars(4)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"0", "6", "rated", "-1"} {
		_, err := Parse(bad)
		require.Error(t, err, bad)
		assert.True(t, errors.IsValidationError(err), bad)
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range Options() {
		parsed, err := Parse(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
}

func TestTextMarshaling(t *testing.T) {
	var s Selector
	require.NoError(t, s.UnmarshalText([]byte("3")))
	assert.Equal(t, MustStars(3), s)

	text, err := s.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "3", string(text))

	assert.Error(t, s.UnmarshalText([]byte("nope")))
	assert.Equal(t, MustStars(3), s)
}

func TestNextCycles(t *testing.T) {
	s := All()
	seen := []string{}
	for range Options() {
		seen = append(seen, s.String())
		s = s.Next()
	}
	assert.Equal(t, []string{"all", "unrated", "1", "2", "3", "4", "5"}, seen)
	assert.Equal(t, All(), s)
}

func TestApply(t *testing.T) {
	rs := ratings.Ratings{"A": 5, "C": 2, "E": 5, "Z": 5}

	assert.Equal(t, []Entry{{"A", 0}, {"E", 4}}, Apply(images, rs, MustStars(5)))
	assert.Equal(t, []Entry{{"C", 2}}, Apply(images, rs, MustStars(2)))
	assert.Equal(t, []Entry{{"B", 1}, {"D", 3}}, Apply(images, rs, Unrated()))
	assert.Empty(t, Apply(images, rs, MustStars(1)))
	assert.Len(t, Apply(images, rs, All()), len(images))
}

func TestApplyExactRatingIsComplete(t *testing.T) {
	rs := ratings.Ratings{"A": 1, "B": 2, "C": 3, "D": 4, "E": 5}
	for _, r := range ratings.All() {
		entries := Apply(images, rs, MustStars(r))
		for _, e := range entries {
			assert.Equal(t, r, rs[e.ID])
		}
		want := 0
		for _, id := range images {
			if rs[id] == r {
				want++
			}
		}
		assert.Len(t, entries, want)
	}
}

func TestUnratedAndStarsPartitionList(t *testing.T) {
	rs := ratings.Ratings{"A": 3, "C": 1, "D": 3}

	seen := map[string]int{}
	for _, e := range Apply(images, rs, Unrated()) {
		seen[e.ID]++
	}
	for _, r := range ratings.All() {
		for _, e := range Apply(images, rs, MustStars(r)) {
			seen[e.ID]++
		}
	}

	want := map[string]int{"A": 1, "B": 1, "C": 1, "D": 1, "E": 1}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("partition mismatch (-want +got):\n%s", diff)
	}
}

func TestCounts(t *testing.T) {
	c := Count([]string{"A", "B", "C"}, ratings.Ratings{"A": 5, "C": 2, "X": 4})

	assert.Equal(t, 3, c.Total)
	assert.Equal(t, 2, c.Rated)
	assert.Equal(t, 1, c.Unrated)
	assert.Equal(t, 1, c.ByStars[5])
	assert.Equal(t, 1, c.ByStars[2])
	assert.Equal(t, 0, c.ByStars[4])
	assert.Equal(t, 67, c.Progress())

	assert.Equal(t, 3, c.For(All()))
	assert.Equal(t, 1, c.For(Unrated()))
	assert.Equal(t, 1, c.For(MustStars(5)))
}

func TestCountsEmptyList(t *testing.T) {
	c := Count(nil, ratings.Ratings{"A": 1})
	assert.Equal(t, 0, c.Total)
	assert.Equal(t, 0, c.Progress())
	assert.Len(t, c.ByStars, 5)
}

func TestPosition(t *testing.T) {
	entries := []Entry{{"A", 0}, {"C", 2}}
	assert.Equal(t, 1, Position(entries, "C"))
	assert.Equal(t, -1, Position(entries, "B"))
	assert.Equal(t, -1, Position(nil, "A"))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "All", All().Label())
	assert.Equal(t, "Unrated", Unrated().Label())
	assert.Equal(t, "3★", MustStars(3).Label())
}
