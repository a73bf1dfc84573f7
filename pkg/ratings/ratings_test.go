package ratings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/imagerater/pkg/errors"
)

func TestRatingValidate(t *testing.T) {
	for _, r := range All() {
		assert.NoError(t, r.Validate(), "rating %d", r)
	}

	for _, r := range []Rating{-1, 0, 6, 100} {
		err := r.Validate()
		require.Error(t, err, "rating %d", r)
		assert.True(t, errors.IsValidationError(err))
	}
}

func TestRatingPresentation(t *testing.T) {
	assert.Equal(t, "★★★☆☆", Rating(3).Stars())
	assert.Equal(t, "☆☆☆☆☆", Unrated.Stars())
	assert.Equal(t, "Rated 1 star", Rating(1).Label())
	assert.Equal(t, "Rated 4 stars", Rating(4).Label())
	assert.Equal(t, "Unrated", Unrated.Label())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rs := Ratings{"https://a/1.jpg": 5, "https://a/2.jpg": 2}

	data, err := Encode(rs)
	require.NoError(t, err)
	assert.JSONEq(t, `{"https://a/1.jpg":5,"https://a/2.jpg":2}`, string(data))

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, rs, got)
}

func TestEncodeNil(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestDecodeRejectsBadData(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{not json`},
		{"array", `[1,2,3]`},
		{"string value", `{"a":"five"}`},
		{"fractional", `{"a":2.5}`},
		{"zero", `{"a":0}`},
		{"too high", `{"a":6}`},
		{"empty id", `{"":3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := Decode([]byte(tt.data))
			require.Error(t, err)
			assert.Nil(t, rs)
			assert.True(t, errors.IsParseError(err))
		})
	}
}

func TestDecodeNull(t *testing.T) {
	rs, err := Decode([]byte("null"))
	require.NoError(t, err)
	assert.Empty(t, rs)
	assert.NotNil(t, rs)
}

func TestCloneIsIndependent(t *testing.T) {
	rs := Ratings{"a": 1}
	c := rs.Clone()
	c["a"] = 5
	c["b"] = 2

	assert.Equal(t, Rating(1), rs["a"])
	_, ok := rs.Get("b")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b"}, c.IDs())
	assert.NotNil(t, Ratings(nil).Clone())
}
