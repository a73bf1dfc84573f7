package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/agentstation/imagerater"
	"github.com/agentstation/imagerater/internal/cmd/application"
	"github.com/agentstation/imagerater/internal/server/cache"
	"github.com/agentstation/imagerater/internal/server/response"
	"github.com/agentstation/imagerater/internal/server/sse"
	ws "github.com/agentstation/imagerater/internal/server/websocket"
	"github.com/agentstation/imagerater/pkg/logging"
	"github.com/agentstation/imagerater/pkg/ratings"
	"github.com/agentstation/imagerater/pkg/storage/memory"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testImages = []string{
	"https://cdn.example.com/art/a.jpg",
	"https://cdn.example.com/art/b.jpg",
	"https://cdn.example.com/art/c.jpg",
}

// newHandlers returns handlers over an unloaded rater. The cache has no
// janitor so nothing outlives the test.
func newHandlers(t *testing.T) (*Handlers, *imagerater.Rater) {
	t.Helper()

	logger := logging.NewNopLogger()
	r, err := imagerater.New(
		imagerater.WithImages(testImages),
		imagerater.WithStorage(memory.New()),
		imagerater.WithLogger(logger),
	)
	require.NoError(t, err)

	app := &application.Mock{
		VersionFunc: func() string { return "v0.0.0-test" },
	}
	h := New(app, r, cache.New(time.Minute, 0), ws.NewHub(logger), sse.NewBroadcaster(logger), websocket.Upgrader{}, logger)
	return h, r
}

func newLoadedHandlers(t *testing.T) (*Handlers, *imagerater.Rater) {
	t.Helper()
	h, r := newHandlers(t)
	require.NoError(t, r.Load())
	return h, r
}

// ratingsRoute mirrors how the router mounts /ratings.
func (h *Handlers) ratingsRoute() http.HandlerFunc {
	return Methods(map[string]http.HandlerFunc{
		http.MethodGet:    h.HandleListRatings,
		http.MethodPut:    h.HandleRate,
		http.MethodDelete: h.HandleUnrate,
	})
}

func serve(fn http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

// decode unwraps the response envelope into out and returns its error, if any.
func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) *response.Error {
	t.Helper()
	var raw struct {
		Data  json.RawMessage `json:"data"`
		Error *response.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw), rec.Body.String())
	if out != nil && raw.Error == nil {
		require.NoError(t, json.Unmarshal(raw.Data, out))
	}
	return raw.Error
}

func TestRatingsRoute(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "rate",
			method:     http.MethodPut,
			target:     "/api/v1/ratings",
			body:       `{"id":"` + testImages[0] + `","rating":4}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "rating above range",
			method:     http.MethodPut,
			target:     "/api/v1/ratings",
			body:       `{"id":"` + testImages[0] + `","rating":6}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "rating zero",
			method:     http.MethodPut,
			target:     "/api/v1/ratings",
			body:       `{"id":"` + testImages[0] + `","rating":0}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "negative rating",
			method:     http.MethodPut,
			target:     "/api/v1/ratings",
			body:       `{"id":"` + testImages[0] + `","rating":-1}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "empty id",
			method:     http.MethodPut,
			target:     "/api/v1/ratings",
			body:       `{"id":"","rating":3}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "malformed body",
			method:     http.MethodPut,
			target:     "/api/v1/ratings",
			body:       `{"id":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "unknown field",
			method:     http.MethodPut,
			target:     "/api/v1/ratings",
			body:       `{"id":"x","rating":3,"stars":3}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "unrate without id",
			method:     http.MethodDelete,
			target:     "/api/v1/ratings",
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "unrate unknown id",
			method:     http.MethodDelete,
			target:     "/api/v1/ratings?id=never-rated",
			wantStatus: http.StatusOK,
		},
		{
			name:       "list",
			method:     http.MethodGet,
			target:     "/api/v1/ratings",
			wantStatus: http.StatusOK,
		},
		{
			name:       "post is not allowed",
			method:     http.MethodPost,
			target:     "/api/v1/ratings",
			body:       `{"id":"x","rating":3}`,
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   "METHOD_NOT_ALLOWED",
		},
		{
			name:       "patch is not allowed",
			method:     http.MethodPatch,
			target:     "/api/v1/ratings",
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   "METHOD_NOT_ALLOWED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newLoadedHandlers(t)

			rec := serve(h.ratingsRoute(), tt.method, tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			apiErr := decode(t, rec, nil)
			if tt.wantCode == "" {
				assert.Nil(t, apiErr)
				return
			}
			require.NotNil(t, apiErr)
			assert.Equal(t, tt.wantCode, apiErr.Code)
		})
	}
}

func TestRejectedRateLeavesRatingsUntouched(t *testing.T) {
	h, r := newLoadedHandlers(t)
	require.NoError(t, r.Rate(testImages[1], 2))

	rec := serve(h.HandleRate, http.MethodPut, "/api/v1/ratings", `{"id":"`+testImages[1]+`","rating":9}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	got, ok := r.Rating(testImages[1])
	require.True(t, ok)
	assert.Equal(t, ratings.Rating(2), got)
}

func TestUnrateResponse(t *testing.T) {
	h, r := newLoadedHandlers(t)
	require.NoError(t, r.Rate(testImages[0], 5))

	var body struct {
		ID     string `json:"id"`
		Rating int    `json:"rating"`
	}
	rec := serve(h.HandleUnrate, http.MethodDelete, "/api/v1/ratings?id="+testImages[0], "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, decode(t, rec, &body))
	assert.Equal(t, testImages[0], body.ID)
	assert.Equal(t, 0, body.Rating)

	_, ok := r.Rating(testImages[0])
	assert.False(t, ok)
}

func TestSetFilter(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantFilter string
		wantCount  int
	}{
		{name: "all", body: `{"filter":"all"}`, wantStatus: http.StatusOK, wantFilter: "all", wantCount: 3},
		{name: "unrated", body: `{"filter":"unrated"}`, wantStatus: http.StatusOK, wantFilter: "unrated", wantCount: 2},
		{name: "stars", body: `{"filter":"5"}`, wantStatus: http.StatusOK, wantFilter: "5", wantCount: 1},
		{name: "empty star bucket", body: `{"filter":"1"}`, wantStatus: http.StatusOK, wantFilter: "1", wantCount: 0},
		{name: "out of range", body: `{"filter":"6"}`, wantStatus: http.StatusBadRequest},
		{name: "unknown word", body: `{"filter":"favourites"}`, wantStatus: http.StatusBadRequest},
		{name: "not json", body: `filter=5`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, r := newLoadedHandlers(t)
			require.NoError(t, r.Rate(testImages[0], 5))

			var got struct {
				Filter string `json:"filter"`
				Label  string `json:"label"`
				Count  int    `json:"count"`
			}
			rec := serve(h.HandleSetFilter, http.MethodPut, "/api/v1/filter", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			apiErr := decode(t, rec, &got)
			if tt.wantStatus != http.StatusOK {
				require.NotNil(t, apiErr)
				assert.Equal(t, "BAD_REQUEST", apiErr.Code)
				assert.True(t, r.Filter().IsAll(), "a rejected filter leaves the active one in place")
				return
			}
			require.Nil(t, apiErr)
			assert.Equal(t, tt.wantFilter, got.Filter)
			assert.Equal(t, tt.wantCount, got.Count)
			assert.NotEmpty(t, got.Label)
			assert.Equal(t, tt.wantFilter, r.Filter().String())
		})
	}
}

func TestSelectionMoves(t *testing.T) {
	h, r := newLoadedHandlers(t)
	require.NoError(t, r.Rate(testImages[0], 5))
	require.NoError(t, r.Rate(testImages[2], 5))

	rec := serve(h.HandleSetFilter, http.MethodPut, "/api/v1/filter", `{"filter":"5"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h.HandleSelect, http.MethodPut, "/api/v1/selection", `{"id":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var nav imagerater.Navigation
	rec = serve(h.HandleSelect, http.MethodPut, "/api/v1/selection", `{"id":"`+testImages[0]+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, decode(t, rec, &nav))
	assert.True(t, nav.HasSelection)
	assert.Equal(t, 0, nav.Position)
	assert.False(t, nav.CanPrevious)
	assert.True(t, nav.CanNext)

	steps := []struct {
		name      string
		handler   http.HandlerFunc
		wantMoved bool
		wantID    string
	}{
		{name: "next skips filtered out", handler: h.HandleNext, wantMoved: true, wantID: testImages[2]},
		{name: "next at end", handler: h.HandleNext, wantMoved: false, wantID: testImages[2]},
		{name: "previous", handler: h.HandlePrevious, wantMoved: true, wantID: testImages[0]},
		{name: "previous at start", handler: h.HandlePrevious, wantMoved: false, wantID: testImages[0]},
	}
	for _, step := range steps {
		var move MoveResponse
		rec := serve(step.handler, http.MethodPost, "/api/v1/selection/next", "")
		require.Equal(t, http.StatusOK, rec.Code, step.name)
		require.Nil(t, decode(t, rec, &move), step.name)
		assert.Equal(t, step.wantMoved, move.Moved, step.name)
		assert.Equal(t, step.wantID, move.Navigation.ID, step.name)
	}

	rec = serve(h.HandleClearSelection, http.MethodDelete, "/api/v1/selection", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, decode(t, rec, &nav))
	assert.False(t, nav.HasSelection)

	var move MoveResponse
	rec = serve(h.HandleNext, http.MethodPost, "/api/v1/selection/next", "")
	require.Nil(t, decode(t, rec, &move))
	assert.False(t, move.Moved, "nothing to move without a selection")
}

func TestGetImage(t *testing.T) {
	tests := []struct {
		name       string
		index      string
		wantStatus int
		wantID     string
	}{
		{name: "first", index: "0", wantStatus: http.StatusOK, wantID: testImages[0]},
		{name: "last", index: "2", wantStatus: http.StatusOK, wantID: testImages[2]},
		{name: "past the end", index: "3", wantStatus: http.StatusNotFound},
		{name: "negative", index: "-1", wantStatus: http.StatusNotFound},
		{name: "not a number", index: "b.jpg", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, r := newLoadedHandlers(t)
			require.NoError(t, r.Rate(testImages[2], 3))

			rec := httptest.NewRecorder()
			h.HandleGetImage(rec, httptest.NewRequest(http.MethodGet, "/api/v1/images/"+tt.index, nil), tt.index)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			var got struct {
				ID     string `json:"id"`
				Rating int    `json:"rating"`
				Rated  bool   `json:"rated"`
			}
			apiErr := decode(t, rec, &got)
			if tt.wantStatus != http.StatusOK {
				require.NotNil(t, apiErr)
				assert.Equal(t, "NOT_FOUND", apiErr.Code)
				return
			}
			require.Nil(t, apiErr)
			assert.Equal(t, tt.wantID, got.ID)
			assert.Equal(t, got.Rating != 0, got.Rated)
		})
	}
}

func TestListImagesRejectsBadFilter(t *testing.T) {
	h, _ := newLoadedHandlers(t)

	rec := serve(h.HandleListImages, http.MethodGet, "/api/v1/images?filter=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCountsFollowChanges(t *testing.T) {
	h, r := newLoadedHandlers(t)

	var counts CountsResponse
	rec := serve(h.HandleCounts, http.MethodGet, "/api/v1/counts", "")
	require.Nil(t, decode(t, rec, &counts))
	assert.Equal(t, 0, counts.Progress)

	require.NoError(t, r.Rate(testImages[0], 1))
	require.NoError(t, r.Rate(testImages[1], 1))

	rec = serve(h.HandleCounts, http.MethodGet, "/api/v1/counts", "")
	require.Nil(t, decode(t, rec, &counts))
	assert.Equal(t, 2, counts.Rated)
	assert.Equal(t, 67, counts.Progress)
}

func TestReady(t *testing.T) {
	h, r := newHandlers(t)

	rec := serve(h.HandleReady, http.MethodGet, "/api/v1/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.NoError(t, r.Load())
	rec = serve(h.HandleReady, http.MethodGet, "/api/v1/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var health map[string]any
	rec = serve(h.HandleHealth, http.MethodGet, "/health", "")
	require.Nil(t, decode(t, rec, &health))
	assert.Equal(t, "v0.0.0-test", health["version"])
}
