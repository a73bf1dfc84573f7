package handlers

import (
	"net/http"

	"github.com/agentstation/imagerater/internal/server/response"
	"github.com/agentstation/imagerater/pkg/errors"
	"github.com/agentstation/imagerater/pkg/filter"
	"github.com/agentstation/imagerater/pkg/ratings"
)

// RateRequest is the body of PUT /ratings.
type RateRequest struct {
	ID     string         `json:"id"`
	Rating ratings.Rating `json:"rating"`
}

// CountsResponse is the payload of GET /counts.
type CountsResponse struct {
	filter.Counts
	Progress int `json:"progress"`
}

// HandleListRatings handles GET /api/v1/ratings.
// @Summary List ratings
// @Description The full identifier to rating mapping
// @Tags ratings
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/ratings [get].
func (h *Handlers) HandleListRatings(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, h.rater.Ratings())
}

// HandleRate handles PUT /api/v1/ratings.
// @Summary Rate an image
// @Tags ratings
// @Accept json
// @Produce json
// @Param body body RateRequest true "Identifier and rating (1..5)"
// @Success 200 {object} response.Response{data=RateRequest}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/ratings [put].
func (h *Handlers) HandleRate(w http.ResponseWriter, r *http.Request) {
	var req RateRequest
	if err := decodeBody(r, w, &req); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	if err := h.rater.Rate(req.ID, req.Rating); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, req)
}

// HandleUnrate handles DELETE /api/v1/ratings?id=.
// @Summary Clear a rating
// @Tags ratings
// @Produce json
// @Param id query string true "Image identifier"
// @Success 200 {object} response.Response{data=object}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/ratings [delete].
func (h *Handlers) HandleUnrate(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		response.ErrorFromType(w, errors.NewValidationError("id", id, "query parameter is required"))
		return
	}

	if err := h.rater.Unrate(id); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{"id": id, "rating": ratings.Unrated})
}

// HandleCounts handles GET /api/v1/counts.
// @Summary Aggregate counts
// @Description Total, rated, unrated and per-star counts with progress percent
// @Tags ratings
// @Produce json
// @Success 200 {object} response.Response{data=CountsResponse}
// @Router /api/v1/counts [get].
func (h *Handlers) HandleCounts(w http.ResponseWriter, _ *http.Request) {
	counts := h.cache.GetOrCompute(cacheKey("counts", h.rater.Version()), func() any {
		c := h.rater.Counts()
		return CountsResponse{Counts: c, Progress: c.Progress()}
	})
	response.OK(w, counts)
}
