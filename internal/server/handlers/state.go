package handlers

import (
	"net/http"

	"github.com/agentstation/imagerater"
	"github.com/agentstation/imagerater/internal/server/response"
	"github.com/agentstation/imagerater/pkg/filter"
)

// FilterRequest is the body of PUT /filter.
type FilterRequest struct {
	Filter string `json:"filter"`
}

// FilterResponse describes the active filter.
type FilterResponse struct {
	Filter filter.Selector `json:"filter"`
	Label  string          `json:"label"`
	Count  int             `json:"count"`
}

// SelectRequest is the body of PUT /selection.
type SelectRequest struct {
	ID string `json:"id"`
}

// MoveResponse is the payload of the navigation endpoints.
type MoveResponse struct {
	Moved      bool                  `json:"moved"`
	Navigation imagerater.Navigation `json:"navigation"`
}

func (h *Handlers) filterResponse() FilterResponse {
	sel := h.rater.Filter()
	return FilterResponse{
		Filter: sel,
		Label:  sel.Label(),
		Count:  h.rater.Counts().For(sel),
	}
}

// HandleGetFilter handles GET /api/v1/filter.
// @Summary Get the active filter
// @Tags view
// @Produce json
// @Success 200 {object} response.Response{data=FilterResponse}
// @Router /api/v1/filter [get].
func (h *Handlers) HandleGetFilter(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, h.filterResponse())
}

// HandleSetFilter handles PUT /api/v1/filter.
// @Summary Set the active filter
// @Tags view
// @Accept json
// @Produce json
// @Param body body FilterRequest true "all, unrated, or 1..5"
// @Success 200 {object} response.Response{data=FilterResponse}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/filter [put].
func (h *Handlers) HandleSetFilter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := decodeBody(r, w, &req); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	sel, err := filter.Parse(req.Filter)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	h.rater.SetFilter(sel)
	response.OK(w, h.filterResponse())
}

// HandleGetSelection handles GET /api/v1/selection.
// @Summary Get the selection
// @Description Selection with navigation availability
// @Tags view
// @Produce json
// @Success 200 {object} response.Response{data=imagerater.Navigation}
// @Router /api/v1/selection [get].
func (h *Handlers) HandleGetSelection(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, h.rater.Navigation())
}

// HandleSelect handles PUT /api/v1/selection.
// @Summary Select an image
// @Description Any identifier is accepted, including ones outside the active filter
// @Tags view
// @Accept json
// @Produce json
// @Param body body SelectRequest true "Image identifier"
// @Success 200 {object} response.Response{data=imagerater.Navigation}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/selection [put].
func (h *Handlers) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := decodeBody(r, w, &req); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	if req.ID == "" {
		response.BadRequest(w, "id is required", "")
		return
	}

	h.rater.Select(req.ID)
	response.OK(w, h.rater.Navigation())
}

// HandleClearSelection handles DELETE /api/v1/selection.
// @Summary Clear the selection
// @Tags view
// @Produce json
// @Success 200 {object} response.Response{data=imagerater.Navigation}
// @Router /api/v1/selection [delete].
func (h *Handlers) HandleClearSelection(w http.ResponseWriter, _ *http.Request) {
	h.rater.ClearSelection()
	response.OK(w, h.rater.Navigation())
}

// HandleNext handles POST /api/v1/selection/next.
// @Summary Select the next filtered image
// @Tags view
// @Produce json
// @Success 200 {object} response.Response{data=MoveResponse}
// @Router /api/v1/selection/next [post].
func (h *Handlers) HandleNext(w http.ResponseWriter, _ *http.Request) {
	moved := h.rater.Next()
	response.OK(w, MoveResponse{Moved: moved, Navigation: h.rater.Navigation()})
}

// HandlePrevious handles POST /api/v1/selection/previous.
// @Summary Select the previous filtered image
// @Tags view
// @Produce json
// @Success 200 {object} response.Response{data=MoveResponse}
// @Router /api/v1/selection/previous [post].
func (h *Handlers) HandlePrevious(w http.ResponseWriter, _ *http.Request) {
	moved := h.rater.Previous()
	response.OK(w, MoveResponse{Moved: moved, Navigation: h.rater.Navigation()})
}

// HandleView handles GET /api/v1/view.
// @Summary View snapshot
// @Description Filter, entries, counts, selection and navigation in one consistent read
// @Tags view
// @Produce json
// @Success 200 {object} response.Response{data=imagerater.View}
// @Router /api/v1/view [get].
func (h *Handlers) HandleView(w http.ResponseWriter, _ *http.Request) {
	view := h.cache.GetOrCompute(cacheKey("view", h.rater.Version()), func() any {
		return h.rater.View()
	})
	response.OK(w, view)
}
