package handlers

import (
	"net/http"
	"strconv"

	"github.com/agentstation/imagerater"
	"github.com/agentstation/imagerater/internal/server/response"
	"github.com/agentstation/imagerater/pkg/errors"
	"github.com/agentstation/imagerater/pkg/filter"
)

// ImageList is the payload of GET /images.
type ImageList struct {
	Filter filter.Selector        `json:"filter"`
	Total  int                    `json:"total"`
	Count  int                    `json:"count"`
	Images []imagerater.ViewEntry `json:"images"`
}

// ImageDetail is the payload of GET /images/{index}.
type ImageDetail struct {
	imagerater.ViewEntry
	Rated bool   `json:"rated"`
	Label string `json:"label"`
}

// HandleListImages handles GET /api/v1/images.
// @Summary List images
// @Description Filtered images in list order with their ratings
// @Tags images
// @Produce json
// @Param filter query string false "all, unrated, or 1..5 (default: the active filter)"
// @Success 200 {object} response.Response{data=ImageList}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/images [get].
func (h *Handlers) HandleListImages(w http.ResponseWriter, r *http.Request) {
	sel := h.rater.Filter()
	if raw := r.URL.Query().Get("filter"); raw != "" {
		parsed, err := filter.Parse(raw)
		if err != nil {
			response.ErrorFromType(w, err)
			return
		}
		sel = parsed
	}

	list := h.cache.GetOrCompute(cacheKey("images:"+sel.String(), h.rater.Version()), func() any {
		entries := h.rater.Entries(sel)
		return ImageList{
			Filter: sel,
			Total:  h.rater.Total(),
			Count:  len(entries),
			Images: entries,
		}
	})
	response.OK(w, list)
}

// HandleGetImage handles GET /api/v1/images/{index}.
// @Summary Get image
// @Description One image by its index in the fixed list
// @Tags images
// @Produce json
// @Param index path integer true "Original index"
// @Success 200 {object} response.Response{data=ImageDetail}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/images/{index} [get].
func (h *Handlers) HandleGetImage(w http.ResponseWriter, _ *http.Request, rawIndex string) {
	index, err := strconv.Atoi(rawIndex)
	if err != nil {
		response.ErrorFromType(w, errors.NewNotFoundError("image", rawIndex))
		return
	}

	entry, err := h.rater.Entry(index)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, ImageDetail{
		ViewEntry: entry,
		Rated:     entry.Rated(),
		Label:     entry.Label(),
	})
}
