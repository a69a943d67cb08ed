package handler

import (
	"net/http"

	"micropantry-api/internal/service"
	"micropantry-api/pkg/response"
)

// GuideHandler serves the donation guide and its search.
type GuideHandler struct {
	guide *service.GuideService
}

// NewGuideHandler creates a new guide handler.
func NewGuideHandler(guide *service.GuideService) *GuideHandler {
	return &GuideHandler{guide: guide}
}

// Categories handles GET /api/v1/guide/categories
func (h *GuideHandler) Categories(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.guide.Categories())
}

// Search handles GET /api/v1/guide/search?q=
func (h *GuideHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	rows := h.guide.Search(q)
	response.OK(w, map[string]interface{}{
		"query": q,
		"rows":  rows,
		"count": len(rows),
	})
}

// Select handles GET /api/v1/guide/select?categoryId=&name=
func (h *GuideHandler) Select(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel, err := h.guide.Select(q.Get("categoryId"), q.Get("name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, sel)
}
