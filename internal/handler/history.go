package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"micropantry-api/internal/service"
	"micropantry-api/pkg/response"
)

// HistoryHandler serves sensor history views and charts.
type HistoryHandler struct {
	history *service.HistoryService
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(history *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// View handles GET /api/v1/pantries/{id}/history
//
// A failing telemetry source still answers 200 with the error placeholder.
func (h *HistoryHandler) View(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.history.View(r.Context(), chi.URLParam(r, "id")))
}

// ChartSVG handles GET /api/v1/pantries/{id}/history/chart.svg
func (h *HistoryHandler) ChartSVG(w http.ResponseWriter, r *http.Request) {
	svg, err := h.history.ChartSVG(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeChartError(w, r, err)
		return
	}
	response.Blob(w, "image/svg+xml", []byte(svg))
}

// ChartPNG handles GET /api/v1/pantries/{id}/history/chart.png
func (h *HistoryHandler) ChartPNG(w http.ResponseWriter, r *http.Request) {
	png, err := h.history.ChartPNG(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeChartError(w, r, err)
		return
	}
	response.Blob(w, "image/png", png)
}
