package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"micropantry-api/internal/discovery"
	"micropantry-api/internal/service"
	"micropantry-api/pkg/apierror"
	"micropantry-api/pkg/response"
)

// PantryHandler serves the pantry catalog and the visible list.
type PantryHandler struct {
	catalog *service.CatalogService
}

// NewPantryHandler creates a new pantry handler.
func NewPantryHandler(catalog *service.CatalogService) *PantryHandler {
	return &PantryHandler{catalog: catalog}
}

// List handles GET /api/v1/pantries
func (h *PantryHandler) List(w http.ResponseWriter, r *http.Request) {
	pantries, err := h.catalog.Pantries(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, pantries)
}

// Visible handles GET /api/v1/pantries/visible
func (h *PantryHandler) Visible(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bounds, err := discovery.ParseBounds(q.Get("north"), q.Get("south"), q.Get("east"), q.Get("west"))
	if err != nil {
		response.Error(w, apierror.ValidationError("invalid viewport", apierror.FieldError{
			Field: "bounds", Message: err.Error(),
		}))
		return
	}
	controls, err := discovery.ParseControls(q.Get("type"), q.Get("stock"), q.Get("restock"))
	if err != nil {
		response.Error(w, apierror.ValidationError("invalid list controls", apierror.FieldError{
			Field: "controls", Message: err.Error(),
		}))
		return
	}

	view, err := h.catalog.Visible(r.Context(), bounds, controls)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, view)
}

// Detail handles GET /api/v1/pantries/{id}
func (h *PantryHandler) Detail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.catalog.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, detail)
}
