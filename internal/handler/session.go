package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"micropantry-api/internal/discovery"
	"micropantry-api/internal/service"
	"micropantry-api/pkg/apierror"
	"micropantry-api/pkg/response"
)

// SessionHandler exposes server-held view sessions.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type controlsRequest struct {
	Type    string `json:"type"`
	Stock   string `json:"stock"`
	Restock string `json:"restock"`
}

type selectRequest struct {
	PantryID string `json:"pantryId"`
}

func (h *SessionHandler) reply(w http.ResponseWriter, r *http.Request, view *service.SessionView, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, view)
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Create(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, view)
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	h.reply(w, r, view, err)
}

// Delete handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	response.NoContent(w)
}

// SetViewport handles PUT /api/v1/sessions/{id}/viewport
func (h *SessionHandler) SetViewport(w http.ResponseWriter, r *http.Request) {
	var b discovery.Bounds
	if !decodeJSON(w, r, &b) {
		return
	}
	view, err := h.sessions.SetViewport(r.Context(), chi.URLParam(r, "id"), b)
	h.reply(w, r, view, err)
}

// SetControls handles PUT /api/v1/sessions/{id}/controls
func (h *SessionHandler) SetControls(w http.ResponseWriter, r *http.Request) {
	var req controlsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	controls, err := discovery.ParseControls(req.Type, req.Stock, req.Restock)
	if err != nil {
		response.Error(w, apierror.ValidationError("invalid list controls", apierror.FieldError{
			Field: "controls", Message: err.Error(),
		}))
		return
	}
	view, err := h.sessions.SetControls(r.Context(), chi.URLParam(r, "id"), controls)
	h.reply(w, r, view, err)
}

// Select handles POST /api/v1/sessions/{id}/selection
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	view, err := h.sessions.Select(r.Context(), chi.URLParam(r, "id"), req.PantryID)
	h.reply(w, r, view, err)
}

// ClearSelection handles DELETE /api/v1/sessions/{id}/selection
func (h *SessionHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.ClearSelection(r.Context(), chi.URLParam(r, "id"))
	h.reply(w, r, view, err)
}

// ExpandHistory handles POST /api/v1/sessions/{id}/history
func (h *SessionHandler) ExpandHistory(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.ExpandHistory(r.Context(), chi.URLParam(r, "id"))
	h.reply(w, r, view, err)
}

// CollapseHistory handles DELETE /api/v1/sessions/{id}/history
func (h *SessionHandler) CollapseHistory(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.CollapseHistory(r.Context(), chi.URLParam(r, "id"))
	h.reply(w, r, view, err)
}
