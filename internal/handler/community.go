package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"micropantry-api/internal/service"
	"micropantry-api/pkg/response"
)

// CommunityHandler serves per-pantry wishlists and donation logs.
type CommunityHandler struct {
	wishlist  *service.WishlistService
	donations *service.DonationService
}

// NewCommunityHandler creates a new community handler.
func NewCommunityHandler(wishlist *service.WishlistService, donations *service.DonationService) *CommunityHandler {
	return &CommunityHandler{wishlist: wishlist, donations: donations}
}

// ListWishlist handles GET /api/v1/pantries/{id}/wishlist
func (h *CommunityHandler) ListWishlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.wishlist.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, items)
}

// CreateWishlistItem handles POST /api/v1/pantries/{id}/wishlist
func (h *CommunityHandler) CreateWishlistItem(w http.ResponseWriter, r *http.Request) {
	var in service.WishlistInput
	if !decodeJSON(w, r, &in) {
		return
	}
	item, err := h.wishlist.Create(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, item)
}

// UpdateWishlistItem handles PUT /api/v1/pantries/{id}/wishlist/{itemId}
func (h *CommunityHandler) UpdateWishlistItem(w http.ResponseWriter, r *http.Request) {
	var in service.WishlistInput
	if !decodeJSON(w, r, &in) {
		return
	}
	item, err := h.wishlist.Update(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemId"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, item)
}

// DeleteWishlistItem handles DELETE /api/v1/pantries/{id}/wishlist/{itemId}
func (h *CommunityHandler) DeleteWishlistItem(w http.ResponseWriter, r *http.Request) {
	if err := h.wishlist.Delete(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemId")); err != nil {
		writeError(w, r, err)
		return
	}
	response.NoContent(w)
}

// ListDonations handles GET /api/v1/pantries/{id}/donations?page=&pageSize=
func (h *CommunityHandler) ListDonations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	res, err := h.donations.Recent(r.Context(), chi.URLParam(r, "id"), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSONWithMeta(w, http.StatusOK, res.Items, res.Page, res.PageSize, res.Total)
}

// CreateDonation handles POST /api/v1/pantries/{id}/donations
func (h *CommunityHandler) CreateDonation(w http.ResponseWriter, r *http.Request) {
	var in service.DonationInput
	if !decodeJSON(w, r, &in) {
		return
	}
	note, err := h.donations.Create(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, note)
}
