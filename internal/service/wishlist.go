package service

import (
	"context"
	"strings"
	"time"

	"micropantry-api/internal/model"
	"micropantry-api/internal/repository"
	"micropantry-api/pkg/uid"
)

const maxWishlistNameLength = 200

// WishlistInput is the client-editable part of a wishlist item. A zero
// Quantity means 1.
type WishlistInput struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func (in WishlistInput) normalize() (WishlistInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, invalid("name", "is required")
	}
	if len(in.Name) > maxWishlistNameLength {
		return in, invalid("name", "is too long")
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 1 {
		return in, invalid("quantity", "must be at least 1")
	}
	return in, nil
}

// WishlistService manages per-pantry wishlists.
type WishlistService struct {
	repo repository.WishlistRepository
	now  func() time.Time
}

// NewWishlistService creates a wishlist service.
func NewWishlistService(repo repository.WishlistRepository) *WishlistService {
	return &WishlistService{repo: repo, now: time.Now}
}

// List returns the wishlist of a pantry, oldest first.
func (s *WishlistService) List(ctx context.Context, pantryID string) ([]model.WishlistItem, error) {
	items, err := s.repo.List(ctx, pantryID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.WishlistItem{}
	}
	return items, nil
}

// Create adds an item to a pantry's wishlist.
func (s *WishlistService) Create(ctx context.Context, pantryID string, in WishlistInput) (*model.WishlistItem, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	item := &model.WishlistItem{
		ID:        uid.WithPrefix("item"),
		PantryID:  pantryID,
		Name:      in.Name,
		Quantity:  in.Quantity,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update edits the name and quantity of an item.
func (s *WishlistService) Update(ctx context.Context, pantryID, id string, in WishlistInput) (*model.WishlistItem, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	item, err := s.repo.Get(ctx, pantryID, id)
	if err != nil {
		return nil, err
	}
	item.Name = in.Name
	item.Quantity = in.Quantity
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item.
func (s *WishlistService) Delete(ctx context.Context, pantryID, id string) error {
	return s.repo.Delete(ctx, pantryID, id)
}
