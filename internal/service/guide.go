package service

import (
	"fmt"
	"strings"

	"micropantry-api/internal/model"
	"micropantry-api/internal/repository"
	"micropantry-api/internal/search"
)

// GuideService answers donation guide lookups.
type GuideService struct {
	guide   *model.FoodGuide
	catalog []model.SearchableItem
}

// NewGuideService flattens guide into its searchable catalog once.
func NewGuideService(guide *model.FoodGuide) *GuideService {
	return &GuideService{
		guide:   guide,
		catalog: guide.SearchableItems(),
	}
}

// Categories returns the full taxonomy.
func (s *GuideService) Categories() []model.FoodCategory {
	return s.guide.Categories
}

// Search ranks the catalog against query and groups it for display. An empty
// query yields no rows.
func (s *GuideService) Search(query string) []search.Row {
	if strings.TrimSpace(query) == "" {
		return []search.Row{}
	}
	rows := search.Group(search.Rank(query, s.catalog), s.guide)
	if rows == nil {
		rows = []search.Row{}
	}
	return rows
}

// Select resolves a chosen result by category and name.
func (s *GuideService) Select(categoryID, name string) (search.Selection, error) {
	if categoryID == "" {
		return search.Selection{}, invalid("categoryId", "is required")
	}
	if name == "" {
		return search.Selection{}, invalid("name", "is required")
	}
	item, ok := search.Find(s.catalog, categoryID, name)
	if !ok {
		return search.Selection{}, fmt.Errorf("guide item %s/%s: %w", categoryID, name, repository.ErrNotFound)
	}
	return search.Select(item, s.guide), nil
}
