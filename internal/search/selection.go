package search

import (
	"strings"

	"micropantry-api/internal/model"
)

// Check-with-site vocabulary.
const (
	CheckWithSiteCategoryID = "check-with-site"
	rawMeatSubcategoryID    = "raw-meat"
	hygieneSubcategoryID    = "hygiene-items"

	PolicyReminder = "Your local micro-pantry or community fridge may not accept this type of item. Please follow any site-specific policies when donating."
)

// CategoryDetail is the full subcategory card opened from an alias.
type CategoryDetail struct {
	CategoryID   string            `json:"categoryId"`
	CategoryName string            `json:"categoryName"`
	Color        string            `json:"color"`
	Subcategory  model.SubCategory `json:"subcategory"`
}

// ItemSummary is the inline summary shown for a selected item.
type ItemSummary struct {
	Name               string   `json:"name"`
	CategoryID         string   `json:"categoryId"`
	CategoryName       string   `json:"categoryName"`
	Color              string   `json:"color"`
	FirstConsideration string   `json:"firstConsideration,omitempty"`
	Storage            string   `json:"storage"`
	CheckWithSite      []string `json:"checkWithSite,omitempty"`
}

// Selection is the outcome of choosing a search result. Exactly one of
// Category and Item is set.
type Selection struct {
	Category *CategoryDetail `json:"category,omitempty"`
	Item     *ItemSummary    `json:"item,omitempty"`
}

// IsCategoryAlias reports whether item stands for its whole subcategory.
func IsCategoryAlias(item model.SearchableItem, sub *model.SubCategory) bool {
	if sub == nil || item.ParentItem == "" {
		return false
	}
	name := strings.ToLower(strings.TrimSpace(item.Name))
	parent := strings.ToLower(strings.TrimSpace(item.ParentItem))
	return name == parent || strings.HasPrefix(name, parent+" (")
}

// Select resolves a chosen result into a category detail or an item summary.
func Select(item model.SearchableItem, guide *model.FoodGuide) Selection {
	sub, _ := guide.Subcategory(item)
	if IsCategoryAlias(item, sub) {
		return Selection{Category: &CategoryDetail{
			CategoryID:   item.CategoryID,
			CategoryName: categoryName(guide, item.CategoryID),
			Color:        categoryColor(guide, item.CategoryID),
			Subcategory:  *sub,
		}}
	}

	summary := &ItemSummary{
		Name:         item.Name,
		CategoryID:   item.CategoryID,
		CategoryName: categoryName(guide, item.CategoryID),
		Color:        categoryColor(guide, item.CategoryID),
		Storage:      "N/A",
	}
	if sub != nil {
		summary.FirstConsideration = FirstSentence(sub.Considerations)
		summary.Storage = StorageLabel(sub.Storage)
	}
	if item.CategoryID == CheckWithSiteCategoryID {
		summary.CheckWithSite = CheckWithSiteBullets(sub)
	}
	return Selection{Item: summary}
}

// CheckWithSiteBullets lists the considerations of an item whose acceptance
// depends on the pantry's own policy.
func CheckWithSiteBullets(sub *model.SubCategory) []string {
	var considerations, id, title string
	if sub != nil {
		considerations, id, title = sub.Considerations, sub.ID, sub.Title
	}

	if id == rawMeatSubcategoryID || strings.ToLower(strings.TrimSpace(title)) == "raw meat" {
		return []string{
			"Original, unopened packaging",
			"Some sites may require raw meat to be frozen.",
			PolicyReminder,
		}
	}
	if id == hygieneSubcategoryID {
		if idx := strings.Index(considerations, notePrefix); idx != -1 {
			main := strings.TrimSuffix(strings.TrimSpace(considerations[:idx]), ".")
			note := strings.TrimSpace(considerations[idx:])
			return nonEmpty(main, note, PolicyReminder)
		}
	}
	return nonEmpty(considerations, PolicyReminder)
}

// Find looks up a catalog entry by category and exact name.
func Find(catalog []model.SearchableItem, categoryID, name string) (model.SearchableItem, bool) {
	for _, item := range catalog {
		if item.CategoryID == categoryID && item.Name == name {
			return item, true
		}
	}
	return model.SearchableItem{}, false
}
