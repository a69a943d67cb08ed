package model

// Tier colors of the donation guide.
const (
	ColorGreen  = "green"
	ColorYellow = "yellow"
	ColorRed    = "red"
)

// FoodGuide is the curated donation taxonomy.
type FoodGuide struct {
	Categories []FoodCategory `json:"categories" yaml:"categories"`
}

// FoodCategory is a top-level tier of the guide.
type FoodCategory struct {
	ID            string        `json:"id" yaml:"id"`
	Name          string        `json:"name" yaml:"name"`
	Color         string        `json:"color" yaml:"color"`
	Subcategories []SubCategory `json:"subcategories" yaml:"subcategories"`
}

// SubCategory groups example items that share donation advice.
type SubCategory struct {
	ID             string   `json:"id" yaml:"id"`
	Title          string   `json:"title" yaml:"title"`
	Icon           string   `json:"icon,omitempty" yaml:"icon"`
	Considerations string   `json:"considerations" yaml:"considerations"`
	Storage        string   `json:"storage" yaml:"storage"`
	Items          []string `json:"items" yaml:"items"`
}

// SearchableItem is one entry of the flat search catalog.
type SearchableItem struct {
	Name       string `json:"name"`
	CategoryID string `json:"categoryId"`
	Color      string `json:"color"`
	ParentItem string `json:"parentItem,omitempty"`
}

// Category returns the category with the given id.
func (g *FoodGuide) Category(id string) (*FoodCategory, bool) {
	for i := range g.Categories {
		if g.Categories[i].ID == id {
			return &g.Categories[i], true
		}
	}
	return nil, false
}

// Subcategory resolves the parent subcategory of a searchable item.
func (g *FoodGuide) Subcategory(item SearchableItem) (*SubCategory, bool) {
	if item.ParentItem == "" {
		return nil, false
	}
	cat, ok := g.Category(item.CategoryID)
	if !ok {
		return nil, false
	}
	for i := range cat.Subcategories {
		if cat.Subcategories[i].Title == item.ParentItem {
			return &cat.Subcategories[i], true
		}
	}
	return nil, false
}

// SearchableItems flattens the guide: one alias entry per subcategory
// followed by one entry per example item.
func (g *FoodGuide) SearchableItems() []SearchableItem {
	var items []SearchableItem
	for _, cat := range g.Categories {
		for _, sub := range cat.Subcategories {
			items = append(items, SearchableItem{
				Name:       sub.Title,
				CategoryID: cat.ID,
				Color:      cat.Color,
				ParentItem: sub.Title,
			})
			for _, name := range sub.Items {
				if name == sub.Title {
					continue
				}
				items = append(items, SearchableItem{
					Name:       name,
					CategoryID: cat.ID,
					Color:      cat.Color,
					ParentItem: sub.Title,
				})
			}
		}
	}
	return items
}
