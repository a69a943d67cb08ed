package search

import (
	"regexp"
	"strings"

	"micropantry-api/internal/model"
)

// Row kinds.
const (
	RowCategory = "category"
	RowItem     = "item"
)

// Row is one entry of the rendered result dropdown.
type Row struct {
	Kind           string   `json:"kind"`
	Name           string   `json:"name"`
	CategoryID     string   `json:"categoryId"`
	CategoryName   string   `json:"categoryName"`
	Color          string   `json:"color"`
	ParentItem     string   `json:"parentItem,omitempty"`
	Icon           string   `json:"icon,omitempty"`
	Considerations []string `json:"considerations,omitempty"`
	Storage        string   `json:"storage,omitempty"`
}

// Group turns ranked matches into display rows. Category aliases surface once
// per parent subcategory, ahead of all item rows.
func Group(ranked []model.SearchableItem, guide *model.FoodGuide) []Row {
	var (
		categoryRows []Row
		itemRows     []Row
		seen         = make(map[string]bool)
	)
	for _, item := range ranked {
		sub, hasSub := guide.Subcategory(item)
		if hasSub && item.Name == item.ParentItem {
			key := item.CategoryID + "::" + item.ParentItem
			if seen[key] {
				continue
			}
			seen[key] = true
			categoryRows = append(categoryRows, Row{
				Kind:         RowCategory,
				Name:         item.Name,
				CategoryID:   item.CategoryID,
				CategoryName: categoryName(guide, item.CategoryID),
				Color:        categoryColor(guide, item.CategoryID),
				ParentItem:   item.ParentItem,
				Icon:         iconOf(sub),
			})
			continue
		}

		row := Row{
			Kind:         RowItem,
			Name:         item.Name,
			CategoryID:   item.CategoryID,
			CategoryName: categoryName(guide, item.CategoryID),
			Color:        categoryColor(guide, item.CategoryID),
			ParentItem:   item.ParentItem,
			Storage:      StorageLabel(""),
		}
		if hasSub {
			row.Considerations = ConsiderationParts(sub.Considerations)
			row.Storage = StorageLabel(sub.Storage)
		}
		itemRows = append(itemRows, row)
	}
	return append(categoryRows, itemRows...)
}

const notePrefix = "Note:"

var sentenceBreak = regexp.MustCompile(`[.!?]+`)

// ConsiderationParts splits considerations into the main text and its
// trailing "Note:", or returns the first sentence when there is no note.
func ConsiderationParts(considerations string) []string {
	if considerations == "" {
		return nil
	}
	idx := strings.Index(considerations, notePrefix)
	if idx == -1 {
		return []string{FirstSentence(considerations)}
	}
	main := strings.TrimSuffix(strings.TrimSpace(considerations[:idx]), ".")
	note := strings.TrimSpace(considerations[idx:])
	return nonEmpty(main, note)
}

// FirstSentence returns the text up to the first '.', '!' or '?'. When that
// is blank the whole text is returned.
func FirstSentence(text string) string {
	if text == "" {
		return ""
	}
	first := strings.TrimSpace(sentenceBreak.Split(text, 2)[0])
	if first == "" {
		return text
	}
	return first
}

var storageLabels = map[string]string{
	"pantry":  "Pantry",
	"fridge":  "Fridge",
	"freezer": "Freezer",
	"none":    "N/A",
}

// StorageLabel maps a storage value onto its display label. Unknown and
// empty values read "N/A".
func StorageLabel(storage string) string {
	if label, ok := storageLabels[strings.ToLower(strings.TrimSpace(storage))]; ok {
		return label
	}
	return "N/A"
}

func categoryName(g *model.FoodGuide, id string) string {
	if c, ok := g.Category(id); ok {
		return c.Name
	}
	return ""
}

func categoryColor(g *model.FoodGuide, id string) string {
	if c, ok := g.Category(id); ok && c.Color != "" {
		return c.Color
	}
	return "gray"
}

func iconOf(sub *model.SubCategory) string {
	if sub.Icon == "" {
		return "pantry"
	}
	return sub.Icon
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
