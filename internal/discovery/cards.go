package discovery

import (
	"fmt"
	"strings"
	"time"

	"micropantry-api/internal/model"
)

// EmptyListMessage is shown when no pantry is in view.
const EmptyListMessage = "No pantries in the current view."

// Badge is the stock badge of a list card.
type Badge struct {
	Label string `json:"label"`
	Class string `json:"class"`
}

// StockBadge classifies a raw item count for list cards.
func StockBadge(total int) Badge {
	switch {
	case total <= 10:
		return Badge{Label: "Low Stock", Class: "low"}
	case total <= 30:
		return Badge{Label: "Medium Stock", Class: "medium"}
	default:
		return Badge{Label: "In Stock", Class: "high"}
	}
}

// RestockPhrase describes how long ago a pantry was restocked.
func RestockPhrase(updatedAt string, now time.Time) string {
	t, ok := model.ParseInstant(updatedAt)
	if !ok || t.UnixMilli() == 0 {
		return "Unknown"
	}
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}
	days := int(diff / (24 * time.Hour))
	switch days {
	case 0:
		return "Restocked within 1 day"
	case 1:
		return "Restocked 1 day ago"
	default:
		return fmt.Sprintf("Restocked %d days ago", days)
	}
}

// Card is one row of the rendered pantry list.
type Card struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Address string  `json:"address"`
	Photo   string  `json:"photo,omitempty"`
	Type    string  `json:"pantryType"`
	Status  string  `json:"status"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Stock   int     `json:"stock"`
	Badge   Badge   `json:"badge"`
	Restock string  `json:"restock"`
}

// ListView is the rendered list region.
type ListView struct {
	Title    string   `json:"title"`
	Count    int      `json:"count"`
	Controls Controls `json:"controls"`
	Cards    []Card   `json:"cards"`
	Empty    string   `json:"empty,omitempty"`
}

// BuildListView renders the ordered pantries as list cards.
func BuildListView(pantries []model.Pantry, controls Controls, now time.Time) ListView {
	view := ListView{
		Count:    len(pantries),
		Controls: controls,
		Cards:    make([]Card, 0, len(pantries)),
	}
	if len(pantries) == 0 {
		view.Title = "Pantries in view"
		view.Empty = EmptyListMessage
		return view
	}
	view.Title = fmt.Sprintf("Pantries in view (%d)", len(pantries))
	for _, p := range pantries {
		view.Cards = append(view.Cards, NewCard(p, now))
	}
	return view
}

// NewCard renders a single pantry card.
func NewCard(p model.Pantry, now time.Time) Card {
	title := strings.TrimSpace(p.Name)
	if title == "" {
		title = "Untitled Pantry"
	}
	total := p.TotalStock()
	lat, lng, _ := p.Coordinates()
	c := Card{
		ID:      p.ID,
		Title:   title,
		Address: strings.TrimSpace(p.Address),
		Type:    p.PantryType,
		Status:  p.Status,
		Lat:     lat,
		Lng:     lng,
		Stock:   total,
		Badge:   StockBadge(total),
		Restock: RestockPhrase(p.UpdatedAt(), now),
	}
	if len(p.Photos) > 0 {
		c.Photo = p.Photos[0]
	}
	return c
}
