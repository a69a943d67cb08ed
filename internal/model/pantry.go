package model

import "strings"

// Pantry status values.
const (
	StatusOpen         = "open"
	StatusClosed       = "closed"
	StatusLowInventory = "low-inventory"
)

// Pantry types.
const (
	TypeFridge = "fridge"
	TypeShelf  = "shelf"
)

// Pantry is a food-sharing station as served by the catalog source.
type Pantry struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Location    *Location  `json:"location,omitempty"`
	Address     string     `json:"address"`
	Status      string     `json:"status"`
	PantryType  string     `json:"pantryType"`
	Inventory   *Inventory `json:"inventory,omitempty"`
	Sensors     *Sensors   `json:"sensors,omitempty"`
	Photos      []string   `json:"photos,omitempty"`
	Description string     `json:"description,omitempty"`
	Contact     *Contact   `json:"contact,omitempty"`
}

// Location is a map position. Both coordinates are required for placement.
type Location struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// Inventory is the ordered set of stocked categories.
type Inventory struct {
	Categories []InventoryCategory `json:"categories"`
}

// InventoryCategory is one stocked category and its item count.
type InventoryCategory struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Sensors is the latest sensor snapshot attached to a pantry.
type Sensors struct {
	WeightKg      *float64 `json:"weightKg,omitempty"`
	LastDoorEvent string   `json:"lastDoorEvent,omitempty"`
	UpdatedAt     string   `json:"updatedAt,omitempty"`
	FoodCondition string   `json:"foodCondition,omitempty"`
}

// Contact is the pantry host.
type Contact struct {
	Owner string `json:"owner,omitempty"`
	Email string `json:"email,omitempty"`
}

// Coordinates returns the pantry position and whether it can be placed on a map.
func (p *Pantry) Coordinates() (lat, lng float64, ok bool) {
	if p.Location == nil || p.Location.Lat == nil || p.Location.Lng == nil {
		return 0, 0, false
	}
	return *p.Location.Lat, *p.Location.Lng, true
}

// TotalStock sums the quantities of all inventory categories.
func (p *Pantry) TotalStock() int {
	if p.Inventory == nil {
		return 0
	}
	total := 0
	for _, c := range p.Inventory.Categories {
		total += c.Quantity
	}
	return total
}

// UpdatedAt returns the raw sensor update timestamp, or "" if there is none.
func (p *Pantry) UpdatedAt() string {
	if p.Sensors == nil {
		return ""
	}
	return strings.TrimSpace(p.Sensors.UpdatedAt)
}
