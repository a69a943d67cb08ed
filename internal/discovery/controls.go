package discovery

import (
	"fmt"
	"strings"
)

// Type filter values.
const (
	TypeAll    = "all"
	TypeFridge = "fridge"
	TypeShelf  = "shelf"
)

// Stock sort values.
const (
	StockAny     = "any"
	StockHighLow = "high-low"
	StockLowHigh = "low-high"
)

// Restock sort values.
const (
	RestockNewest = "newest"
	RestockOldest = "oldest"
)

// Controls is the list filter/sort state chosen by the user.
type Controls struct {
	Type    string `json:"type"`
	Stock   string `json:"stock"`
	Restock string `json:"restock"`
}

// DefaultControls returns the initial control values.
func DefaultControls() Controls {
	return Controls{Type: TypeAll, Stock: StockAny, Restock: RestockNewest}
}

// ParseControls builds controls from raw values. Empty values keep their
// defaults; unknown values are rejected.
func ParseControls(typ, stock, restock string) (Controls, error) {
	c := DefaultControls()
	if v := strings.ToLower(strings.TrimSpace(typ)); v != "" {
		c.Type = v
	}
	if v := strings.ToLower(strings.TrimSpace(stock)); v != "" {
		c.Stock = v
	}
	if v := strings.ToLower(strings.TrimSpace(restock)); v != "" {
		c.Restock = v
	}
	return c, c.Validate()
}

// Validate reports the first control holding an unknown value.
func (c Controls) Validate() error {
	switch c.Type {
	case TypeAll, TypeFridge, TypeShelf:
	default:
		return fmt.Errorf("invalid type filter %q", c.Type)
	}
	switch c.Stock {
	case StockAny, StockHighLow, StockLowHigh:
	default:
		return fmt.Errorf("invalid stock sort %q", c.Stock)
	}
	switch c.Restock {
	case RestockNewest, RestockOldest:
	default:
		return fmt.Errorf("invalid restock sort %q", c.Restock)
	}
	return nil
}
