// Package foodguide loads the donation guide taxonomy.
package foodguide

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"micropantry-api/internal/model"
)

//go:embed guide.yaml
var defaultGuide []byte

// Default returns the built-in guide.
func Default() (*model.FoodGuide, error) {
	return Parse(defaultGuide)
}

// Load reads the guide from path, falling back to the built-in guide when
// path is empty.
func Load(path string) (*model.FoodGuide, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read food guide: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML (or JSON) guide document and validates it.
func Parse(data []byte) (*model.FoodGuide, error) {
	var g model.FoodGuide
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse food guide: %w", err)
	}
	if err := Validate(&g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Validate checks category ids are unique and colors are known tiers.
func Validate(g *model.FoodGuide) error {
	if len(g.Categories) == 0 {
		return fmt.Errorf("food guide has no categories")
	}
	ids := make(map[string]bool, len(g.Categories))
	for i := range g.Categories {
		c := &g.Categories[i]
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			return fmt.Errorf("category %d: missing id", i)
		}
		if ids[c.ID] {
			return fmt.Errorf("category %q: duplicate id", c.ID)
		}
		ids[c.ID] = true
		switch c.Color {
		case model.ColorGreen, model.ColorYellow, model.ColorRed:
		default:
			return fmt.Errorf("category %q: unknown color %q", c.ID, c.Color)
		}
		for j := range c.Subcategories {
			if strings.TrimSpace(c.Subcategories[j].Title) == "" {
				return fmt.Errorf("category %q: subcategory %d has no title", c.ID, j)
			}
		}
	}
	return nil
}
