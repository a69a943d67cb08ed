// Package discovery keeps the pantry list in sync with the map viewport and
// the user's filter and sort controls.
package discovery

import (
	"sort"
	"strings"

	"micropantry-api/internal/model"
)

// MaxInView caps how many in-bounds pantries are considered, before any
// filtering or sorting.
const MaxInView = 50

type ranked struct {
	pantry  model.Pantry
	stock   int
	updated int64
}

// ComputeVisibleList returns the ordered pantries to show for the viewport.
// Pantries without coordinates are never included.
func ComputeVisibleList(pantries []model.Pantry, bounds Bounds, controls Controls) []model.Pantry {
	inView := make([]model.Pantry, 0, MaxInView)
	for _, p := range pantries {
		lat, lng, ok := p.Coordinates()
		if !ok || !bounds.Contains(lat, lng) {
			continue
		}
		inView = append(inView, p)
		if len(inView) == MaxInView {
			break
		}
	}

	if controls.Type != "" && controls.Type != TypeAll {
		filtered := inView[:0]
		for _, p := range inView {
			if strings.ToLower(p.PantryType) == controls.Type {
				filtered = append(filtered, p)
			}
		}
		inView = filtered
	}

	entries := make([]ranked, len(inView))
	for i, p := range inView {
		entries[i] = ranked{pantry: p, stock: p.TotalStock(), updated: LastUpdated(p)}
	}

	// Two separate stable passes: the restock pass runs last and decides
	// the order of equal-stock entries.
	switch controls.Stock {
	case StockHighLow:
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].stock > entries[j].stock })
	case StockLowHigh:
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].stock < entries[j].stock })
	}
	switch controls.Restock {
	case RestockNewest:
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].updated > entries[j].updated })
	case RestockOldest:
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].updated < entries[j].updated })
	}

	out := make([]model.Pantry, len(entries))
	for i, e := range entries {
		out[i] = e.pantry
	}
	return out
}

// LastUpdated returns the sensor update time in Unix milliseconds, or 0 when
// it is missing or unparseable.
func LastUpdated(p model.Pantry) int64 {
	t, ok := model.ParseInstant(p.UpdatedAt())
	if !ok {
		return 0
	}
	return t.UnixMilli()
}
