// Package search ranks free-text queries against the donation guide catalog
// and prepares the matched rows for display.
package search

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"micropantry-api/internal/model"
)

// Match tiers, lower ranks first.
const (
	TierPrefix    = 0
	TierWord      = 1
	TierSubstring = 2
)

// minSpecificForCrossTier is how many specific "<x> <query>" matches it takes
// to push the bare generic entry out of a better tier.
const minSpecificForCrossTier = 2

type candidate struct {
	item     model.SearchableItem
	lower    string
	tier     int
	generic  bool
	specific bool
}

// Rank returns the catalog items whose name contains query, ordered by tier
// then by name. A blank query matches nothing.
func Rank(query string, catalog []model.SearchableItem) []model.SearchableItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []model.SearchableItem{}
	}

	var (
		matches     []candidate
		specificMax = -1
		specificN   int
	)
	for _, item := range catalog {
		lower := strings.ToLower(item.Name)
		if !strings.Contains(lower, q) {
			continue
		}
		c := candidate{
			item:     item,
			lower:    lower,
			tier:     Tier(lower, q),
			generic:  lower == q && !strings.Contains(lower, " "),
			specific: strings.Contains(lower, " ") && strings.HasSuffix(lower, " "+q),
		}
		if c.specific {
			specificN++
			if c.tier > specificMax {
				specificMax = c.tier
			}
		}
		matches = append(matches, c)
	}
	if len(matches) == 0 {
		return []model.SearchableItem{}
	}

	hasSpecific := specificN > 0
	if specificN >= minSpecificForCrossTier {
		for i := range matches {
			if matches[i].generic && matches[i].tier < specificMax {
				matches[i].tier = specificMax
			}
		}
	}

	col := collate.New(language.Und, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.tier != b.tier {
			return a.tier < b.tier
		}
		if hasSpecific && a.generic != b.generic {
			return b.generic
		}
		return col.CompareString(a.item.Name, b.item.Name) < 0
	})

	out := make([]model.SearchableItem, len(matches))
	for i, m := range matches {
		out[i] = m.item
	}
	return out
}

// Tier classifies how a lower-cased name matches a lower-cased query.
func Tier(name, query string) int {
	if strings.HasPrefix(name, query) {
		return TierPrefix
	}
	for _, w := range splitWords(name) {
		if w == query {
			return TierWord
		}
	}
	return TierSubstring
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '/' || unicode.IsSpace(r)
	})
}
