package search

import (
	"reflect"
	"testing"

	"micropantry-api/internal/model"
)

func TestSelect_AliasOpensCategory(t *testing.T) {
	g := testGuide()
	item, ok := Find(g.SearchableItems(), "donate-freely", "Milk")
	if !ok {
		t.Fatal("alias not found")
	}
	sel := Select(item, g)
	if sel.Category == nil || sel.Item != nil {
		t.Fatalf("selection = %+v", sel)
	}
	if sel.Category.Subcategory.ID != "dairy" {
		t.Errorf("subcategory = %s", sel.Category.Subcategory.ID)
	}
}

func TestSelect_ParentheticalAlias(t *testing.T) {
	g := testGuide()
	item := model.SearchableItem{Name: "Milk (all kinds)", CategoryID: "donate-freely", ParentItem: "Milk"}
	if sel := Select(item, g); sel.Category == nil {
		t.Errorf("expected category detail, got %+v", sel)
	}
}

func TestSelect_ItemSummary(t *testing.T) {
	g := testGuide()
	item, _ := Find(g.SearchableItems(), "donate-freely", "Oat Milk")
	sel := Select(item, g)
	if sel.Item == nil {
		t.Fatalf("selection = %+v", sel)
	}
	if sel.Item.FirstConsideration != "Keep cold" || sel.Item.Storage != "Fridge" {
		t.Errorf("summary = %+v", sel.Item)
	}
	if len(sel.Item.CheckWithSite) != 0 {
		t.Errorf("unexpected policy bullets %q", sel.Item.CheckWithSite)
	}
}

func TestSelect_CheckWithSiteBullets(t *testing.T) {
	g := testGuide()
	catalog := g.SearchableItems()

	tests := []struct {
		name string
		want []string
	}{
		{"Ground Beef", []string{"Original, unopened packaging", "Some sites may require raw meat to be frozen.", PolicyReminder}},
		{"Soap", []string{"Unopened only", "Note: Some sites refuse these.", PolicyReminder}},
		{"Mystery", []string{PolicyReminder}},
	}
	for _, tt := range tests {
		item, ok := Find(catalog, CheckWithSiteCategoryID, tt.name)
		if !ok {
			t.Fatalf("%s not found", tt.name)
		}
		sel := Select(item, g)
		if sel.Item == nil || !reflect.DeepEqual(sel.Item.CheckWithSite, tt.want) {
			t.Errorf("%s: bullets = %+v, want %q", tt.name, sel.Item, tt.want)
		}
	}
}

func TestSelect_UnknownParent(t *testing.T) {
	sel := Select(model.SearchableItem{Name: "Ghost", CategoryID: "nope"}, testGuide())
	if sel.Item == nil || sel.Item.Storage != "N/A" || sel.Item.Color != "gray" {
		t.Errorf("selection = %+v", sel.Item)
	}
}
