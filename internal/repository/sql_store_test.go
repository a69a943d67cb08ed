package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"micropantry-api/internal/model"
)

func openTestStore(t *testing.T, path string) *SQLStore {
	t.Helper()
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	return store
}

func TestSQLWishlist_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "pantry.db")

	store := openTestStore(t, path)
	item := &model.WishlistItem{ID: "item_1", PantryID: "p1", Name: "Milk", Quantity: 2}
	if err := store.Wishlist().Create(ctx, item); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if item.CreatedAt.IsZero() {
		t.Fatal("CreatedAt not set")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	store = openTestStore(t, path)
	defer store.Close()

	items, err := store.Wishlist().List(ctx, "p1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len = %d, want 1", len(items))
	}
	got := items[0]
	if got.Name != "Milk" || got.Quantity != 2 || got.ID != "item_1" || !got.CreatedAt.Equal(item.CreatedAt) {
		t.Errorf("unexpected item: %+v", got)
	}
}

func TestSQLWishlist_CRUD(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, filepath.Join(t.TempDir(), "pantry.db"))
	defer store.Close()
	repo := store.Wishlist()

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"Rice", "Beans", "Oats"} {
		it := &model.WishlistItem{ID: "w" + name, PantryID: "p1", Name: name, Quantity: 1, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repo.Create(ctx, it); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}
	other := &model.WishlistItem{ID: "wX", PantryID: "p2", Name: "Soap", Quantity: 1}
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("Create other: %v", err)
	}

	items, err := repo.List(ctx, "p1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"Rice", "Beans", "Oats"}
	if len(items) != len(want) {
		t.Fatalf("len = %d, want %d", len(items), len(want))
	}
	for i := range want {
		if items[i].Name != want[i] {
			t.Errorf("items[%d] = %s, want %s", i, items[i].Name, want[i])
		}
	}

	if err := repo.Update(ctx, &model.WishlistItem{ID: "wBeans", PantryID: "p1", Name: "Black Beans", Quantity: 4}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.Get(ctx, "p1", "wBeans")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Black Beans" || got.Quantity != 4 {
		t.Errorf("after update: %+v", got)
	}

	// Items are scoped to their pantry.
	if _, err := repo.Get(ctx, "p1", "wX"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get other pantry: err = %v, want ErrNotFound", err)
	}
	if err := repo.Update(ctx, &model.WishlistItem{ID: "missing", PantryID: "p1", Name: "x", Quantity: 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update missing: err = %v, want ErrNotFound", err)
	}

	if err := repo.Delete(ctx, "p1", "wRice"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, "p1", "wRice"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete: err = %v, want ErrNotFound", err)
	}
	items, _ = repo.List(ctx, "p1")
	if len(items) != 2 {
		t.Errorf("len after delete = %d, want 2", len(items))
	}

	empty, err := repo.List(ctx, "nobody")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("List unknown pantry = %v, %v; want empty non-nil", empty, err)
	}
}

func TestSQLDonations_WindowAndPaging(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, filepath.Join(t.TempDir(), "pantry.db"))
	defer store.Close()
	repo := store.Donations()

	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	ages := []time.Duration{30 * time.Hour, 5 * time.Hour, 1 * time.Hour, 3 * time.Hour, 10 * time.Minute}
	for i, age := range ages {
		note := &model.DonationNote{
			ID:            "donation_" + string(rune('a'+i)),
			PantryID:      "p1",
			DonationSize:  "small",
			DonationItems: []string{"rice"},
			CreatedAt:     now.Add(-age),
		}
		if err := repo.Create(ctx, note); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	since := now.Add(-24 * time.Hour)
	page, total, err := repo.ListSince(ctx, "p1", since, 0, 2)
	if err != nil {
		t.Fatalf("ListSince: %v", err)
	}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
	if len(page) != 2 || page[0].ID != "donation_e" || page[1].ID != "donation_c" {
		t.Fatalf("first page = %+v", page)
	}
	if len(page[0].DonationItems) != 1 || page[0].DonationItems[0] != "rice" {
		t.Errorf("items not round-tripped: %+v", page[0].DonationItems)
	}

	page, _, err = repo.ListSince(ctx, "p1", since, 2, 2)
	if err != nil {
		t.Fatalf("ListSince page 2: %v", err)
	}
	if len(page) != 2 || page[0].ID != "donation_d" || page[1].ID != "donation_b" {
		t.Fatalf("second page = %+v", page)
	}

	deleted, err := repo.DeleteOlderThan(ctx, since)
	if err != nil || deleted != 1 {
		t.Errorf("DeleteOlderThan = %d, %v; want 1", deleted, err)
	}
}

func TestSQLTelemetry_HistoryIsMostRecentAscending(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, filepath.Join(t.TempDir(), "pantry.db"))
	defer store.Close()
	repo := store.Telemetry()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	w := func(v float64) *float64 { return &v }
	records := []model.TelemetryRecord{
		{PantryID: "p1", TS: base.Add(2 * time.Hour), WeightKg: w(12)},
		{PantryID: "p1", TS: base, WeightKg: w(10)},
		{PantryID: "p1", TS: base.Add(time.Hour), Door: "open"},
		{PantryID: "p2", TS: base, WeightKg: w(3)},
	}
	if err := repo.InsertBatch(ctx, records); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	got, err := repo.History(ctx, "p1", 2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !got[0].TS.Equal(base.Add(time.Hour)) || got[0].Door != "open" || got[0].WeightKg != nil {
		t.Errorf("got[0] = %+v", got[0])
	}
	if !got[1].TS.Equal(base.Add(2*time.Hour)) || got[1].WeightKg == nil || *got[1].WeightKg != 12 {
		t.Errorf("got[1] = %+v", got[1])
	}

	deleted, err := repo.DeleteOlderThan(ctx, base.Add(30*time.Minute))
	if err != nil || deleted != 2 {
		t.Errorf("DeleteOlderThan = %d, %v; want 2", deleted, err)
	}

	stats, err := store.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats["telemetry_readings"] != int64(2) || stats["backend"] != DialectSQLite {
		t.Errorf("unexpected stats: %v", stats)
	}
}
