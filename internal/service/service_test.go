package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"micropantry-api/internal/cache"
	"micropantry-api/internal/discovery"
	"micropantry-api/internal/model"
	"micropantry-api/internal/repository"
	"micropantry-api/internal/source"
)

type fakeCatalog struct {
	mu       sync.Mutex
	pantries []model.Pantry
	err      error
	calls    int
}

func (f *fakeCatalog) Pantries(ctx context.Context) ([]model.Pantry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.pantries, nil
}

func (f *fakeCatalog) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeTelemetry struct {
	raw     []model.RawTelemetry
	err     error
	entered chan struct{}
	release chan struct{}
}

func (f *fakeTelemetry) History(ctx context.Context, pantryID string) ([]model.RawTelemetry, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	return f.raw, f.err
}

func ptr(v float64) *float64 { return &v }

func pantry(id, typ string, lat, lng float64, stock int, updated string) model.Pantry {
	return model.Pantry{
		ID:         id,
		Name:       "Pantry " + id,
		PantryType: typ,
		Status:     model.StatusOpen,
		Location:   &model.Location{Lat: ptr(lat), Lng: ptr(lng)},
		Inventory: &model.Inventory{Categories: []model.InventoryCategory{
			{Name: "Produce", Quantity: stock},
		}},
		Sensors: &model.Sensors{UpdatedAt: updated, WeightKg: ptr(12)},
	}
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{pantries: []model.Pantry{
		pantry("a", model.TypeFridge, 40.71, -74.00, 10, "2024-06-01T10:00:00Z"),
		pantry("b", model.TypeShelf, 40.72, -74.01, 10, "2024-06-02T10:00:00Z"),
		pantry("c", model.TypeFridge, 40.73, -74.02, 5, "2024-06-03T10:00:00Z"),
		pantry("far", model.TypeFridge, 51.50, -0.12, 99, ""),
	}}
}

func sampleHistory() []model.RawTelemetry {
	return []model.RawTelemetry{
		{TS: "2024-06-01T12:00:00Z", Metrics: map[string]interface{}{"weightKg": 14.0}, Flags: map[string]interface{}{"door": "closed"}},
		{TS: "2024-06-01T10:00:00Z", Metrics: map[string]interface{}{"weightkg": 10.0}, Flags: map[string]interface{}{"door": "open"}},
	}
}

func openStore(t *testing.T) *repository.SQLStore {
	t.Helper()
	store, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "pantry.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newMemoryCache(t *testing.T) cache.Cache {
	t.Helper()
	c := cache.NewMemoryCache()
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCatalogService_CachesSnapshot(t *testing.T) {
	ctx := context.Background()
	src := testCatalog()
	svc := NewCatalogService(src, newMemoryCache(t), time.Minute, time.UTC)

	for i := 0; i < 3; i++ {
		pantries, err := svc.Pantries(ctx)
		if err != nil {
			t.Fatalf("Pantries: %v", err)
		}
		if len(pantries) != 4 {
			t.Fatalf("len = %d, want 4", len(pantries))
		}
	}
	if src.callCount() != 1 {
		t.Errorf("source calls = %d, want 1", src.callCount())
	}

	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if _, err := svc.Pantries(ctx); err != nil {
		t.Fatalf("Pantries: %v", err)
	}
	if src.callCount() != 2 {
		t.Errorf("source calls after refresh = %d, want 2", src.callCount())
	}
}

func TestCatalogService_Unavailable(t *testing.T) {
	src := &fakeCatalog{err: source.ErrUnavailable}
	svc := NewCatalogService(src, newMemoryCache(t), time.Minute, time.UTC)
	if _, err := svc.Pantries(context.Background()); !errors.Is(err, source.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestCatalogService_VisibleAndDetail(t *testing.T) {
	ctx := context.Background()
	svc := NewCatalogService(testCatalog(), newMemoryCache(t), time.Minute, time.UTC)
	svc.now = func() time.Time { return time.Date(2024, 6, 4, 10, 0, 0, 0, time.UTC) }

	bounds, err := discovery.ParseBounds("41", "40", "-73", "-75")
	if err != nil {
		t.Fatal(err)
	}
	view, err := svc.Visible(ctx, bounds, discovery.Controls{
		Type:    discovery.TypeAll,
		Stock:   discovery.StockHighLow,
		Restock: discovery.RestockNewest,
	})
	if err != nil {
		t.Fatalf("Visible: %v", err)
	}
	var ids []string
	for _, c := range view.Cards {
		ids = append(ids, c.ID)
	}
	if len(ids) != 3 || ids[0] != "b" || ids[1] != "a" || ids[2] != "c" {
		t.Errorf("order = %v, want [b a c]", ids)
	}

	detail, err := svc.Detail(ctx, "c")
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if detail.Pantry.ID != "c" || detail.Card.Stock != 5 {
		t.Errorf("detail = %+v", detail)
	}

	if _, err := svc.Detail(ctx, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestHistoryService(t *testing.T) {
	ctx := context.Background()

	ok := NewHistoryService(&fakeTelemetry{raw: sampleHistory()}, time.UTC)
	view := ok.View(ctx, "a")
	if view.Error != "" || view.Weight == nil || len(view.Weight.Points) != 2 {
		t.Fatalf("view = %+v", view)
	}
	if view.Doors == nil || view.Doors.Total != 2 {
		t.Errorf("doors = %+v", view.Doors)
	}
	svg, err := ok.ChartSVG(ctx, "a")
	if err != nil || svg == "" {
		t.Errorf("ChartSVG = %q, %v", svg, err)
	}
	png, err := ok.ChartPNG(ctx, "a")
	if err != nil || len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Errorf("ChartPNG: %d bytes, %v", len(png), err)
	}

	failing := NewHistoryService(&fakeTelemetry{err: source.ErrUnavailable}, time.UTC)
	if v := failing.View(ctx, "a"); v.Error == "" || v.PantryID != "a" {
		t.Errorf("failed view = %+v", v)
	}
	if _, err := failing.ChartPNG(ctx, "a"); !errors.Is(err, source.ErrUnavailable) {
		t.Errorf("ChartPNG err = %v", err)
	}

	empty := NewHistoryService(&fakeTelemetry{raw: []model.RawTelemetry{}}, time.UTC)
	if _, err := empty.ChartPNG(ctx, "a"); err == nil {
		t.Error("expected error for empty series")
	}
}
