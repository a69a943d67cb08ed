package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"micropantry-api/internal/cache"
	"micropantry-api/internal/discovery"
	"micropantry-api/internal/model"
	"micropantry-api/internal/repository"
	"micropantry-api/internal/source"
	"micropantry-api/internal/stock"
	"micropantry-api/internal/telemetry"
)

const catalogCacheKey = "catalog:pantries"

// CatalogService serves the pantry catalog from a cached snapshot.
type CatalogService struct {
	source source.CatalogSource
	cache  cache.Cache
	ttl    time.Duration
	loc    *time.Location
	now    func() time.Time
}

// NewCatalogService creates a catalog service. Snapshots live in c for ttl.
func NewCatalogService(src source.CatalogSource, c cache.Cache, ttl time.Duration, loc *time.Location) *CatalogService {
	if loc == nil {
		loc = time.UTC
	}
	return &CatalogService{
		source: src,
		cache:  c,
		ttl:    ttl,
		loc:    loc,
		now:    time.Now,
	}
}

// Pantries returns the full catalog.
func (s *CatalogService) Pantries(ctx context.Context) ([]model.Pantry, error) {
	data, err := s.cache.GetOrSet(ctx, catalogCacheKey, s.ttl, func() ([]byte, error) {
		pantries, err := s.source.Pantries(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(pantries)
	})
	if err != nil {
		return nil, err
	}

	var pantries []model.Pantry
	if err := json.Unmarshal(data, &pantries); err != nil {
		// A corrupt snapshot is evicted so the next call refetches.
		_ = s.cache.Delete(ctx, catalogCacheKey)
		return nil, fmt.Errorf("failed to decode catalog snapshot: %w", err)
	}
	return pantries, nil
}

// Refresh drops the cached snapshot.
func (s *CatalogService) Refresh(ctx context.Context) error {
	return s.cache.Delete(ctx, catalogCacheKey)
}

// Pantry returns one pantry by id.
func (s *CatalogService) Pantry(ctx context.Context, id string) (*model.Pantry, error) {
	pantries, err := s.Pantries(ctx)
	if err != nil {
		return nil, err
	}
	for i := range pantries {
		if pantries[i].ID == id {
			return &pantries[i], nil
		}
	}
	return nil, fmt.Errorf("pantry %s: %w", id, repository.ErrNotFound)
}

// Visible runs the list synchronizer against the current catalog.
func (s *CatalogService) Visible(ctx context.Context, bounds discovery.Bounds, controls discovery.Controls) (discovery.ListView, error) {
	pantries, err := s.Pantries(ctx)
	if err != nil {
		return discovery.ListView{}, err
	}
	visible := discovery.ComputeVisibleList(pantries, bounds, controls)
	return discovery.BuildListView(visible, controls, s.now()), nil
}

// PantryDetail is the detail view of one pantry.
type PantryDetail struct {
	Pantry  model.Pantry       `json:"pantry"`
	Card    discovery.Card     `json:"card"`
	Stock   stock.Reading      `json:"stock"`
	Sensors telemetry.Snapshot `json:"sensors"`
}

// Detail builds the detail view: card, stock gauge and sensor snapshot.
func (s *CatalogService) Detail(ctx context.Context, id string) (*PantryDetail, error) {
	p, err := s.Pantry(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &PantryDetail{
		Pantry:  *p,
		Card:    discovery.NewCard(*p, now),
		Stock:   stock.Classify(float64(p.TotalStock()), stock.DefaultCapacity),
		Sensors: telemetry.NewSnapshot(p.Sensors, now, s.loc),
	}, nil
}
