package handler

import (
	"net/http"
	"runtime"
	"time"

	"micropantry-api/internal/cache"
	"micropantry-api/internal/ingest"
	"micropantry-api/internal/repository"
	"micropantry-api/internal/service"
	"micropantry-api/pkg/response"
)

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	store     repository.Store
	cache     cache.Cache
	catalog   *service.CatalogService
	retention *service.RetentionScheduler
	ingestor  *ingest.Ingestor
	storeType string
	startTime time.Time
}

// NewAdminHandler creates a new admin handler. retention and ingestor may be
// nil when those components are disabled.
func NewAdminHandler(
	store repository.Store,
	c cache.Cache,
	catalog *service.CatalogService,
	retention *service.RetentionScheduler,
	ingestor *ingest.Ingestor,
	storeType string,
) *AdminHandler {
	return &AdminHandler{
		store:     store,
		cache:     c,
		catalog:   catalog,
		retention: retention,
		ingestor:  ingestor,
		storeType: storeType,
		startTime: time.Now(),
	}
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats := make(map[string]interface{})

	stats["uptime_seconds"] = int64(time.Since(h.startTime).Seconds())
	stats["uptime_human"] = time.Since(h.startTime).Round(time.Second).String()
	stats["server_time"] = time.Now().Format(time.RFC3339)
	stats["store_type"] = h.storeType

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats["memory"] = map[string]interface{}{
		"alloc_mb":      float64(memStats.Alloc) / 1024 / 1024,
		"sys_mb":        float64(memStats.Sys) / 1024 / 1024,
		"heap_inuse_mb": float64(memStats.HeapInuse) / 1024 / 1024,
		"num_gc":        memStats.NumGC,
		"goroutines":    runtime.NumGoroutine(),
	}

	if h.cache != nil {
		cacheStats, err := h.cache.Stats(ctx)
		if err == nil {
			stats["cache"] = cacheStats
		} else {
			stats["cache"] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
		}
	}

	if h.store != nil {
		storeStats, err := h.store.GetStats(ctx)
		if err == nil {
			storeStats["status"] = "connected"
			stats["store"] = storeStats
		} else {
			stats["store"] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
		}
	}

	if h.ingestor != nil {
		stats["ingest"] = h.ingestor.Stats()
	} else {
		stats["ingest"] = map[string]interface{}{
			"status": "not_configured",
		}
	}

	stats["runtime"] = map[string]interface{}{
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"cpus":       runtime.NumCPU(),
	}

	response.OK(w, stats)
}

// RefreshCatalog handles POST /api/v1/admin/catalog/refresh
func (h *AdminHandler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Refresh(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	pantries, err := h.catalog.Pantries(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, map[string]interface{}{
		"status":   "refreshed",
		"pantries": len(pantries),
	})
}

// RunRetention handles POST /api/v1/admin/retention/run
func (h *AdminHandler) RunRetention(w http.ResponseWriter, r *http.Request) {
	if h.retention == nil {
		response.OK(w, service.RetentionResult{})
		return
	}
	res, err := h.retention.RunNow()
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, res)
}
