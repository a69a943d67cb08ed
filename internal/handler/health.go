package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"micropantry-api/internal/cache"
	"micropantry-api/internal/repository"
	"micropantry-api/pkg/response"
)

// StartTime tracks when the server started for uptime calculation
var StartTime = time.Now()

const readyProbeKey = "ready:probe"

// Handler contains shared HTTP handlers and their dependencies.
type Handler struct {
	service string
	version string
	store   repository.Store
	cache   cache.Cache
}

// New creates a new handler. store and c may be nil in which case their
// readiness checks are skipped.
func New(service, version string, store repository.Store, c cache.Cache) *Handler {
	return &Handler{service: service, version: version, store: store, cache: c}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// Health handles GET /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   h.version,
	}
	response.OK(w, resp)
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Ready     bool      `json:"ready"`
	Timestamp time.Time `json:"timestamp"`
	Checks    []Check   `json:"checks"`
}

// Check represents an individual readiness check.
type Check struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (h *Handler) checks(ctx context.Context) []Check {
	checks := []Check{{Name: "api", Status: "ok"}}
	if h.store != nil {
		checks = append(checks, probe("store", h.store.Ping(ctx)))
	}
	if h.cache != nil {
		_, err := h.cache.Exists(ctx, readyProbeKey)
		checks = append(checks, probe("cache", err))
	}
	return checks
}

func probe(name string, err error) Check {
	if err != nil {
		return Check{Name: name, Status: "error", Error: err.Error()}
	}
	return Check{Name: name, Status: "ok"}
}

// Ready handles GET /api/v1/ready
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	checks := h.checks(ctx)

	allReady := true
	for _, check := range checks {
		if check.Status != "ok" {
			allReady = false
			break
		}
	}

	resp := ReadyResponse{
		Ready:     allReady,
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	}

	if !allReady {
		response.JSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	response.OK(w, resp)
}

// StatusChecks represents the checks in status response
type StatusChecks struct {
	Store    string  `json:"store"`
	Cache    string  `json:"cache"`
	MemoryMB float64 `json:"memory_mb"`
}

// StatusResponse represents the unified status response for uptime monitors
type StatusResponse struct {
	Service       string       `json:"service"`
	Status        string       `json:"status"`
	Timestamp     string       `json:"timestamp"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	PingMS        int64        `json:"ping_ms"`
	Checks        StatusChecks `json:"checks"`
}

// Status handles GET /api/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	requestStart := time.Now()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	memoryMB := float64(memStats.Alloc) / 1024 / 1024

	status := StatusChecks{
		Store:    "not_configured",
		Cache:    "not_configured",
		MemoryMB: float64(int(memoryMB*100)) / 100,
	}
	overall := "ok"
	for _, c := range h.checks(r.Context()) {
		switch c.Name {
		case "store":
			status.Store = c.Status
		case "cache":
			status.Cache = c.Status
		}
		if c.Status != "ok" {
			overall = "degraded"
		}
	}

	resp := StatusResponse{
		Service:       h.service,
		Status:        overall,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		UptimeSeconds: int64(time.Since(StartTime).Seconds()),
		PingMS:        time.Since(requestStart).Milliseconds(),
		Checks:        status,
	}

	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	response.OK(w, resp)
}
