package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"micropantry-api/internal/handler"
	"micropantry-api/internal/middleware"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler          *handler.Handler
	PantryHandler    *handler.PantryHandler
	HistoryHandler   *handler.HistoryHandler
	CommunityHandler *handler.CommunityHandler
	GuideHandler     *handler.GuideHandler
	SessionHandler   *handler.SessionHandler
	AdminHandler     *handler.AdminHandler
	CORSOrigins      []string
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Health check endpoints
		if cfg.Handler != nil {
			r.Get("/health", cfg.Handler.Health)
			r.Get("/ready", cfg.Handler.Ready)
		}

		r.Route("/pantries", func(r chi.Router) {
			if cfg.PantryHandler != nil {
				r.Get("/", cfg.PantryHandler.List)
				r.Get("/visible", cfg.PantryHandler.Visible)
				r.Get("/{id}", cfg.PantryHandler.Detail)
			}

			if cfg.HistoryHandler != nil {
				r.Route("/{id}/history", func(r chi.Router) {
					r.Get("/", cfg.HistoryHandler.View)
					r.Get("/chart.svg", cfg.HistoryHandler.ChartSVG)
					r.Get("/chart.png", cfg.HistoryHandler.ChartPNG)
				})
			}

			if cfg.CommunityHandler != nil {
				r.Route("/{id}/wishlist", func(r chi.Router) {
					r.Get("/", cfg.CommunityHandler.ListWishlist)
					r.Post("/", cfg.CommunityHandler.CreateWishlistItem)
					r.Put("/{itemId}", cfg.CommunityHandler.UpdateWishlistItem)
					r.Delete("/{itemId}", cfg.CommunityHandler.DeleteWishlistItem)
				})
				r.Route("/{id}/donations", func(r chi.Router) {
					r.Get("/", cfg.CommunityHandler.ListDonations)
					r.Post("/", cfg.CommunityHandler.CreateDonation)
				})
			}
		})

		// Donation guide endpoints
		if cfg.GuideHandler != nil {
			r.Route("/guide", func(r chi.Router) {
				r.Get("/categories", cfg.GuideHandler.Categories)
				r.Get("/search", cfg.GuideHandler.Search)
				r.Get("/select", cfg.GuideHandler.Select)
			})
		}

		// View session endpoints
		if cfg.SessionHandler != nil {
			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", cfg.SessionHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", cfg.SessionHandler.Get)
					r.Delete("/", cfg.SessionHandler.Delete)
					r.Put("/viewport", cfg.SessionHandler.SetViewport)
					r.Put("/controls", cfg.SessionHandler.SetControls)
					r.Post("/selection", cfg.SessionHandler.Select)
					r.Delete("/selection", cfg.SessionHandler.ClearSelection)
					r.Post("/history", cfg.SessionHandler.ExpandHistory)
					r.Delete("/history", cfg.SessionHandler.CollapseHistory)
				})
			})
		}

		// Admin endpoints
		if cfg.AdminHandler != nil {
			r.Route("/admin", func(r chi.Router) {
				r.Get("/stats", cfg.AdminHandler.GetStats)
				r.Post("/catalog/refresh", cfg.AdminHandler.RefreshCatalog)
				r.Post("/retention/run", cfg.AdminHandler.RunRetention)
			})
		}
	})

	return r
}
