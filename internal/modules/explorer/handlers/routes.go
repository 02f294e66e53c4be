package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all explorer routes
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/explorer", func(r chi.Router) {
		r.Get("/presets", h.HandleGetPresets) // Named weight presets

		// Pipeline views; all accept preset, weights, w1..w3, granularity and n
		r.Get("/view", h.HandleGetView)
		r.Get("/rankings", h.HandleGetRankings)
		r.Get("/regions", h.HandleGetRegions)
		r.Get("/map", h.HandleGetMap)
		r.Get("/continents", h.HandleGetContinents)
		r.Get("/high-scorers", h.HandleGetHighScorers)

		// Rendered charts (png, svg or pdf)
		r.Route("/charts", func(r chi.Router) {
			r.Get("/regions.{format}", h.HandleGetRegionChart)
			r.Get("/map.{format}", h.HandleGetMapChart)
		})

		// Memo cache
		r.Route("/cache", func(r chi.Router) {
			r.Get("/stats", h.HandleGetCacheStats)
			r.Post("/invalidate", h.HandleInvalidateCache)
		})
	})
}
