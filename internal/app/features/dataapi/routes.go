package dataapi

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the dataset API endpoints on the given router.
// The API features share one /api router, so each mounts onto it instead
// of owning a subtree.
func MountRoutes(r chi.Router, h *Handler) {
	r.Post("/upload", h.ServeUpload)
	r.Post("/reset", h.ServeReset)
	r.Get("/data", h.ServeData)
	r.Get("/series", h.ServeSeries)
}

// Routes returns a standalone router with the dataset API endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	MountRoutes(r, h)
	return r
}
