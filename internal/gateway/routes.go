package gateway

import (
	"github.com/go-chi/chi/v5"
)

// SetupRoutes registers the gateway endpoints.
func SetupRoutes(router chi.Router, h *Handlers) {
	router.Post("/create", h.CreateTable)
	router.Post("/delete", h.DeleteTable)
	router.Post("/update", h.UpdateRows)

	router.NotFound(h.UnknownPath)
}
