package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hotelbook/hotel-api/internal/middleware"
)

// Routes returns booking router; every route requires authentication
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.Create)
	r.Post("/calculate", h.Calculate)
	r.Get("/user", h.ListMine)
	r.Put("/cancel/{id}", h.Cancel)
	r.Delete("/delete/{id}", h.Delete)

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin())
		r.Get("/all", h.ListAll)
		r.Put("/approve/{id}", h.Approve)
		r.Put("/reject/{id}", h.Reject)
	})

	return r
}
