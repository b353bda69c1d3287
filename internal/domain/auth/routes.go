package auth

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns auth router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	return r
}
