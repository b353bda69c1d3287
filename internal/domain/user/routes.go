package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns user router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/profile", h.GetProfile)
	r.Post("/profile-picture", h.UploadProfilePicture)
	r.Delete("/profile-picture", h.RemoveProfilePicture)
	r.Delete("/account", h.DeleteAccount)

	return r
}
