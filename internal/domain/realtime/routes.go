package realtime

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the WebSocket router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.With(tokenFromQuery, authMiddleware).Get("/", h.WebSocket)

	return r
}

// tokenFromQuery lets browsers, which cannot set headers on a WebSocket
// handshake, pass the JWT as ?token=
func tokenFromQuery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			if token := r.URL.Query().Get("token"); token != "" {
				r.Header.Set("Authorization", "Bearer "+token)
			}
		}
		next.ServeHTTP(w, r)
	})
}
