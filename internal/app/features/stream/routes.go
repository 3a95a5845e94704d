// internal/app/features/stream/routes.go
package stream

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the live feeds.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleIndex)
	r.Get("/{name}", h.HandleStream)
	return r
}
