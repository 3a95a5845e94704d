// internal/app/features/works/routes.go
package works

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the pending-works endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleList)
	r.Get("/{id}", h.HandleGet)
	r.Patch("/{id}", h.HandleUpdate)
	r.Post("/{id}/status", h.HandleSetStatus)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
