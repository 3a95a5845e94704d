// internal/app/features/upads/routes.go
package upads

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the advance (upad) endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleAdd)
	r.Get("/employee/{id}", h.HandleListByEmployee)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
