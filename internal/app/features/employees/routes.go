// internal/app/features/employees/routes.go
package employees

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the employee endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleRegister)
	r.Get("/", h.HandleList)
	r.Get("/{id}", h.HandleGet)
	r.Patch("/{id}", h.HandleUpdate)
	r.Get("/{id}/related", h.HandleRelatedCounts)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
