// internal/app/features/expenses/routes.go
package expenses

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the other-expense endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleAdd)
	r.Get("/", h.HandleList)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
