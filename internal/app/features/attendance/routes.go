// internal/app/features/attendance/routes.go
package attendance

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the attendance endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleMark)
	r.Post("/bulk", h.HandleBulkMark)
	r.Get("/", h.HandleListByDate)
	r.Get("/employee/{id}", h.HandleListByEmployee)
	r.Patch("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
