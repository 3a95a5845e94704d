// internal/app/features/inquiry/routes.go
package inquiry

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for inquiry intake.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleIntake)
	return r
}
