// internal/app/features/reports/routes.go
package reports

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the reporting endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/daily", h.HandleDaily)
	r.Get("/salary", h.HandleSalary)
	r.Get("/salary.csv", h.HandleSalaryCSV)
	r.Get("/due", h.HandleDueList)
	return r
}
