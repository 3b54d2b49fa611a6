// internal/app/features/notes/routes.go

package notes

import (
	"github.com/go-chi/chi/v5"
	"github.com/noteflow/noteflow/internal/app/system/auth"
)

// Routes mounts the note endpoints under the path where this router is
// mounted (typically "/api/notes" from bootstrap). Everything requires
// a signed-in principal.
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequirePrincipal)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.ServeCreate)
		pr.Post("/bulk-update", h.ServeBulkUpdate)
		pr.Get("/{noteID}", h.ServeGet)
		pr.Put("/{noteID}", h.ServeUpdate)
		pr.Delete("/{noteID}", h.ServeDelete)
	})

	return r
}
