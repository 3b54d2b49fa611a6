// internal/app/features/activity/routes.go

package activity

import (
	"github.com/go-chi/chi/v5"
	"github.com/noteflow/noteflow/internal/app/system/auth"
)

// Routes mounts the activity endpoints under the path where this
// router is mounted (typically "/api/activity" from bootstrap).
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequirePrincipal)

		pr.Get("/", h.ServeMine)
		pr.Get("/note/{noteID}", h.ServeForNote)
	})

	return r
}
