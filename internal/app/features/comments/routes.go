// internal/app/features/comments/routes.go

package comments

import (
	"github.com/go-chi/chi/v5"
	"github.com/noteflow/noteflow/internal/app/system/auth"
)

// Routes mounts the comment endpoints under the path where this router
// is mounted (typically "/api/comments" from bootstrap).
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequirePrincipal)

		pr.Get("/{noteID}", h.ServeList)
		pr.Post("/{noteID}", h.ServeCreate)
	})

	return r
}
