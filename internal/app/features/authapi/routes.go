// internal/app/features/authapi/routes.go

package authapi

import (
	"github.com/go-chi/chi/v5"
	"github.com/noteflow/noteflow/internal/app/system/ratelimit"
)

// Routes mounts the auth endpoints under the path where this router is
// mounted (typically "/api/auth" from bootstrap). Register and login
// share a limiter keyed by client address to slow down credential
// stuffing.
func Routes(h *Handler, limiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(limiter.Middleware)
		pr.Post("/register", h.ServeRegister)
		pr.Post("/login", h.ServeLogin)
	})
	r.Post("/logout", h.ServeLogout)

	return r
}
