// internal/app/features/discussions/routes.go
package discussions

import (
	"github.com/go-chi/chi/v5"

	"github.com/skillsync/skillsync/internal/app/system/auth"
)

// ProjectRoutes serves board endpoints nested under a project id.
// Mounted at /projects/{id}/discussions.
func ProjectRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeBoard)
		pr.Post("/", h.HandleCreate)
	})
	return r
}

// Routes serves thread endpoints addressed by thread id. Mounted at
// /discussions.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/{id}", h.ServeThread)
		pr.Delete("/{id}", h.HandleDelete)
		pr.Post("/{id}/like", h.HandleToggleLike)
		pr.Post("/{id}/replies", h.HandleReply)
		pr.Post("/{id}/pin", h.HandleSetPinned(true))
		pr.Post("/{id}/unpin", h.HandleSetPinned(false))
	})
	return r
}
