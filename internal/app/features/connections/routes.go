// internal/app/features/connections/routes.go
package connections

import (
	"github.com/go-chi/chi/v5"

	"github.com/skillsync/skillsync/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/pending", h.ServePending)
		pr.Post("/{userID}", h.HandleRequest)
		pr.Post("/{id}/accept", h.HandleDecide(true))
		pr.Post("/{id}/reject", h.HandleDecide(false))
	})

	return r
}
