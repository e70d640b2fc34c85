// internal/app/features/users/routes.go
package users

import (
	"github.com/go-chi/chi/v5"

	"github.com/skillsync/skillsync/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeSearch)
		pr.Get("/matches/suggestions", h.ServeSuggestions)
		pr.Put("/me", h.HandleUpdateProfile)
		pr.Put("/me/skills", h.HandleSetSkills)
		pr.Get("/{username}", h.ServeProfile)
	})

	return r
}
