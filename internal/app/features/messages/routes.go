// internal/app/features/messages/routes.go
package messages

import (
	"github.com/go-chi/chi/v5"

	"github.com/skillsync/skillsync/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeInbox)
		pr.Get("/{userID}", h.ServeConversation)
		pr.Post("/{userID}", h.HandleSend)
		pr.Post("/{userID}/read", h.HandleMarkRead)
	})

	return r
}
