// internal/app/features/projects/routes.go
package projects

import (
	"github.com/go-chi/chi/v5"

	"github.com/skillsync/skillsync/internal/app/system/auth"
)

// Routes mounts the project endpoints. taskBoard and discussionBoard
// are the project-scoped routers from the tasks and discussions
// features; nesting them here keeps /projects/{id}/... on one tree.
func Routes(h *Handler, sm *auth.SessionManager, taskBoard, discussionBoard chi.Router) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// Boards
		pr.Mount("/{id}/tasks", taskBoard)
		pr.Mount("/{id}/discussions", discussionBoard)

		// CRUD
		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
		pr.Get("/{id}", h.ServeProject)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)

		// Showcase
		pr.Post("/{id}/like", h.HandleToggleLike)
		pr.Post("/{id}/comments", h.HandleAddComment)
		pr.Post("/{id}/media", h.HandleAddMedia)
		pr.Delete("/{id}/media/{key}", h.HandleRemoveMedia)

		// Team formation
		pr.Put("/{id}/team/settings", h.HandleUpdateTeamSettings)
		pr.Post("/{id}/team/requests", h.HandleSubmitTeamRequest)
		pr.Get("/{id}/team/requests", h.ServeTeamRequests)
		pr.Post("/{id}/team/requests/{requestID}/accept", h.HandleDecideTeamRequest(true))
		pr.Post("/{id}/team/requests/{requestID}/reject", h.HandleDecideTeamRequest(false))
		pr.Delete("/{id}/team/members/{memberID}", h.HandleRemoveMember)
		pr.Put("/{id}/team/members/{memberID}/role", h.HandleSetMemberRole)
	})

	return r
}
