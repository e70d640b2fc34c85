// Package projectpolicy provides authorization policies for project
// team management and boards.
//
// Authorization rules:
//   - The owner and admins manage the team: decide requests, remove
//     members, edit settings, pin discussions.
//   - Any roster member writes to the task and discussion boards.
//   - Non-members may view public project data, like, and comment, but
//     never touch the boards or the roster.
package projectpolicy

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skillsync/skillsync/internal/domain/models"
)

// RoleOf returns userID's role on the project roster and whether the
// user is on it at all.
func RoleOf(p models.Project, userID primitive.ObjectID) (string, bool) {
	for _, m := range p.TeamMembers {
		if m.UserID == userID {
			return m.Role, true
		}
	}
	return "", false
}

// IsMember reports whether userID is on the roster (any role).
func IsMember(p models.Project, userID primitive.ObjectID) bool {
	_, ok := RoleOf(p, userID)
	return ok
}

// CanManageTeam reports whether userID may decide team requests, remove
// members, and edit team settings.
func CanManageTeam(p models.Project, userID primitive.ObjectID) bool {
	role, ok := RoleOf(p, userID)
	return ok && (role == models.TeamRoleOwner || role == models.TeamRoleAdmin)
}

// CanEditProject reports whether userID may edit the project's own
// fields (title, description, technologies, status, media) or delete it.
// This is owner-only; admins manage the team, not the project record.
func CanEditProject(p models.Project, userID primitive.ObjectID) bool {
	return p.OwnerID == userID
}

// CanWriteBoards reports whether userID may create/update tasks and
// discussions on this project.
func CanWriteBoards(p models.Project, userID primitive.ObjectID) bool {
	return IsMember(p, userID)
}

// CanRemoveMember reports whether actor may remove target from the
// roster. Owners and admins remove others; any member may remove
// themself (leave). The owner can never be removed by this path.
func CanRemoveMember(p models.Project, actorID, targetID primitive.ObjectID) bool {
	targetRole, onRoster := RoleOf(p, targetID)
	if !onRoster || targetRole == models.TeamRoleOwner {
		return false
	}
	if actorID == targetID {
		return true
	}
	return CanManageTeam(p, actorID)
}
