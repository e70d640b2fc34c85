// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project status values.
const (
	ProjectInProgress = "in-progress"
	ProjectCompleted  = "completed"
	ProjectOnHold     = "on-hold"
)

// Team roles on a project roster.
const (
	TeamRoleOwner  = "owner"
	TeamRoleAdmin  = "admin"
	TeamRoleMember = "member"
)

// Team request states.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// TeamSettings controls how a project recruits.
type TeamSettings struct {
	AllowTeamRequests bool     `bson:"allow_team_requests" json:"allowTeamRequests"`
	MaxTeamSize       int      `bson:"max_team_size" json:"maxTeamSize"`
	RequiredSkills    []string `bson:"required_skills" json:"requiredSkills"`
}

// TeamMember is one roster entry. Exactly one entry carries the owner
// role and it matches Project.OwnerID.
type TeamMember struct {
	UserID   primitive.ObjectID `bson:"user_id" json:"user"`
	Role     string             `bson:"role" json:"role"`
	JoinedAt time.Time          `bson:"joined_at" json:"joinedAt"`
	Skills   []string           `bson:"skills" json:"skills"`
}

// TeamRequest is an application to join a project's team. At most one
// pending request per (project, user) pair exists at any time.
type TeamRequest struct {
	ID        primitive.ObjectID  `bson:"_id" json:"id"`
	UserID    primitive.ObjectID  `bson:"user_id" json:"user"`
	Message   string              `bson:"message,omitempty" json:"message,omitempty"`
	Skills    []string            `bson:"skills" json:"skills"`
	Status    string              `bson:"status" json:"status"`
	CreatedAt time.Time           `bson:"created_at" json:"createdAt"`
	DecidedAt *time.Time          `bson:"decided_at,omitempty" json:"decidedAt,omitempty"`
	DecidedBy *primitive.ObjectID `bson:"decided_by,omitempty" json:"decidedBy,omitempty"`
}

// ProjectComment is a top-level comment on a project showcase page.
type ProjectComment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// ShowcaseMedia is a screenshot/demo link attached to a project. Key is a
// UUID so clients can reference entries independently of Mongo ids.
type ShowcaseMedia struct {
	Key   string `bson:"key" json:"key"`
	Kind  string `bson:"kind" json:"kind"` // image | video | link
	Title string `bson:"title,omitempty" json:"title,omitempty"`
	URL   string `bson:"url" json:"url"`
}

// Project owns its roster and request queue outright; tasks and
// discussions reference the project by id from their own collections.
type Project struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID      primitive.ObjectID `bson:"owner_id" json:"owner"`
	Title        string             `bson:"title" json:"title"`
	TitleCI      string             `bson:"title_ci" json:"-"`
	Description  string             `bson:"description" json:"description"`
	Technologies []string           `bson:"technologies" json:"technologies"`
	Status       string             `bson:"status" json:"status"`

	TeamSettings TeamSettings  `bson:"team_settings" json:"teamSettings"`
	TeamMembers  []TeamMember  `bson:"team_members" json:"teamMembers"`
	TeamRequests []TeamRequest `bson:"team_requests" json:"teamRequests,omitempty"`

	Likes    []primitive.ObjectID `bson:"likes" json:"likes"`
	Comments []ProjectComment     `bson:"comments" json:"comments"`
	Media    []ShowcaseMedia      `bson:"media,omitempty" json:"media,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ValidProjectStatus reports whether s is a known project status.
func ValidProjectStatus(s string) bool {
	return s == ProjectInProgress || s == ProjectCompleted || s == ProjectOnHold
}
