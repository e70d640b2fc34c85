// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification kinds.
const (
	NotifTeamRequest     = "team_request"
	NotifRequestAccepted = "team_request_accepted"
	NotifRequestRejected = "team_request_rejected"
	NotifMemberRemoved   = "team_member_removed"
	NotifConnRequest     = "connection_request"
	NotifConnAccepted    = "connection_accepted"
	NotifNewMessage      = "new_message"
)

// Notification is a per-user inbox entry. Read entries older than the
// configured retention window are pruned by a background worker.
type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID  `bson:"user_id" json:"-"`
	Kind      string              `bson:"kind" json:"kind"`
	ActorID   primitive.ObjectID  `bson:"actor_id" json:"actor"`
	ProjectID *primitive.ObjectID `bson:"project_id,omitempty" json:"project,omitempty"`
	Message   string              `bson:"message" json:"message"`
	Read      bool                `bson:"read" json:"read"`
	CreatedAt time.Time           `bson:"created_at" json:"createdAt"`
}
