// internal/app/features/connections/handler.go

// Package connections implements the connection request workflow:
// request, accept/reject, and the various listings. An accepted
// connection is the gate for direct messaging.
package connections

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/skillsync/skillsync/internal/app/store/notifications"
	"github.com/skillsync/skillsync/internal/app/system/timeouts"
	"github.com/skillsync/skillsync/internal/domain/models"
)

// Handler is the shared dependency container for the connections feature.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

// notify inserts a notification on a detached context so a slow insert
// never fails the triggering request.
func (h *Handler) notify(userID, actorID primitive.ObjectID, kind, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
	defer cancel()

	_, err := notificationstore.New(h.DB).Create(ctx, models.Notification{
		UserID:  userID,
		ActorID: actorID,
		Kind:    kind,
		Message: message,
	})
	if err != nil {
		h.Log.Warn("notification insert failed",
			zap.String("kind", kind),
			zap.Error(err))
	}
}
