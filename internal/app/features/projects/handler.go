// internal/app/features/projects/handler.go

// Package projects serves the project showcase: CRUD, likes, comments,
// media, and the team formation workflow (settings, join requests,
// accept/reject, member removal).
package projects

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/skillsync/skillsync/internal/app/store/notifications"
	"github.com/skillsync/skillsync/internal/app/store/projects"
	"github.com/skillsync/skillsync/internal/app/system/apperr"
	"github.com/skillsync/skillsync/internal/app/system/authz"
	"github.com/skillsync/skillsync/internal/app/system/httpjson"
	"github.com/skillsync/skillsync/internal/app/system/timeouts"
	"github.com/skillsync/skillsync/internal/domain/models"
)

// Handler is the shared dependency container for the projects feature.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

// requireUser pulls the signed-in user from context or writes a 401.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, string, bool) {
	userID, username, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.New(apperr.Unauthorized, "UNAUTHORIZED", "sign in required"))
	}
	return userID, username, ok
}

// pathID parses an ObjectID URL parameter or writes a 400.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_ID", name+" is not a valid id"))
		return primitive.NilObjectID, false
	}
	return id, true
}

// loadProject fetches a project or writes the 404.
func (h *Handler) loadProject(ctx context.Context, w http.ResponseWriter, id primitive.ObjectID) (models.Project, bool) {
	p, err := projectstore.New(h.DB).GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apperr.New(apperr.NotFound, "NOT_FOUND", "project not found"))
		return models.Project{}, false
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return models.Project{}, false
	}
	return p, true
}

// notify inserts a notification on a detached context; failures are
// logged, never surfaced.
func (h *Handler) notify(userID, actorID, projectID primitive.ObjectID, kind, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
	defer cancel()

	_, err := notificationstore.New(h.DB).Create(ctx, models.Notification{
		UserID:    userID,
		ActorID:   actorID,
		ProjectID: &projectID,
		Kind:      kind,
		Message:   message,
	})
	if err != nil {
		h.Log.Warn("notification insert failed",
			zap.String("kind", kind),
			zap.Error(err))
	}
}
