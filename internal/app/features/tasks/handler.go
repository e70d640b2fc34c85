// internal/app/features/tasks/handler.go

// Package tasks serves each project's kanban board. Board access is
// members-only; assignees must be current roster members.
package tasks

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/skillsync/skillsync/internal/app/store/projects"
	"github.com/skillsync/skillsync/internal/app/system/apperr"
	"github.com/skillsync/skillsync/internal/app/system/authz"
	"github.com/skillsync/skillsync/internal/app/system/httpjson"
	"github.com/skillsync/skillsync/internal/domain/models"
)

// Handler is the shared dependency container for the tasks feature.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.New(apperr.Unauthorized, "UNAUTHORIZED", "sign in required"))
	}
	return userID, ok
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_ID", name+" is not a valid id"))
		return primitive.NilObjectID, false
	}
	return id, true
}

// loadProject fetches the project backing a board operation.
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
