// internal/app/features/notifications/handler.go

// Package notifications serves each user's notification inbox.
package notifications

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/skillsync/skillsync/internal/app/store/notifications"
	"github.com/skillsync/skillsync/internal/app/system/apperr"
	"github.com/skillsync/skillsync/internal/app/system/authz"
	"github.com/skillsync/skillsync/internal/app/system/httpjson"
	"github.com/skillsync/skillsync/internal/app/system/paging"
	"github.com/skillsync/skillsync/internal/app/system/timeouts"
)

// Handler is the shared dependency container for the notifications feature.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

// ServeList returns the caller's notifications, newest first, plus the
// unread badge count. GET /notifications?unread=true
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.New(apperr.Unauthorized, "UNAUTHORIZED", "sign in required"))
		return
	}

	unreadOnly := query.Get(r, "unread") == "true"

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := notificationstore.New(h.DB)
	list, err := store.ListForUser(ctx, userID, unreadOnly, int64(paging.ParseLimit(r)))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	unread, err := store.CountUnread(ctx, userID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.OK(w, map[string]any{
		"notifications": list,
		"unread":        unread,
	})
}

// HandleMarkRead flags one notification as read.
// POST /notifications/{id}/read
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.New(apperr.Unauthorized, "UNAUTHORIZED", "sign in required"))
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_ID", "notification id is not valid"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := notificationstore.New(h.DB).MarkRead(ctx, id, userID); err != nil {
		httpjson.Error(w, h.Log, httpjson.NotFoundIf(err, mongo.ErrNoDocuments, "notification"))
		return
	}
	httpjson.NoContent(w)
}

// HandleMarkAllRead flags every unread notification.
// POST /notifications/read-all
func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.New(apperr.Unauthorized, "UNAUTHORIZED", "sign in required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := notificationstore.New(h.DB).MarkAllRead(ctx, userID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, map[string]int64{"read": n})
}
