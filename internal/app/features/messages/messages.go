// internal/app/features/messages/messages.go
package messages

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skillsync/skillsync/internal/app/store/connections"
	"github.com/skillsync/skillsync/internal/app/store/messages"
	"github.com/skillsync/skillsync/internal/app/store/notifications"
	"github.com/skillsync/skillsync/internal/app/system/apperr"
	"github.com/skillsync/skillsync/internal/app/system/authz"
	"github.com/skillsync/skillsync/internal/app/system/httpjson"
	"github.com/skillsync/skillsync/internal/app/system/limits"
	"github.com/skillsync/skillsync/internal/app/system/paging"
	"github.com/skillsync/skillsync/internal/app/system/sanitize"
	"github.com/skillsync/skillsync/internal/app/system/timeouts"
	"github.com/skillsync/skillsync/internal/domain/models"
	"go.uber.org/zap"
)

type sendRequest struct {
	Body       string `json:"body"`
	Attachment *struct {
		Name string `json:"name"`
		Size int64  `json:"size"`
	} `json:"attachment"`
}

// HandleSend delivers a direct message to the user in the path. Both
// users must share an accepted connection.
// POST /messages/{userID}
func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	senderID, senderName, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.New(apperr.Unauthorized, "UNAUTHORIZED", "sign in required"))
		return
	}

	recipientID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_ID", "user id is not valid"))
		return
	}
	if recipientID == senderID {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "SELF_MESSAGE", "cannot message yourself"))
		return
	}

	var req sendRequest
	if err := httpjson.Decode(r, &req, limits.MaxMessageBody); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	body := sanitize.Text(strings.TrimSpace(req.Body))
	if body == "" && req.Attachment == nil {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "EMPTY_MESSAGE", "a message needs a body or an attachment"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	connected, err := connectionstore.New(h.DB).AcceptedBetween(ctx, senderID, recipientID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !connected {
		httpjson.Error(w, h.Log, apperr.New(apperr.Precondition, "NOT_CONNECTED", "you can only message accepted connections"))
		return
	}

	msg := models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
	}
	if req.Attachment != nil {
		name := sanitize.Text(strings.TrimSpace(req.Attachment.Name))
		if name == "" {
			httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_ATTACHMENT", "attachment name is required"))
			return
		}
		msg.Attachment = &models.Attachment{
			Key:  uuid.NewString(),
			Name: name,
			Size: req.Attachment.Size,
		}
	}

	sent, err := messagestore.New(h.DB).Send(ctx, msg)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.notifyNewMessage(recipientID, senderID, senderName)

	httpjson.Created(w, sent)
}

// ServeConversation pages through messages with one user, newest
// first. GET /messages/{userID}?before=<message id>&limit=
func (h *Handler) ServeConversation(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.New(apperr.Unauthorized, "UNAUTHORIZED", "sign in required"))
		return
	}

	otherID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_ID", "user id is not valid"))
		return
	}

	var before *primitive.ObjectID
	if b := query.Get(r, "before"); b != "" {
		id, err := primitive.ObjectIDFromHex(b)
		if err != nil {
			httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_CURSOR", "before is not a valid message id"))
			return
		}
		before = &id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	msgs, err := messagestore.New(h.DB).ListConversation(ctx, userID, otherID, before, int64(paging.ParseLimit(r)))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.OK(w, map[string]any{"messages": msgs})
}

// HandleMarkRead marks every unread message from one user as read.
// POST /messages/{userID}/read
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.New(apperr.Unauthorized, "UNAUTHORIZED", "sign in required"))
		return
	}

	otherID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_ID", "user id is not valid"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := messagestore.New(h.DB).MarkRead(ctx, userID, otherID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.OK(w, map[string]int64{"read": n})
}

// ServeInbox lists the caller's conversations, newest activity first.
// GET /messages
func (h *Handler) ServeInbox(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.New(apperr.Unauthorized, "UNAUTHORIZED", "sign in required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	convs, err := messagestore.New(h.DB).Conversations(ctx, userID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.OK(w, map[string]any{"conversations": convs})
}

func (h *Handler) notifyNewMessage(recipientID, senderID primitive.ObjectID, senderName string) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
	defer cancel()

	_, err := notificationstore.New(h.DB).Create(ctx, models.Notification{
		UserID:  recipientID,
		ActorID: senderID,
		Kind:    models.NotifNewMessage,
		Message: "new message from " + senderName,
	})
	if err != nil {
		h.Log.Warn("notification insert failed",
			zap.String("kind", models.NotifNewMessage),
			zap.Error(err))
	}
}
