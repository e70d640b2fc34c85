// internal/app/features/connections/connections.go
package connections

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillsync/skillsync/internal/app/store/connections"
	"github.com/skillsync/skillsync/internal/app/store/users"
	"github.com/skillsync/skillsync/internal/app/system/apperr"
	"github.com/skillsync/skillsync/internal/app/system/authz"
	"github.com/skillsync/skillsync/internal/app/system/httpjson"
	"github.com/skillsync/skillsync/internal/app/system/timeouts"
	"github.com/skillsync/skillsync/internal/domain/models"
)

// HandleRequest opens a connection request to the user in the path.
// POST /connections/{userID}
func (h *Handler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	requesterID, requesterName, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.New(apperr.Unauthorized, "UNAUTHORIZED", "sign in required"))
		return
	}

	recipientID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_ID", "user id is not valid"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Recipient must exist; a dangling request would never be decidable.
	if _, err := userstore.New(h.DB).GetByID(ctx, recipientID); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apperr.New(apperr.NotFound, "NOT_FOUND", "user not found"))
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}

	conn, err := connectionstore.New(h.DB).Request(ctx, requesterID, recipientID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.notify(recipientID, requesterID, models.NotifConnRequest,
		requesterName+" wants to connect with you")

	httpjson.Created(w, conn)
}

// HandleDecide accepts or rejects a pending request addressed to the
// caller. POST /connections/{id}/accept and /connections/{id}/reject.
func (h *Handler) HandleDecide(accept bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, username, ok := authz.UserCtx(r)
		if !ok {
			httpjson.Error(w, h.Log, apperr.New(apperr.Unauthorized, "UNAUTHORIZED", "sign in required"))
			return
		}

		connID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
		if err != nil {
			httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_ID", "connection id is not valid"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		conn, err := connectionstore.New(h.DB).Decide(ctx, connID, userID, accept)
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}

		if accept {
			h.notify(conn.RequesterID, userID, models.NotifConnAccepted,
				username+" accepted your connection request")
		}

		httpjson.OK(w, conn)
	}
}

// ServeList returns the caller's accepted connections.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.New(apperr.Unauthorized, "UNAUTHORIZED", "sign in required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	conns, err := connectionstore.New(h.DB).ListAccepted(ctx, userID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, map[string]any{"connections": conns})
}

// ServePending returns pending requests, incoming and outgoing.
func (h *Handler) ServePending(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.New(apperr.Unauthorized, "UNAUTHORIZED", "sign in required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := connectionstore.New(h.DB)
	incoming, err := store.ListPendingIncoming(ctx, userID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	outgoing, err := store.ListPendingOutgoing(ctx, userID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.OK(w, map[string]any{
		"incoming": incoming,
		"outgoing": outgoing,
	})
}
