// internal/app/features/users/matches.go
package users

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillsync/skillsync/internal/app/store/connections"
	"github.com/skillsync/skillsync/internal/app/store/users"
	"github.com/skillsync/skillsync/internal/app/system/apperr"
	"github.com/skillsync/skillsync/internal/app/system/authz"
	"github.com/skillsync/skillsync/internal/app/system/httpjson"
	"github.com/skillsync/skillsync/internal/app/system/matchscore"
	"github.com/skillsync/skillsync/internal/app/system/timeouts"
)

// candidatePoolSize bounds how many active users are scored per
// request. Scoring is in-memory, so the pool is capped well above the
// returned page.
const candidatePoolSize = 500

// ServeSuggestions ranks other users against the caller's skills and
// interests. Users already connected to the caller, or with a pending
// request either way, are excluded.
func (h *Handler) ServeSuggestions(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.New(apperr.Unauthorized, "UNAUTHORIZED", "sign in required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	viewer, err := userstore.New(h.DB).GetByID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apperr.New(apperr.Unauthorized, "UNAUTHORIZED", "account no longer exists"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	excluded, err := connectionstore.New(h.DB).RelatedUserIDs(ctx, userID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	pool, err := userstore.New(h.DB).ListActiveExcept(ctx, userID, candidatePoolSize)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	matches := matchscore.Rank(viewer, pool, excluded, h.MatchLimit)
	httpjson.OK(w, map[string]any{"matches": matches})
}
