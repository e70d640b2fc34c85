// internal/app/features/accounts/me.go
package accounts

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillsync/skillsync/internal/app/store/users"
	"github.com/skillsync/skillsync/internal/app/system/apperr"
	"github.com/skillsync/skillsync/internal/app/system/authz"
	"github.com/skillsync/skillsync/internal/app/system/httpjson"
	"github.com/skillsync/skillsync/internal/app/system/timeouts"
)

// ServeMe returns the signed-in user's full account record.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.New(apperr.Unauthorized, "UNAUTHORIZED", "sign in required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetByID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		// Session outlived the account.
		httpjson.Error(w, h.Log, apperr.New(apperr.Unauthorized, "UNAUTHORIZED", "account no longer exists"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.OK(w, u)
}
