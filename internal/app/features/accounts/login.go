// internal/app/features/accounts/login.go
package accounts

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillsync/skillsync/internal/app/store/users"
	"github.com/skillsync/skillsync/internal/app/system/apperr"
	"github.com/skillsync/skillsync/internal/app/system/auth"
	"github.com/skillsync/skillsync/internal/app/system/httpjson"
	"github.com/skillsync/skillsync/internal/app/system/limits"
	"github.com/skillsync/skillsync/internal/app/system/timeouts"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// errBadCredentials is deliberately the same for unknown email and
// wrong password.
var errBadCredentials = apperr.New(apperr.Unauthorized, "BAD_CREDENTIALS", "email or password is incorrect")

// HandleLogin verifies a password and starts a session.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBody); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, errBadCredentials)
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if u.PasswordHash == "" {
		// OAuth-only account.
		httpjson.Error(w, h.Log, apperr.New(apperr.Precondition, "OAUTH_ONLY", "this account signs in with Google"))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		httpjson.Error(w, h.Log, errBadCredentials)
		return
	}
	if u.Status != "active" {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "ACCOUNT_DISABLED", "this account is disabled"))
		return
	}

	if err := h.Sessions.SignIn(w, r, auth.SessionUser{
		ID:       u.ID.Hex(),
		Name:     u.FullName,
		Username: u.Username,
	}); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("user signed in", zap.String("username", u.Username))
	httpjson.OK(w, u)
}

// HandleLogout clears the session.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.NoContent(w)
}
