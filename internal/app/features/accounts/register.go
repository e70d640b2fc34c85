// internal/app/features/accounts/register.go
package accounts

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillsync/skillsync/internal/app/store/users"
	"github.com/skillsync/skillsync/internal/app/system/apperr"
	"github.com/skillsync/skillsync/internal/app/system/auth"
	"github.com/skillsync/skillsync/internal/app/system/httpjson"
	"github.com/skillsync/skillsync/internal/app/system/limits"
	"github.com/skillsync/skillsync/internal/app/system/sanitize"
	"github.com/skillsync/skillsync/internal/app/system/timeouts"
	"github.com/skillsync/skillsync/internal/domain/models"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,32}$`)

type registerRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a password account and signs it in.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBody); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	req.FullName = sanitize.Text(strings.TrimSpace(req.FullName))
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if err := validateRegistration(req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := userstore.New(h.DB).Create(ctx, models.User{
		FullName:     req.FullName,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		AuthMethod:   models.AuthMethodPassword,
		Status:       "active",
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Precondition, "EMAIL_TAKEN", "an account with this email already exists"))
		return
	}
	if errors.Is(err, userstore.ErrDuplicateUsername) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Precondition, "USERNAME_TAKEN", "this username is already taken"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if err := h.Sessions.SignIn(w, r, auth.SessionUser{
		ID:       u.ID.Hex(),
		Name:     u.FullName,
		Username: u.Username,
	}); err != nil {
		h.Log.Error("session write failed after register", zap.Error(err))
	}

	httpjson.Created(w, u)
}

func validateRegistration(req registerRequest) error {
	if req.FullName == "" {
		return apperr.New(apperr.Validation, "NAME_REQUIRED", "full name is required")
	}
	if !usernameRe.MatchString(req.Username) {
		return apperr.New(apperr.Validation, "BAD_USERNAME", "username must be 3-32 chars of letters, digits, '.', '-' or '_'")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return apperr.New(apperr.Validation, "BAD_EMAIL", "email address is invalid")
	}
	if len(req.Password) < 8 {
		return apperr.New(apperr.Validation, "WEAK_PASSWORD", "password must be at least 8 characters")
	}
	return nil
}
