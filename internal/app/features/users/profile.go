// internal/app/features/users/profile.go
package users

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillsync/skillsync/internal/app/store/users"
	"github.com/skillsync/skillsync/internal/app/system/apperr"
	"github.com/skillsync/skillsync/internal/app/system/authz"
	"github.com/skillsync/skillsync/internal/app/system/httpjson"
	"github.com/skillsync/skillsync/internal/app/system/limits"
	"github.com/skillsync/skillsync/internal/app/system/sanitize"
	"github.com/skillsync/skillsync/internal/app/system/timeouts"
	"github.com/skillsync/skillsync/internal/domain/models"
)

// ServeProfile returns a user's public profile by username.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetByUsername(ctx, username)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apperr.New(apperr.NotFound, "NOT_FOUND", "user not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.OK(w, u)
}

type updateProfileRequest struct {
	FullName     string   `json:"fullName"`
	Title        *string  `json:"title"`
	Bio          *string  `json:"bio"`
	Links        []string `json:"links"`
	Availability *string  `json:"availability"`
	Interests    []string `json:"interests"`
}

// HandleUpdateProfile applies a partial update to the caller's
// profile. Absent JSON fields stay unchanged; empty strings clear.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.New(apperr.Unauthorized, "UNAUTHORIZED", "sign in required"))
		return
	}

	var req updateProfileRequest
	if err := httpjson.Decode(r, &req, limits.MaxProfileBody); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	patch := userstore.ProfilePatch{
		FullName:  sanitize.Text(strings.TrimSpace(req.FullName)),
		Links:     req.Links,
		Interests: sanitize.Slice(req.Interests),
	}
	if req.Title != nil {
		t := sanitize.Text(strings.TrimSpace(*req.Title))
		patch.Title = &t
	}
	if req.Bio != nil {
		b := sanitize.Text(strings.TrimSpace(*req.Bio))
		patch.Bio = &b
	}
	if req.Availability != nil {
		a := sanitize.Text(strings.TrimSpace(*req.Availability))
		patch.Availability = &a
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := userstore.New(h.DB)
	if err := store.UpdateProfile(ctx, userID, patch); err != nil {
		httpjson.Error(w, h.Log, httpjson.NotFoundIf(err, mongo.ErrNoDocuments, "user"))
		return
	}

	u, err := store.GetByID(ctx, userID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, u)
}

type setSkillsRequest struct {
	Skills []models.UserSkill `json:"skills"`
}

// HandleSetSkills replaces the caller's skill list.
func (h *Handler) HandleSetSkills(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.New(apperr.Unauthorized, "UNAUTHORIZED", "sign in required"))
		return
	}

	var req setSkillsRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBody); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if len(req.Skills) > limits.MaxSkills {
		httpjson.Error(w, h.Log, apperr.Newf(apperr.Validation, "TOO_MANY_SKILLS", "at most %d skills are allowed", limits.MaxSkills))
		return
	}
	seen := map[string]struct{}{}
	cleaned := make([]models.UserSkill, 0, len(req.Skills))
	for _, s := range req.Skills {
		name := sanitize.Text(strings.TrimSpace(s.Name))
		if name == "" {
			httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "SKILL_NAME_REQUIRED", "skill names cannot be empty"))
			return
		}
		if s.Level < 1 || s.Level > 5 {
			httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_SKILL_LEVEL", "skill level must be between 1 and 5"))
			return
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			httpjson.Error(w, h.Log, apperr.Newf(apperr.Validation, "DUPLICATE_SKILL", "skill %q appears more than once", name))
			return
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, models.UserSkill{Name: name, Level: s.Level})
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := userstore.New(h.DB)
	if err := store.SetSkills(ctx, userID, cleaned); err != nil {
		httpjson.Error(w, h.Log, httpjson.NotFoundIf(err, mongo.ErrNoDocuments, "user"))
		return
	}

	u, err := store.GetByID(ctx, userID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, u)
}
