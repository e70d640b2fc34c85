// internal/app/features/projects/showcase.go
package projects

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillsync/skillsync/internal/app/policy/projectpolicy"
	"github.com/skillsync/skillsync/internal/app/store/projects"
	"github.com/skillsync/skillsync/internal/app/system/apperr"
	"github.com/skillsync/skillsync/internal/app/system/httpjson"
	"github.com/skillsync/skillsync/internal/app/system/limits"
	"github.com/skillsync/skillsync/internal/app/system/sanitize"
	"github.com/skillsync/skillsync/internal/app/system/timeouts"
	"github.com/skillsync/skillsync/internal/domain/models"
)

// HandleToggleLike flips the caller's like on a project. The response
// carries the resulting state, so repeating the call is harmless.
func (h *Handler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	projectID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	liked, err := projectstore.New(h.DB).ToggleLike(ctx, projectID, userID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apperr.New(apperr.NotFound, "NOT_FOUND", "project not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.OK(w, map[string]bool{"liked": liked})
}

type commentRequest struct {
	Content string `json:"content"`
}

// HandleAddComment appends a showcase comment.
func (h *Handler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	projectID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req commentRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBody); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	content := sanitize.Text(strings.TrimSpace(req.Content))
	if content == "" {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "CONTENT_REQUIRED", "comment content is required"))
		return
	}
	if len(content) > limits.MaxCommentLength {
		httpjson.Error(w, h.Log, apperr.Newf(apperr.Validation, "CONTENT_TOO_LONG", "comments are limited to %d characters", limits.MaxCommentLength))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	comment, err := projectstore.New(h.DB).AddComment(ctx, projectID, userID, content)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apperr.New(apperr.NotFound, "NOT_FOUND", "project not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.Created(w, comment)
}

type mediaRequest struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// HandleAddMedia attaches a screenshot, demo video, or link to the
// showcase. Members only.
func (h *Handler) HandleAddMedia(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	projectID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req mediaRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBody); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if req.Kind != "image" && req.Kind != "video" && req.Kind != "link" {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_MEDIA_KIND", "kind must be image, video, or link"))
		return
	}
	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_URL", "url must be absolute http(s)"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, ok := h.loadProject(ctx, w, projectID)
	if !ok {
		return
	}
	if !projectpolicy.IsMember(p, userID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "NOT_MEMBER", "only team members can add media"))
		return
	}

	media := models.ShowcaseMedia{
		Key:   uuid.NewString(),
		Kind:  req.Kind,
		Title: sanitize.Text(strings.TrimSpace(req.Title)),
		URL:   req.URL,
	}
	if err := projectstore.New(h.DB).AddMedia(ctx, projectID, media); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.Created(w, media)
}

// HandleRemoveMedia detaches a media entry by key. Members only.
func (h *Handler) HandleRemoveMedia(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	projectID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, ok := h.loadProject(ctx, w, projectID)
	if !ok {
		return
	}
	if !projectpolicy.IsMember(p, userID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "NOT_MEMBER", "only team members can remove media"))
		return
	}

	removed, err := projectstore.New(h.DB).RemoveMedia(ctx, projectID, key)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !removed {
		httpjson.Error(w, h.Log, apperr.New(apperr.NotFound, "MEDIA_NOT_FOUND", "no media with this key"))
		return
	}

	httpjson.NoContent(w)
}
