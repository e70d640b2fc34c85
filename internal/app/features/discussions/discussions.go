// internal/app/features/discussions/discussions.go
package discussions

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillsync/skillsync/internal/app/policy/projectpolicy"
	"github.com/skillsync/skillsync/internal/app/store/discussions"
	"github.com/skillsync/skillsync/internal/app/system/apperr"
	"github.com/skillsync/skillsync/internal/app/system/httpjson"
	"github.com/skillsync/skillsync/internal/app/system/limits"
	"github.com/skillsync/skillsync/internal/app/system/sanitize"
	"github.com/skillsync/skillsync/internal/app/system/timeouts"
	"github.com/skillsync/skillsync/internal/domain/models"
)

type createThreadRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Hashtags []string `json:"hashtags"`
}

// HandleCreate starts a thread on the project board. Members only.
// POST /projects/{id}/discussions
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	projectID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req createThreadRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBody); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	req.Title = sanitize.Text(strings.TrimSpace(req.Title))
	if req.Title == "" {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "TITLE_REQUIRED", "thread title is required"))
		return
	}
	if req.Category == "" {
		req.Category = models.CategoryGeneral
	}
	if !models.ValidDiscussionCategory(req.Category) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_CATEGORY", "unknown discussion category"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, ok := h.loadProject(ctx, w, projectID)
	if !ok {
		return
	}
	if !projectpolicy.CanWriteBoards(p, userID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "NOT_MEMBER", "only team members can post on the board"))
		return
	}

	d, err := discussionstore.New(h.DB).Create(ctx, models.Discussion{
		ProjectID: projectID,
		AuthorID:  userID,
		Title:     req.Title,
		Content:   sanitize.Text(req.Content),
		Category:  req.Category,
		Hashtags:  normalizeHashtags(req.Hashtags),
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.Created(w, d)
}

// ServeBoard lists threads, pinned first. Members only.
// GET /projects/{id}/discussions?category=&hashtag=
func (h *Handler) ServeBoard(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	projectID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	f := discussionstore.ListFilter{
		Category: query.Get(r, "category"),
		Hashtag:  strings.TrimPrefix(query.Get(r, "hashtag"), "#"),
	}
	if f.Category != "" && !models.ValidDiscussionCategory(f.Category) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_CATEGORY", "unknown discussion category"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, ok := h.loadProject(ctx, w, projectID)
	if !ok {
		return
	}
	if !projectpolicy.IsMember(p, userID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "NOT_MEMBER", "only team members can view the board"))
		return
	}

	threads, err := discussionstore.New(h.DB).ListByProject(ctx, projectID, f)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, map[string]any{"discussions": threads})
}

// ServeThread returns one thread with its replies.
func (h *Handler) ServeThread(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	threadID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d, p, ok := h.loadThreadAndProject(ctx, w, threadID)
	if !ok {
		return
	}
	if !projectpolicy.IsMember(p, userID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "NOT_MEMBER", "only team members can view the board"))
		return
	}

	httpjson.OK(w, d)
}

// HandleToggleLike flips the caller's like on a thread. Members only.
func (h *Handler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	threadID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, p, ok := h.loadThreadAndProject(ctx, w, threadID)
	if !ok {
		return
	}
	if !projectpolicy.IsMember(p, userID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "NOT_MEMBER", "only team members can like threads"))
		return
	}

	liked, err := discussionstore.New(h.DB).ToggleLike(ctx, threadID, userID)
	if err != nil {
		httpjson.Error(w, h.Log, httpjson.NotFoundIf(err, mongo.ErrNoDocuments, "discussion"))
		return
	}
	httpjson.OK(w, map[string]bool{"liked": liked})
}

// HandleReply appends a reply. Members only; replies do not nest.
func (h *Handler) HandleReply(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	threadID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := httpjson.Decode(r, &req, limits.MaxJSONBody); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	content := sanitize.Text(strings.TrimSpace(req.Content))
	if content == "" {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "CONTENT_REQUIRED", "reply content is required"))
		return
	}
	if len(content) > limits.MaxCommentLength {
		httpjson.Error(w, h.Log, apperr.Newf(apperr.Validation, "CONTENT_TOO_LONG", "replies are limited to %d characters", limits.MaxCommentLength))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, p, ok := h.loadThreadAndProject(ctx, w, threadID)
	if !ok {
		return
	}
	if !projectpolicy.CanWriteBoards(p, userID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "NOT_MEMBER", "only team members can reply"))
		return
	}

	reply, err := discussionstore.New(h.DB).AddReply(ctx, threadID, models.DiscussionReply{
		AuthorID: userID,
		Content:  content,
	})
	if err != nil {
		httpjson.Error(w, h.Log, httpjson.NotFoundIf(err, mongo.ErrNoDocuments, "discussion"))
		return
	}

	httpjson.Created(w, reply)
}

// HandleSetPinned pins or unpins a thread. Owner or admin.
func (h *Handler) HandleSetPinned(pinned bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		threadID, ok := h.pathID(w, r, "id")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		_, p, ok := h.loadThreadAndProject(ctx, w, threadID)
		if !ok {
			return
		}
		if !projectpolicy.CanManageTeam(p, userID) {
			httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "NOT_TEAM_MANAGER", "only the owner or an admin can pin threads"))
			return
		}

		if err := discussionstore.New(h.DB).SetPinned(ctx, threadID, pinned); err != nil {
			httpjson.Error(w, h.Log, httpjson.NotFoundIf(err, mongo.ErrNoDocuments, "discussion"))
			return
		}
		httpjson.NoContent(w)
	}
}

// HandleDelete removes a thread. The author, or anyone who can manage
// the team, may delete.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	threadID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	d, p, ok := h.loadThreadAndProject(ctx, w, threadID)
	if !ok {
		return
	}
	if d.AuthorID != userID && !projectpolicy.CanManageTeam(p, userID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "NOT_ALLOWED", "only the author or a team manager can delete this thread"))
		return
	}

	if err := discussionstore.New(h.DB).Delete(ctx, threadID); err != nil {
		httpjson.Error(w, h.Log, httpjson.NotFoundIf(err, mongo.ErrNoDocuments, "discussion"))
		return
	}
	httpjson.NoContent(w)
}

func (h *Handler) loadThreadAndProject(ctx context.Context, w http.ResponseWriter, threadID primitive.ObjectID) (models.Discussion, models.Project, bool) {
	d, err := discussionstore.New(h.DB).GetByID(ctx, threadID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apperr.New(apperr.NotFound, "NOT_FOUND", "discussion not found"))
		return models.Discussion{}, models.Project{}, false
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return models.Discussion{}, models.Project{}, false
	}
	p, ok := h.loadProject(ctx, w, d.ProjectID)
	if !ok {
		return models.Discussion{}, models.Project{}, false
	}
	return d, p, true
}

// normalizeHashtags lowercases tags, strips leading '#', and drops
// empties and duplicates.
func normalizeHashtags(tags []string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(t), "#"))
		t = sanitize.Text(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
