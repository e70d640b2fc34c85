// internal/app/features/projects/projects.go
package projects

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/skillsync/skillsync/internal/app/policy/projectpolicy"
	"github.com/skillsync/skillsync/internal/app/store/discussions"
	"github.com/skillsync/skillsync/internal/app/store/projects"
	"github.com/skillsync/skillsync/internal/app/store/tasks"
	"github.com/skillsync/skillsync/internal/app/system/apperr"
	"github.com/skillsync/skillsync/internal/app/system/httpjson"
	"github.com/skillsync/skillsync/internal/app/system/limits"
	"github.com/skillsync/skillsync/internal/app/system/sanitize"
	"github.com/skillsync/skillsync/internal/app/system/timeouts"
	"github.com/skillsync/skillsync/internal/domain/models"
)

type createProjectRequest struct {
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Technologies []string             `json:"technologies"`
	TeamSettings *models.TeamSettings `json:"teamSettings"`
}

// HandleCreate creates a project owned by the caller.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req createProjectRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBody); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	req.Title = sanitize.Text(strings.TrimSpace(req.Title))
	if req.Title == "" {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "TITLE_REQUIRED", "project title is required"))
		return
	}

	ts := models.TeamSettings{MaxTeamSize: 1, RequiredSkills: []string{}}
	if req.TeamSettings != nil {
		ts = *req.TeamSettings
	}
	if err := validateTeamSettings(ts); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := projectstore.New(h.DB).Create(ctx, models.Project{
		OwnerID:      userID,
		Title:        req.Title,
		Description:  sanitize.Text(req.Description),
		Technologies: sanitize.Slice(req.Technologies),
		TeamSettings: ts,
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.Created(w, p)
}

// ServeProject returns a single project. Team requests are only
// visible to members who can manage the team.
func (h *Handler) ServeProject(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	projectID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, ok := h.loadProject(ctx, w, projectID)
	if !ok {
		return
	}

	if !projectpolicy.CanManageTeam(p, userID) {
		p.TeamRequests = nil
	}
	httpjson.OK(w, p)
}

// ServeList lists projects with optional filters and keyset paging.
// GET /projects?status=&technology=&owner=&member=&title=&before=&after=
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.requireUser(w, r); !ok {
		return
	}

	f := projectstore.ListFilter{
		Status:     query.Get(r, "status"),
		Technology: query.Get(r, "technology"),
		Title:      query.Get(r, "title"),
	}
	if f.Status != "" && !models.ValidProjectStatus(f.Status) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_STATUS", "unknown project status"))
		return
	}
	if owner := query.Get(r, "owner"); owner != "" {
		id, err := primitive.ObjectIDFromHex(owner)
		if err != nil {
			httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_ID", "owner is not a valid id"))
			return
		}
		f.OwnerID = id
	}
	if member := query.Get(r, "member"); member != "" {
		id, err := primitive.ObjectIDFromHex(member)
		if err != nil {
			httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_ID", "member is not a valid id"))
			return
		}
		f.MemberID = id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, page, err := projectstore.New(h.DB).List(ctx, f,
		query.Get(r, "before"), query.Get(r, "after"))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	// Request queues are private to each project's managers.
	for i := range list {
		list[i].TeamRequests = nil
	}

	httpjson.OK(w, map[string]any{
		"projects": list,
		"prev":     page.HasPrev,
		"next":     page.HasNext,
	})
}

type updateProjectRequest struct {
	Title        string   `json:"title"`
	Description  *string  `json:"description"`
	Technologies []string `json:"technologies"`
	Status       string   `json:"status"`
}

// HandleUpdate edits project fields. Owner only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	projectID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateProjectRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBody); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if req.Status != "" && !models.ValidProjectStatus(req.Status) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_STATUS", "unknown project status"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, ok := h.loadProject(ctx, w, projectID)
	if !ok {
		return
	}
	if !projectpolicy.CanEditProject(p, userID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "NOT_OWNER", "only the owner can edit the project"))
		return
	}

	patch := projectstore.InfoPatch{
		Title:        sanitize.Text(strings.TrimSpace(req.Title)),
		Technologies: sanitize.Slice(req.Technologies),
		Status:       req.Status,
	}
	if req.Description != nil {
		d := sanitize.Text(*req.Description)
		patch.Description = &d
	}

	store := projectstore.New(h.DB)
	if err := store.UpdateInfo(ctx, projectID, patch); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	updated, err := store.GetByID(ctx, projectID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, updated)
}

// HandleDelete removes a project and cascades its tasks and
// discussions. Owner only.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	projectID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	p, ok := h.loadProject(ctx, w, projectID)
	if !ok {
		return
	}
	if !projectpolicy.CanEditProject(p, userID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "NOT_OWNER", "only the owner can delete the project"))
		return
	}

	if _, err := projectstore.New(h.DB).Delete(ctx, projectID); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if _, err := taskstore.New(h.DB).DeleteByProject(ctx, projectID); err != nil {
		h.Log.Error("task cascade failed", zap.Error(err))
	}
	if _, err := discussionstore.New(h.DB).DeleteByProject(ctx, projectID); err != nil {
		h.Log.Error("discussion cascade failed", zap.Error(err))
	}

	httpjson.NoContent(w)
}

func validateTeamSettings(ts models.TeamSettings) error {
	if ts.MaxTeamSize < 1 {
		return apperr.New(apperr.Validation, "BAD_TEAM_SIZE", "max team size must be at least 1")
	}
	return nil
}
