// internal/app/features/projects/team.go
package projects

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/skillsync/skillsync/internal/app/policy/projectpolicy"
	"github.com/skillsync/skillsync/internal/app/store/projects"
	"github.com/skillsync/skillsync/internal/app/store/tasks"
	"github.com/skillsync/skillsync/internal/app/system/apperr"
	"github.com/skillsync/skillsync/internal/app/system/httpjson"
	"github.com/skillsync/skillsync/internal/app/system/limits"
	"github.com/skillsync/skillsync/internal/app/system/sanitize"
	"github.com/skillsync/skillsync/internal/app/system/timeouts"
	"github.com/skillsync/skillsync/internal/domain/models"
)

// HandleUpdateTeamSettings replaces the project's recruiting settings.
// Owner or admin. Shrinking max below the current roster size is
// rejected so the capacity invariant never starts out violated.
func (h *Handler) HandleUpdateTeamSettings(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	projectID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var ts models.TeamSettings
	if err := httpjson.Decode(r, &ts, limits.MaxJSONBody); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := validateTeamSettings(ts); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	ts.RequiredSkills = sanitize.Slice(ts.RequiredSkills)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, ok := h.loadProject(ctx, w, projectID)
	if !ok {
		return
	}
	if !projectpolicy.CanManageTeam(p, userID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "NOT_TEAM_MANAGER", "only the owner or an admin can change team settings"))
		return
	}
	if ts.MaxTeamSize < len(p.TeamMembers) {
		httpjson.Error(w, h.Log, apperr.Newf(apperr.Precondition, "TEAM_TOO_LARGE", "the team already has %d members", len(p.TeamMembers)))
		return
	}

	store := projectstore.New(h.DB)
	if err := store.UpdateTeamSettings(ctx, projectID, ts); err != nil {
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

type teamRequestBody struct {
	Message string   `json:"message"`
	Skills  []string `json:"skills"`
}

// HandleSubmitTeamRequest files a join request on behalf of the caller.
func (h *Handler) HandleSubmitTeamRequest(w http.ResponseWriter, r *http.Request) {
	userID, username, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	projectID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req teamRequestBody
	if err := httpjson.Decode(r, &req, limits.MaxJSONBody); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	req.Message = sanitize.Text(strings.TrimSpace(req.Message))
	if len(req.Message) > limits.MaxRequestMessage {
		httpjson.Error(w, h.Log, apperr.Newf(apperr.Validation, "MESSAGE_TOO_LONG", "request messages are limited to %d characters", limits.MaxRequestMessage))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tr, err := projectstore.New(h.DB).SubmitTeamRequest(ctx, projectID, userID, req.Message, sanitize.Slice(req.Skills))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	// The owner triages requests; admins see them in the queue.
	if p, perr := projectstore.New(h.DB).GetByID(ctx, projectID); perr == nil {
		h.notify(p.OwnerID, userID, projectID, models.NotifTeamRequest,
			username+" requested to join "+p.Title)
	}

	httpjson.Created(w, tr)
}

// ServeTeamRequests lists the project's request queue. Owner or admin.
func (h *Handler) ServeTeamRequests(w http.ResponseWriter, r *http.Request) {
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
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "NOT_TEAM_MANAGER", "only the owner or an admin can view team requests"))
		return
	}

	httpjson.OK(w, map[string]any{"requests": p.TeamRequests})
}

// HandleDecideTeamRequest accepts or rejects a pending request. Owner
// or admin. Accepting adds the requester to the roster atomically with
// the capacity check.
func (h *Handler) HandleDecideTeamRequest(accept bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		projectID, ok := h.pathID(w, r, "id")
		if !ok {
			return
		}
		requestID, ok := h.pathID(w, r, "requestID")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		p, ok := h.loadProject(ctx, w, projectID)
		if !ok {
			return
		}
		if !projectpolicy.CanManageTeam(p, userID) {
			httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "NOT_TEAM_MANAGER", "only the owner or an admin can decide team requests"))
			return
		}

		store := projectstore.New(h.DB)
		var (
			updated models.Project
			err     error
		)
		if accept {
			updated, err = store.AcceptTeamRequest(ctx, projectID, requestID, userID)
		} else {
			updated, err = store.RejectTeamRequest(ctx, projectID, requestID, userID)
		}
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}

		if req, found := requestByID(p, requestID); found {
			kind := models.NotifRequestRejected
			verb := "declined"
			if accept {
				kind = models.NotifRequestAccepted
				verb = "accepted"
			}
			h.notify(req.UserID, userID, projectID, kind,
				"your request to join "+p.Title+" was "+verb)
		}

		httpjson.OK(w, updated)
	}
}

// HandleRemoveMember removes a roster member. The member may leave on
// their own; otherwise the owner or an admin removes them. The owner
// can never be removed. Open tasks assigned to the removed member are
// unassigned.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	userID, username, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	projectID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	memberID, ok := h.pathID(w, r, "memberID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	p, ok := h.loadProject(ctx, w, projectID)
	if !ok {
		return
	}
	if !projectpolicy.CanRemoveMember(p, userID, memberID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "NOT_ALLOWED", "you cannot remove this member"))
		return
	}

	if err := projectstore.New(h.DB).RemoveMember(ctx, projectID, memberID); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if n, err := taskstore.New(h.DB).UnassignMember(ctx, projectID, memberID); err != nil {
		h.Log.Error("task unassign failed", zap.Error(err))
	} else if n > 0 {
		h.Log.Info("tasks unassigned after member removal",
			zap.Int64("count", n),
			zap.String("project_id", projectID.Hex()))
	}

	if memberID != userID {
		h.notify(memberID, userID, projectID, models.NotifMemberRemoved,
			username+" removed you from "+p.Title)
	}

	httpjson.NoContent(w)
}

type memberRoleRequest struct {
	Role string `json:"role"`
}

// HandleSetMemberRole promotes or demotes a member between admin and
// member. Owner only; the owner role itself never changes hands here.
func (h *Handler) HandleSetMemberRole(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	projectID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	memberID, ok := h.pathID(w, r, "memberID")
	if !ok {
		return
	}

	var req memberRoleRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBody); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, ok := h.loadProject(ctx, w, projectID)
	if !ok {
		return
	}
	if !projectpolicy.CanEditProject(p, userID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "NOT_OWNER", "only the owner can change member roles"))
		return
	}

	store := projectstore.New(h.DB)
	if err := store.SetMemberRole(ctx, projectID, memberID, req.Role); err != nil {
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

func requestByID(p models.Project, requestID primitive.ObjectID) (models.TeamRequest, bool) {
	for _, req := range p.TeamRequests {
		if req.ID == requestID {
			return req, true
		}
	}
	return models.TeamRequest{}, false
}
