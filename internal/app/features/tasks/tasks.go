// internal/app/features/tasks/tasks.go
package tasks

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillsync/skillsync/internal/app/policy/projectpolicy"
	"github.com/skillsync/skillsync/internal/app/store/tasks"
	"github.com/skillsync/skillsync/internal/app/system/apperr"
	"github.com/skillsync/skillsync/internal/app/system/httpjson"
	"github.com/skillsync/skillsync/internal/app/system/limits"
	"github.com/skillsync/skillsync/internal/app/system/sanitize"
	"github.com/skillsync/skillsync/internal/app/system/timeouts"
	"github.com/skillsync/skillsync/internal/domain/models"
)

type createTaskRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	Assignee       string     `json:"assignee"`
	DueDate        *time.Time `json:"dueDate"`
	EstimatedHours *float64   `json:"estimatedHours"`
	Tags           []string   `json:"tags"`
}

// HandleCreate adds a task to the project board. Members only.
// POST /projects/{id}/tasks
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	projectID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req createTaskRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBody); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	req.Title = sanitize.Text(strings.TrimSpace(req.Title))
	if len(req.Title) < limits.MinTaskTitleLength {
		httpjson.Error(w, h.Log, apperr.Newf(apperr.Validation, "TITLE_TOO_SHORT", "task title must be at least %d characters", limits.MinTaskTitleLength))
		return
	}
	req.Description = sanitize.Text(strings.TrimSpace(req.Description))
	if req.Description == "" {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "DESCRIPTION_REQUIRED", "task description is required"))
		return
	}
	if req.EstimatedHours != nil && *req.EstimatedHours < 0 {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_HOURS", "estimated hours cannot be negative"))
		return
	}
	if req.Status == "" {
		req.Status = models.TaskTodo
	}
	if !models.ValidTaskStatus(req.Status) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_STATUS", "unknown task status"))
		return
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if !models.ValidTaskPriority(req.Priority) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_PRIORITY", "unknown task priority"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, ok := h.loadProject(ctx, w, projectID)
	if !ok {
		return
	}
	if !projectpolicy.CanWriteBoards(p, userID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "NOT_MEMBER", "only team members can use the task board"))
		return
	}

	var assignee *primitive.ObjectID
	if req.Assignee != "" {
		id, err := primitive.ObjectIDFromHex(req.Assignee)
		if err != nil {
			httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_ID", "assignee is not a valid id"))
			return
		}
		if !projectpolicy.IsMember(p, id) {
			httpjson.Error(w, h.Log, apperr.New(apperr.Precondition, "ASSIGNEE_NOT_MEMBER", "the assignee must be a team member"))
			return
		}
		assignee = &id
	}

	t, err := taskstore.New(h.DB).Create(ctx, models.Task{
		ProjectID:      projectID,
		CreatorID:      userID,
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		AssigneeID:     assignee,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		Tags:           sanitize.Slice(req.Tags),
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.Created(w, t)
}

// ServeBoard lists a project's tasks with optional filters.
// GET /projects/{id}/tasks?status=&priority=&assignee=
func (h *Handler) ServeBoard(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	projectID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	f := taskstore.ListFilter{
		Status:   query.Get(r, "status"),
		Priority: query.Get(r, "priority"),
	}
	if f.Status != "" && !models.ValidTaskStatus(f.Status) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_STATUS", "unknown task status"))
		return
	}
	if f.Priority != "" && !models.ValidTaskPriority(f.Priority) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_PRIORITY", "unknown task priority"))
		return
	}
	if a := query.Get(r, "assignee"); a != "" {
		id, err := primitive.ObjectIDFromHex(a)
		if err != nil {
			httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_ID", "assignee is not a valid id"))
			return
		}
		f.AssigneeID = &id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, ok := h.loadProject(ctx, w, projectID)
	if !ok {
		return
	}
	if !projectpolicy.IsMember(p, userID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "NOT_MEMBER", "only team members can view the task board"))
		return
	}

	tasks, err := taskstore.New(h.DB).ListByProject(ctx, projectID, f)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, map[string]any{"tasks": tasks})
}

// ServeTask returns a single task. Members of the owning project only.
func (h *Handler) ServeTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	taskID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, p, ok := h.loadTaskAndProject(ctx, w, taskID)
	if !ok {
		return
	}
	if !projectpolicy.IsMember(p, userID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "NOT_MEMBER", "only team members can view tasks"))
		return
	}

	httpjson.OK(w, t)
}

type updateTaskRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Status         *string    `json:"status"`
	Priority       *string    `json:"priority"`
	Assignee       *string    `json:"assignee"` // "" unassigns
	DueDate        *time.Time `json:"dueDate"`
	ClearDueDate   bool       `json:"clearDueDate"`
	EstimatedHours *float64   `json:"estimatedHours"`
	ActualHours    *float64   `json:"actualHours"`
}

// HandleUpdate applies a partial update to a task. Members only.
// PATCH /tasks/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	taskID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBody); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, p, ok := h.loadTaskAndProject(ctx, w, taskID)
	if !ok {
		return
	}
	if !projectpolicy.CanWriteBoards(p, userID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "NOT_MEMBER", "only team members can edit tasks"))
		return
	}

	if req.EstimatedHours != nil && *req.EstimatedHours < 0 {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_HOURS", "estimated hours cannot be negative"))
		return
	}
	if req.ActualHours != nil && *req.ActualHours < 0 {
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_HOURS", "actual hours cannot be negative"))
		return
	}

	patch := taskstore.Patch{
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
	}
	if req.Title != nil {
		t := sanitize.Text(strings.TrimSpace(*req.Title))
		if len(t) < limits.MinTaskTitleLength {
			httpjson.Error(w, h.Log, apperr.Newf(apperr.Validation, "TITLE_TOO_SHORT", "task title must be at least %d characters", limits.MinTaskTitleLength))
			return
		}
		patch.Title = &t
	}
	if req.Description != nil {
		d := sanitize.Text(strings.TrimSpace(*req.Description))
		if d == "" {
			httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "DESCRIPTION_REQUIRED", "task description cannot be empty"))
			return
		}
		patch.Description = &d
	}
	if req.Status != nil {
		if !models.ValidTaskStatus(*req.Status) {
			httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_STATUS", "unknown task status"))
			return
		}
		patch.Status = req.Status
	}
	if req.Priority != nil {
		if !models.ValidTaskPriority(*req.Priority) {
			httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_PRIORITY", "unknown task priority"))
			return
		}
		patch.Priority = req.Priority
	}
	if req.Assignee != nil {
		if *req.Assignee == "" {
			var cleared *primitive.ObjectID
			patch.AssigneeID = &cleared
		} else {
			id, err := primitive.ObjectIDFromHex(*req.Assignee)
			if err != nil {
				httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "BAD_ID", "assignee is not a valid id"))
				return
			}
			if !projectpolicy.IsMember(p, id) {
				httpjson.Error(w, h.Log, apperr.New(apperr.Precondition, "ASSIGNEE_NOT_MEMBER", "the assignee must be a team member"))
				return
			}
			ptr := &id
			patch.AssigneeID = &ptr
		}
	}
	if req.ClearDueDate {
		var cleared *time.Time
		patch.DueDate = &cleared
	} else if req.DueDate != nil {
		ptr := req.DueDate
		patch.DueDate = &ptr
	}

	store := taskstore.New(h.DB)
	if err := store.Update(ctx, taskID, patch); err != nil {
		httpjson.Error(w, h.Log, httpjson.NotFoundIf(err, mongo.ErrNoDocuments, "task"))
		return
	}

	t, err := store.GetByID(ctx, taskID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, t)
}

// HandleAddComment appends a comment to a task card. Members only.
func (h *Handler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	taskID, ok := h.pathID(w, r, "id")
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
		httpjson.Error(w, h.Log, apperr.New(apperr.Validation, "CONTENT_REQUIRED", "comment content is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, p, ok := h.loadTaskAndProject(ctx, w, taskID)
	if !ok {
		return
	}
	if !projectpolicy.CanWriteBoards(p, userID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "NOT_MEMBER", "only team members can comment on tasks"))
		return
	}

	comment, err := taskstore.New(h.DB).AddComment(ctx, taskID, models.TaskComment{
		UserID:  userID,
		Content: content,
	})
	if err != nil {
		httpjson.Error(w, h.Log, httpjson.NotFoundIf(err, mongo.ErrNoDocuments, "task"))
		return
	}

	httpjson.Created(w, comment)
}

// HandleDelete removes a task. The creator, or anyone who can manage
// the team, may delete.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	taskID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	t, p, ok := h.loadTaskAndProject(ctx, w, taskID)
	if !ok {
		return
	}
	if t.CreatorID != userID && !projectpolicy.CanManageTeam(p, userID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "NOT_ALLOWED", "only the creator or a team manager can delete this task"))
		return
	}

	if err := taskstore.New(h.DB).Delete(ctx, taskID); err != nil {
		httpjson.Error(w, h.Log, httpjson.NotFoundIf(err, mongo.ErrNoDocuments, "task"))
		return
	}
	httpjson.NoContent(w)
}

// loadTaskAndProject fetches a task and its owning project, writing
// the 404 itself when either is missing.
func (h *Handler) loadTaskAndProject(ctx context.Context, w http.ResponseWriter, taskID primitive.ObjectID) (models.Task, models.Project, bool) {
	t, err := taskstore.New(h.DB).GetByID(ctx, taskID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apperr.New(apperr.NotFound, "NOT_FOUND", "task not found"))
		return models.Task{}, models.Project{}, false
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return models.Task{}, models.Project{}, false
	}
	p, ok := h.loadProject(ctx, w, t.ProjectID)
	if !ok {
		return models.Task{}, models.Project{}, false
	}
	return t, p, true
}
