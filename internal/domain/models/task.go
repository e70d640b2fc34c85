// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task status values. Transitions are deliberately unordered: any status
// may move to any other.
const (
	TaskTodo       = "todo"
	TaskInProgress = "in-progress"
	TaskReview     = "review"
	TaskDone       = "done"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// TaskComment is a comment on a task card.
type TaskComment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// Task is a kanban card belonging to a project. AssigneeID, when set,
// must reference a current team member of the project.
type Task struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID  `bson:"project_id" json:"project"`
	CreatorID   primitive.ObjectID  `bson:"creator_id" json:"creator"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description" json:"description"`
	Status      string              `bson:"status" json:"status"`
	Priority    string              `bson:"priority" json:"priority"`
	AssigneeID  *primitive.ObjectID `bson:"assignee_id,omitempty" json:"assignee,omitempty"`

	DueDate        *time.Time `bson:"due_date,omitempty" json:"dueDate,omitempty"`
	EstimatedHours *float64   `bson:"estimated_hours,omitempty" json:"estimatedHours,omitempty"`
	ActualHours    *float64   `bson:"actual_hours,omitempty" json:"actualHours,omitempty"`

	Tags     []string      `bson:"tags" json:"tags"`
	Comments []TaskComment `bson:"comments" json:"comments"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ValidTaskStatus reports whether s is a known task status.
func ValidTaskStatus(s string) bool {
	return s == TaskTodo || s == TaskInProgress || s == TaskReview || s == TaskDone
}

// ValidTaskPriority reports whether p is a known task priority.
func ValidTaskPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh || p == PriorityUrgent
}
