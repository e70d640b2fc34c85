// internal/app/store/tasks/taskstore.go

// Package taskstore wraps the tasks collection. Tasks belong to a
// project; membership and role checks stay in the handlers, the store
// only guards structural invariants (valid status/priority values come
// in pre-validated).
package taskstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillsync/skillsync/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks")}
}

func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Comments == nil {
		t.Comments = []models.TaskComment{}
	}
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Task, error) {
	var t models.Task
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	return t, err
}

// ListFilter narrows ListByProject. Zero values mean "no filter".
type ListFilter struct {
	Status     string
	Priority   string
	AssigneeID *primitive.ObjectID
}

func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID, f ListFilter) ([]models.Task, error) {
	filter := bson.M{"project_id": projectID}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Priority != "" {
		filter["priority"] = f.Priority
	}
	if f.AssigneeID != nil {
		filter["assignee_id"] = *f.AssigneeID
	}

	cur, err := s.c.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	tasks := []models.Task{}
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Patch carries partial updates; nil fields are left unchanged. The
// pointer-to-pointer assignee distinguishes "unchanged" from
// "unassign" (non-nil outer, nil inner).
type Patch struct {
	Title          *string
	Description    *string
	Status         *string
	Priority       *string
	AssigneeID     **primitive.ObjectID
	DueDate        **time.Time
	EstimatedHours *float64
	ActualHours    *float64
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p Patch) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}

	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.Priority != nil {
		set["priority"] = *p.Priority
	}
	if p.AssigneeID != nil {
		if *p.AssigneeID == nil {
			unset["assignee_id"] = ""
		} else {
			set["assignee_id"] = **p.AssigneeID
		}
	}
	if p.DueDate != nil {
		if *p.DueDate == nil {
			unset["due_date"] = ""
		} else {
			set["due_date"] = **p.DueDate
		}
	}
	if p.EstimatedHours != nil {
		set["estimated_hours"] = *p.EstimatedHours
	}
	if p.ActualHours != nil {
		set["actual_hours"] = *p.ActualHours
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *Store) AddComment(ctx context.Context, id primitive.ObjectID, c models.TaskComment) (models.TaskComment, error) {
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now().UTC()

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"comments": c},
			"$set":  bson.M{"updated_at": c.CreatedAt},
		},
	)
	if err != nil {
		return models.TaskComment{}, err
	}
	if res.MatchedCount == 0 {
		return models.TaskComment{}, mongo.ErrNoDocuments
	}
	return c, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteByProject removes every task of a deleted project.
func (s *Store) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// UnassignMember clears the assignee on a removed member's open tasks
// within one project.
func (s *Store) UnassignMember(ctx context.Context, projectID, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"project_id": projectID, "assignee_id": userID},
		bson.M{
			"$unset": bson.M{"assignee_id": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
