// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent
(CreateMany is a no-op for indexes that already exist with the same
spec). Errors are aggregated so any problem is visible and startup can
fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureConnections(ctx, db); err != nil {
		problems = append(problems, "connections: "+err.Error())
	}
	if err := ensureProjects(ctx, db); err != nil {
		problems = append(problems, "projects: "+err.Error())
	}
	if err := ensureTasks(ctx, db); err != nil {
		problems = append(problems, "tasks: "+err.Error())
	}
	if err := ensureDiscussions(ctx, db); err != nil {
		problems = append(problems, "discussions: "+err.Error())
	}
	if err := ensureMessages(ctx, db); err != nil {
		problems = append(problems, "messages: "+err.Error())
	}
	if err := ensureNotifications(ctx, db); err != nil {
		problems = append(problems, "notifications: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email_ci"),
		},
		{
			Keys:    bson.D{{Key: "username_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_username_ci"),
		},
		{
			Keys:    bson.D{{Key: "skills.name", Value: 1}},
			Options: options.Index().SetName("skills_name"),
		},
	})
	return err
}

// ensureConnections creates the partial unique index that enforces "at
// most one pending connection per user pair".
func ensureConnections(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("connections").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "pair_key", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_pending_pair").
				SetPartialFilterExpression(bson.M{"status": "pending"}),
		},
		{
			Keys:    bson.D{{Key: "requester_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("requester_status"),
		},
		{
			Keys:    bson.D{{Key: "recipient_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("recipient_status"),
		},
	})
	return err
}

func ensureProjects(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("projects").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}},
			Options: options.Index().SetName("owner"),
		},
		{
			Keys:    bson.D{{Key: "team_members.user_id", Value: 1}},
			Options: options.Index().SetName("roster_user"),
		},
		{
			Keys:    bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("title_ci_keyset"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "technologies", Value: 1}},
			Options: options.Index().SetName("status_tech"),
		},
	})
	return err
}

func ensureTasks(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("tasks").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("project_status"),
		},
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "assignee_id", Value: 1}},
			Options: options.Index().SetName("project_assignee"),
		},
	})
	return err
}

func ensureDiscussions(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("discussions").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "is_pinned", Value: -1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("project_board"),
		},
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "hashtags", Value: 1}},
			Options: options.Index().SetName("project_hashtags"),
		},
	})
	return err
}

func ensureMessages(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("messages").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "conversation_key", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("conversation_stream"),
		},
		{
			Keys:    bson.D{{Key: "recipient_id", Value: 1}, {Key: "read", Value: 1}},
			Options: options.Index().SetName("recipient_unread"),
		},
	})
	return err
}

func ensureNotifications(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("notifications").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("user_inbox"),
		},
		{
			Keys:    bson.D{{Key: "read", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("read_age"),
		},
	})
	return err
}
