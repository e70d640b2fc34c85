// internal/app/store/discussions/discussionstore.go

// Package discussionstore wraps the discussions collection. Threads
// belong to a project; pinned threads sort first, then newest.
package discussionstore

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
	return &Store{c: db.Collection("discussions")}
}

func (s *Store) Create(ctx context.Context, d models.Discussion) (models.Discussion, error) {
	now := time.Now().UTC()
	d.ID = primitive.NewObjectID()
	d.CreatedAt = now
	d.UpdatedAt = now
	if d.Hashtags == nil {
		d.Hashtags = []string{}
	}
	if d.Replies == nil {
		d.Replies = []models.DiscussionReply{}
	}
	if d.Likes == nil {
		d.Likes = []primitive.ObjectID{}
	}
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Discussion{}, err
	}
	return d, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Discussion, error) {
	var d models.Discussion
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	return d, err
}

// ListFilter narrows ListByProject. Zero values mean "no filter".
type ListFilter struct {
	Category string
	Hashtag  string
}

func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID, f ListFilter) ([]models.Discussion, error) {
	filter := bson.M{"project_id": projectID}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Hashtag != "" {
		filter["hashtags"] = f.Hashtag
	}

	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{
		{Key: "is_pinned", Value: -1},
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Discussion{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ToggleLike adds or removes userID from the likes set and reports
// whether the thread is liked after the call. Pull first; if nothing
// came out, the user had not liked it yet and we add.
func (s *Store) ToggleLike(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$pull": bson.M{"likes": userID}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, mongo.ErrNoDocuments
	}
	if res.ModifiedCount > 0 {
		return false, nil
	}

	if _, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$addToSet": bson.M{"likes": userID}},
	); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) AddReply(ctx context.Context, id primitive.ObjectID, r models.DiscussionReply) (models.DiscussionReply, error) {
	r.ID = primitive.NewObjectID()
	r.CreatedAt = time.Now().UTC()

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"replies": r},
			"$set":  bson.M{"updated_at": r.CreatedAt},
		},
	)
	if err != nil {
		return models.DiscussionReply{}, err
	}
	if res.MatchedCount == 0 {
		return models.DiscussionReply{}, mongo.ErrNoDocuments
	}
	return r, nil
}

func (s *Store) SetPinned(ctx context.Context, id primitive.ObjectID, pinned bool) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_pinned": pinned, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
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

// DeleteByProject removes every thread of a deleted project.
func (s *Store) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
