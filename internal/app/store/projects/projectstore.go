// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillsync/skillsync/internal/app/system/paging"
	"github.com/skillsync/skillsync/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projects")}
}

// Create inserts a project with the creator as the sole roster entry,
// carrying the owner role.
func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.TitleCI = text.Fold(p.Title)
	if p.Status == "" {
		p.Status = models.ProjectInProgress
	}
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	p.TeamMembers = []models.TeamMember{{
		UserID:   p.OwnerID,
		Role:     models.TeamRoleOwner,
		JoinedAt: now,
		Skills:   []string{},
	}}
	p.TeamRequests = []models.TeamRequest{}
	p.Likes = []primitive.ObjectID{}
	p.Comments = []models.ProjectComment{}
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// InfoPatch carries the updatable project fields. Nil means unchanged.
type InfoPatch struct {
	Title        string
	Description  *string
	Technologies []string
	Status       string
}

// UpdateInfo applies a patch to the project's own fields.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, p InfoPatch) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if strings.TrimSpace(p.Title) != "" {
		set["title"] = p.Title
		set["title_ci"] = text.Fold(p.Title)
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Technologies != nil {
		set["technologies"] = p.Technologies
	}
	if p.Status != "" {
		set["status"] = p.Status
	}

	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// UpdateTeamSettings replaces the project's team settings.
func (s *Store) UpdateTeamSettings(ctx context.Context, id primitive.ObjectID, ts models.TeamSettings) error {
	if ts.RequiredSkills == nil {
		ts.RequiredSkills = []string{}
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"team_settings": ts,
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a project by ID. Returns the number of documents
// deleted (0 or 1). Callers cascade tasks and discussions.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListFilter narrows List results.
type ListFilter struct {
	Status     string
	Technology string
	OwnerID    primitive.ObjectID
	MemberID   primitive.ObjectID
	Title      string // prefix match on folded title
}

// List returns a keyset-paginated page of projects ordered by folded
// title. before/after are opaque cursors from a previous page.
func (s *Store) List(ctx context.Context, f ListFilter, before, after string) ([]models.Project, paging.Result, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Technology != "" {
		filter["technologies"] = f.Technology
	}
	if !f.OwnerID.IsZero() {
		filter["owner_id"] = f.OwnerID
	}
	if !f.MemberID.IsZero() {
		filter["team_members.user_id"] = f.MemberID
	}
	if f.Title != "" {
		if lo, hi := text.PrefixRange(text.Fold(f.Title)); lo != "" {
			filter["title_ci"] = bson.M{"$gte": lo, "$lt": hi}
		}
	}

	cfg := paging.ConfigureKeyset(before, after)
	if window := cfg.KeysetWindow("title_ci"); window != nil {
		filter["$and"] = bson.A{window}
	}

	find := options.Find()
	cfg.ApplyToFind(find, "title_ci")

	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, paging.Result{}, err
	}
	defer cur.Close(ctx)

	var projects []models.Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, paging.Result{}, err
	}

	page := paging.TrimPage(&projects, before, after)
	if cfg.Direction == paging.Backward {
		paging.Reverse(projects)
	}
	return projects, page, nil
}

// ToggleLike flips userID's membership in the project's like set and
// reports whether the project is now liked by the user.
//
// The $pull-first sequence keeps each step a single atomic document
// update; ModifiedCount tells us which way the toggle went.
func (s *Store) ToggleLike(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "likes": userID},
		bson.M{"$pull": bson.M{"likes": userID}},
	)
	if err != nil {
		return false, err
	}
	if res.ModifiedCount > 0 {
		return false, nil
	}

	res, err = s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$addToSet": bson.M{"likes": userID}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, mongo.ErrNoDocuments
	}
	return true, nil
}

// AddComment appends a comment and returns it with its generated id.
func (s *Store) AddComment(ctx context.Context, id, userID primitive.ObjectID, content string) (models.ProjectComment, error) {
	comment := models.ProjectComment{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updated_at": comment.CreatedAt},
	})
	if err != nil {
		return models.ProjectComment{}, err
	}
	if res.MatchedCount == 0 {
		return models.ProjectComment{}, mongo.ErrNoDocuments
	}
	return comment, nil
}

// AddMedia appends a showcase media entry.
func (s *Store) AddMedia(ctx context.Context, id primitive.ObjectID, m models.ShowcaseMedia) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"media": m},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// RemoveMedia deletes the media entry with the given key. Reports
// whether an entry was removed.
func (s *Store) RemoveMedia(ctx context.Context, id primitive.ObjectID, key string) (bool, error) {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$pull": bson.M{"media": bson.M{"key": key}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, mongo.ErrNoDocuments
	}
	return res.ModifiedCount > 0, nil
}
