// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillsync/skillsync/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateEmail    = errors.New("an account with this email already exists")
	ErrDuplicateUsername = errors.New("this username is taken")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create inserts a new user, filling the folded lookup fields and
// timestamps. Duplicate email/username surface as dedicated sentinels so
// the registration handler can report which field collided.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.FullNameCI = text.Fold(u.FullName)
	u.UsernameCI = text.Fold(u.Username)
	u.EmailCI = text.Fold(u.Email)
	if u.Status == "" {
		u.Status = "active"
	}
	if u.Skills == nil {
		u.Skills = []models.UserSkill{}
	}
	if u.Interests == nil {
		u.Interests = []string{}
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.c.InsertOne(ctx, u)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, s.classifyDup(ctx, u)
		}
		return models.User{}, err
	}
	return u, nil
}

// classifyDup figures out which unique index a duplicate insert hit.
func (s *Store) classifyDup(ctx context.Context, u models.User) error {
	n, err := s.c.CountDocuments(ctx, bson.M{"email_ci": u.EmailCI})
	if err == nil && n > 0 {
		return ErrDuplicateEmail
	}
	return ErrDuplicateUsername
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"username_ci": text.Fold(username)}).Decode(&u)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email_ci": text.Fold(email)}).Decode(&u)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// ProfilePatch carries the updatable profile fields. Nil slices leave
// the stored value untouched; empty slices clear it.
type ProfilePatch struct {
	FullName     string
	Title        *string
	Bio          *string
	Links        []string
	Availability *string
	Interests    []string
}

// UpdateProfile applies a patch to the user's profile fields.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, p ProfilePatch) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if strings.TrimSpace(p.FullName) != "" {
		set["full_name"] = p.FullName
		set["full_name_ci"] = text.Fold(p.FullName)
	}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Bio != nil {
		set["bio"] = *p.Bio
	}
	if p.Links != nil {
		set["links"] = p.Links
	}
	if p.Availability != nil {
		set["availability"] = *p.Availability
	}
	if p.Interests != nil {
		set["interests"] = p.Interests
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

// SetSkills replaces the user's skill list wholesale.
func (s *Store) SetSkills(ctx context.Context, id primitive.ObjectID, skills []models.UserSkill) error {
	if skills == nil {
		skills = []models.UserSkill{}
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"skills":     skills,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SearchFilter narrows Search results.
type SearchFilter struct {
	Skill string // matches a skill name, case-folded
	Name  string // prefix match on folded full name or username
}

// Search returns active users matching the filter, capped at limit,
// ordered by username.
func (s *Store) Search(ctx context.Context, f SearchFilter, limit int64) ([]models.User, error) {
	filter := bson.M{"status": "active"}
	if f.Skill != "" {
		filter["skills.name"] = bson.M{"$regex": "^" + regexEscape(text.Fold(f.Skill)), "$options": "i"}
	}
	if f.Name != "" {
		folded := text.Fold(f.Name)
		filter["$or"] = bson.A{
			bson.M{"full_name_ci": bson.M{"$regex": "^" + regexEscape(folded)}},
			bson.M{"username_ci": bson.M{"$regex": "^" + regexEscape(folded)}},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "username_ci", Value: 1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListActiveExcept returns up to limit active users other than id,
// the candidate pool for match suggestions.
func (s *Store) ListActiveExcept(ctx context.Context, id primitive.ObjectID, limit int64) ([]models.User, error) {
	filter := bson.M{
		"_id":    bson.M{"$ne": id},
		"status": "active",
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// regexEscape quotes regex metacharacters in user-supplied search text.
func regexEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\.+*?()|[]{}^$`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
