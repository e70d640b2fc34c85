package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillsync/skillsync/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates an active password-auth test user.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, username, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Username:   username,
		UsernameCI: text.Fold(username),
		Email:      email,
		EmailCI:    text.Fold(email),
		AuthMethod: models.AuthMethodPassword,
		Skills:     []models.UserSkill{},
		Interests:  []string{},
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateUserWithSkills creates a test user carrying the given skill list.
func (f *Fixtures) CreateUserWithSkills(ctx context.Context, fullName, username, email string, skills []models.UserSkill) models.User {
	f.t.Helper()

	user := f.CreateUser(ctx, fullName, username, email)
	user.Skills = skills
	_, err := f.db.Collection("users").UpdateByID(ctx, user.ID, map[string]any{"$set": map[string]any{"skills": skills}})
	if err != nil {
		f.t.Fatalf("failed to set test user skills: %v", err)
	}
	return user
}

// CreateProject creates an in-progress project owned by ownerID with the
// given team settings. The owner is seeded as the sole roster entry.
func (f *Fixtures) CreateProject(ctx context.Context, ownerID primitive.ObjectID, title string, settings models.TeamSettings) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	project := models.Project{
		ID:           primitive.NewObjectID(),
		OwnerID:      ownerID,
		Title:        title,
		TitleCI:      text.Fold(title),
		Description:  "Test project description",
		Technologies: []string{"go"},
		Status:       models.ProjectInProgress,
		TeamSettings: settings,
		TeamMembers: []models.TeamMember{
			{UserID: ownerID, Role: models.TeamRoleOwner, JoinedAt: now},
		},
		TeamRequests: []models.TeamRequest{},
		Likes:        []primitive.ObjectID{},
		Comments:     []models.ProjectComment{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := f.db.Collection("projects").InsertOne(ctx, project)
	if err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}

	return project
}

// CreateOpenProject creates a project that accepts team requests with the
// given roster capacity.
func (f *Fixtures) CreateOpenProject(ctx context.Context, ownerID primitive.ObjectID, title string, maxTeamSize int) models.Project {
	f.t.Helper()
	return f.CreateProject(ctx, ownerID, title, models.TeamSettings{
		AllowTeamRequests: true,
		MaxTeamSize:       maxTeamSize,
	})
}

// CreateAcceptedConnection inserts an accepted connection between two users.
func (f *Fixtures) CreateAcceptedConnection(ctx context.Context, a, b primitive.ObjectID) models.Connection {
	f.t.Helper()

	now := time.Now().UTC()
	conn := models.Connection{
		ID:          primitive.NewObjectID(),
		PairKey:     models.ConnectionPairKey(a, b),
		RequesterID: a,
		RecipientID: b,
		Status:      models.ConnectionAccepted,
		CreatedAt:   now,
		RespondedAt: &now,
	}

	_, err := f.db.Collection("connections").InsertOne(ctx, conn)
	if err != nil {
		f.t.Fatalf("failed to create test connection: %v", err)
	}

	return conn
}
