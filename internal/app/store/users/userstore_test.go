package userstore_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	userstore "github.com/skillsync/skillsync/internal/app/store/users"
	"github.com/skillsync/skillsync/internal/domain/models"
	"github.com/skillsync/skillsync/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName:   "Ada Lovelace",
		Username:   "ada",
		Email:      "ada@example.com",
		AuthMethod: models.AuthMethodPassword,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.FullNameCI == "" || created.UsernameCI == "" || created.EmailCI == "" {
		t.Error("expected folded lookup fields to be set")
	}
	if created.Status != "active" {
		t.Errorf("expected status 'active', got %q", created.Status)
	}
	if created.Skills == nil {
		t.Error("expected Skills initialized to empty slice")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_Create_Duplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := models.User{
		FullName:   "Ada Lovelace",
		Username:   "ada",
		Email:      "ada@example.com",
		AuthMethod: models.AuthMethodPassword,
	}
	if _, err := store.Create(ctx, base); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Same email, different username: email sentinel.
	dup := base
	dup.Username = "ada2"
	if _, err := store.Create(ctx, dup); err != userstore.ErrDuplicateEmail {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}

	// Same username (case-insensitive), different email: username sentinel.
	dup = base
	dup.Username = "ADA"
	dup.Email = "other@example.com"
	if _, err := store.Create(ctx, dup); err != userstore.ErrDuplicateUsername {
		t.Errorf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestStore_GetByUsername_CaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "Ada Lovelace", "AdaL", "ada@example.com")

	u, err := store.GetByUsername(ctx, "adal")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if u.Username != "AdaL" {
		t.Errorf("username: got %q, want AdaL", u.Username)
	}
}

func TestStore_UpdateProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Ada Lovelace", "ada", "ada@example.com")

	title := "Backend Engineer"
	bio := "I write Go."
	err := store.UpdateProfile(ctx, u.ID, userstore.ProfilePatch{
		FullName: "Ada King",
		Title:    &title,
		Bio:      &bio,
		Links:    []string{"https://example.com"},
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.FullName != "Ada King" {
		t.Errorf("full name: got %q", got.FullName)
	}
	if got.Title != title || got.Bio != bio {
		t.Errorf("title/bio not applied: %q / %q", got.Title, got.Bio)
	}
	if len(got.Links) != 1 {
		t.Errorf("links not applied: %v", got.Links)
	}

	// Nil pointers leave fields untouched.
	if err := store.UpdateProfile(ctx, u.ID, userstore.ProfilePatch{}); err != nil {
		t.Fatalf("empty patch failed: %v", err)
	}
	got, _ = store.GetByID(ctx, u.ID)
	if got.Title != title {
		t.Errorf("empty patch must not clear title, got %q", got.Title)
	}

	if err := store.UpdateProfile(ctx, primitive.NewObjectID(), userstore.ProfilePatch{}); err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments for missing user, got %v", err)
	}
}

func TestStore_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUserWithSkills(ctx, "Ada Lovelace", "ada", "ada@example.com",
		[]models.UserSkill{{Name: "go", Level: 5}})
	fixtures.CreateUserWithSkills(ctx, "Grace Hopper", "grace", "grace@example.com",
		[]models.UserSkill{{Name: "cobol", Level: 5}})

	got, err := store.Search(ctx, userstore.SearchFilter{Skill: "go"}, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 1 || got[0].Username != "ada" {
		t.Errorf("skill search: got %d users", len(got))
	}

	got, err = store.Search(ctx, userstore.SearchFilter{Name: "gra"}, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 1 || got[0].Username != "grace" {
		t.Errorf("name search: got %d users", len(got))
	}
}
