package projectstore_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	projectstore "github.com/skillsync/skillsync/internal/app/store/projects"
	"github.com/skillsync/skillsync/internal/domain/models"
	"github.com/skillsync/skillsync/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner", "owner@test.com")

	created, err := store.Create(ctx, models.Project{
		OwnerID:      owner.ID,
		Title:        "Skill Tracker",
		Description:  "Tracks skills",
		Technologies: []string{"go", "mongodb"},
		TeamSettings: models.TeamSettings{AllowTeamRequests: true, MaxTeamSize: 4},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Status != models.ProjectInProgress {
		t.Errorf("status: got %q, want %q", created.Status, models.ProjectInProgress)
	}
	if created.TitleCI == "" {
		t.Error("expected TitleCI to be set")
	}
	if len(created.TeamMembers) != 1 {
		t.Fatalf("expected creator as sole roster entry, got %d", len(created.TeamMembers))
	}
	if created.TeamMembers[0].UserID != owner.ID || created.TeamMembers[0].Role != models.TeamRoleOwner {
		t.Errorf("owner roster entry wrong: %+v", created.TeamMembers[0])
	}
}

func TestStore_ToggleLike(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner", "owner@test.com")
	fan := fixtures.CreateUser(ctx, "Fan", "fan", "fan@test.com")
	project := fixtures.CreateProject(ctx, owner.ID, "Liked Project", models.TeamSettings{MaxTeamSize: 1})

	liked, err := store.ToggleLike(ctx, project.ID, fan.ID)
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !liked {
		t.Error("first toggle should like")
	}

	liked, err = store.ToggleLike(ctx, project.ID, fan.ID)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if liked {
		t.Error("second toggle should unlike")
	}

	p, err := store.GetByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(p.Likes) != 0 {
		t.Errorf("expected empty like set after toggle pair, got %d", len(p.Likes))
	}
}

func TestStore_List_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner", "owner@test.com")
	other := fixtures.CreateUser(ctx, "Other", "other", "other@test.com")

	if _, err := store.Create(ctx, models.Project{
		OwnerID: owner.ID, Title: "Alpha", Technologies: []string{"go"},
		TeamSettings: models.TeamSettings{MaxTeamSize: 1},
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.Project{
		OwnerID: other.ID, Title: "Beta", Technologies: []string{"rust"},
		Status:       models.ProjectCompleted,
		TeamSettings: models.TeamSettings{MaxTeamSize: 1},
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, _, err := store.List(ctx, projectstore.ListFilter{Technology: "go"}, "", "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Alpha" {
		t.Errorf("technology filter: got %d projects", len(got))
	}

	got, _, err = store.List(ctx, projectstore.ListFilter{Status: models.ProjectCompleted}, "", "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Beta" {
		t.Errorf("status filter: got %d projects", len(got))
	}

	got, _, err = store.List(ctx, projectstore.ListFilter{MemberID: owner.ID}, "", "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Alpha" {
		t.Errorf("member filter: got %d projects", len(got))
	}

	got, _, err = store.List(ctx, projectstore.ListFilter{Title: "alp"}, "", "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Alpha" {
		t.Errorf("title prefix filter: got %d projects", len(got))
	}
}

func TestStore_Media(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner", "owner@test.com")
	project := fixtures.CreateProject(ctx, owner.ID, "Showcase", models.TeamSettings{MaxTeamSize: 1})

	media := models.ShowcaseMedia{Key: "abc-123", Kind: "image", Title: "Screenshot", URL: "https://example.com/s.png"}
	if err := store.AddMedia(ctx, project.ID, media); err != nil {
		t.Fatalf("AddMedia failed: %v", err)
	}

	removed, err := store.RemoveMedia(ctx, project.ID, "abc-123")
	if err != nil {
		t.Fatalf("RemoveMedia failed: %v", err)
	}
	if !removed {
		t.Error("expected removal to report true")
	}

	removed, err = store.RemoveMedia(ctx, project.ID, "abc-123")
	if err != nil {
		t.Fatalf("second RemoveMedia failed: %v", err)
	}
	if removed {
		t.Error("removing an absent key should report false")
	}
}
