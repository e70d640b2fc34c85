package discussionstore_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	discussionstore "github.com/skillsync/skillsync/internal/app/store/discussions"
	"github.com/skillsync/skillsync/internal/domain/models"
	"github.com/skillsync/skillsync/internal/testutil"
)

func TestStore_ListByProject_PinnedFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := discussionstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	projectID := primitive.NewObjectID()
	authorID := primitive.NewObjectID()

	older, err := store.Create(ctx, models.Discussion{
		ProjectID: projectID,
		AuthorID:  authorID,
		Title:     "Older thread",
		Category:  models.CategoryGeneral,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.Discussion{
		ProjectID: projectID,
		AuthorID:  authorID,
		Title:     "Newer thread",
		Category:  models.CategoryHelp,
		Hashtags:  []string{"setup"},
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Pin the older thread; it must jump to the top.
	if err := store.SetPinned(ctx, older.ID, true); err != nil {
		t.Fatalf("SetPinned failed: %v", err)
	}

	got, err := store.ListByProject(ctx, projectID, discussionstore.ListFilter{})
	if err != nil {
		t.Fatalf("ListByProject failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 threads, got %d", len(got))
	}
	if got[0].ID != older.ID || !got[0].IsPinned {
		t.Errorf("pinned thread must sort first, got %q", got[0].Title)
	}

	byCategory, err := store.ListByProject(ctx, projectID, discussionstore.ListFilter{Category: models.CategoryHelp})
	if err != nil {
		t.Fatalf("ListByProject failed: %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].Title != "Newer thread" {
		t.Errorf("category filter: got %d threads", len(byCategory))
	}

	byTag, err := store.ListByProject(ctx, projectID, discussionstore.ListFilter{Hashtag: "setup"})
	if err != nil {
		t.Fatalf("ListByProject failed: %v", err)
	}
	if len(byTag) != 1 {
		t.Errorf("hashtag filter: got %d threads", len(byTag))
	}
}

func TestStore_ToggleLike(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := discussionstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	d, err := store.Create(ctx, models.Discussion{
		ProjectID: primitive.NewObjectID(),
		AuthorID:  primitive.NewObjectID(),
		Title:     "Likeable",
		Category:  models.CategoryGeneral,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	userID := primitive.NewObjectID()

	liked, err := store.ToggleLike(ctx, d.ID, userID)
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !liked {
		t.Error("first toggle should like")
	}

	liked, err = store.ToggleLike(ctx, d.ID, userID)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if liked {
		t.Error("second toggle should unlike")
	}

	got, err := store.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Likes) != 0 {
		t.Errorf("expected empty like set, got %d", len(got.Likes))
	}
}

func TestStore_AddReply(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := discussionstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	d, err := store.Create(ctx, models.Discussion{
		ProjectID: primitive.NewObjectID(),
		AuthorID:  primitive.NewObjectID(),
		Title:     "Thread",
		Category:  models.CategoryGeneral,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	reply, err := store.AddReply(ctx, d.ID, models.DiscussionReply{
		AuthorID: primitive.NewObjectID(),
		Content:  "Good point",
	})
	if err != nil {
		t.Fatalf("AddReply failed: %v", err)
	}
	if reply.ID == primitive.NilObjectID {
		t.Error("expected reply ID to be assigned")
	}

	got, err := store.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Replies) != 1 || got.Replies[0].Content != "Good point" {
		t.Errorf("replies: got %v", got.Replies)
	}
}
