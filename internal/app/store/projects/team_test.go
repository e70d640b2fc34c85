package projectstore_test

import (
	"fmt"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	projectstore "github.com/skillsync/skillsync/internal/app/store/projects"
	"github.com/skillsync/skillsync/internal/app/system/apperr"
	"github.com/skillsync/skillsync/internal/domain/models"
	"github.com/skillsync/skillsync/internal/testutil"
)

func TestStore_SubmitTeamRequest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner", "owner@test.com")
	applicant := fixtures.CreateUser(ctx, "Applicant", "applicant", "applicant@test.com")
	project := fixtures.CreateOpenProject(ctx, owner.ID, "Chat App", 3)

	req, err := store.SubmitTeamRequest(ctx, project.ID, applicant.ID, "I can help with the backend", []string{"go"})
	if err != nil {
		t.Fatalf("SubmitTeamRequest failed: %v", err)
	}
	if req.Status != models.RequestPending {
		t.Errorf("status: got %q, want %q", req.Status, models.RequestPending)
	}
	if req.ID == primitive.NilObjectID {
		t.Error("expected request ID to be assigned")
	}

	p, err := store.GetByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(p.TeamRequests) != 1 {
		t.Fatalf("expected 1 team request, got %d", len(p.TeamRequests))
	}
	if p.TeamRequests[0].UserID != applicant.ID {
		t.Error("request user id mismatch")
	}
}

func TestStore_SubmitTeamRequest_OnePendingPerUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner", "owner@test.com")
	applicant := fixtures.CreateUser(ctx, "Applicant", "applicant", "applicant@test.com")
	project := fixtures.CreateOpenProject(ctx, owner.ID, "Chat App", 3)

	if _, err := store.SubmitTeamRequest(ctx, project.ID, applicant.ID, "", nil); err != nil {
		t.Fatalf("first SubmitTeamRequest failed: %v", err)
	}

	_, err := store.SubmitTeamRequest(ctx, project.ID, applicant.ID, "", nil)
	if !apperr.IsKind(err, apperr.Precondition) {
		t.Fatalf("expected Precondition error, got %v", err)
	}
	if apperr.CodeOf(err) != "REQUEST_PENDING" {
		t.Errorf("code: got %q, want REQUEST_PENDING", apperr.CodeOf(err))
	}

	p, err := store.GetByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(p.TeamRequests) != 1 {
		t.Errorf("expected 1 team request, got %d", len(p.TeamRequests))
	}
}

func TestStore_SubmitTeamRequest_Preconditions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner", "owner@test.com")
	applicant := fixtures.CreateUser(ctx, "Applicant", "applicant", "applicant@test.com")

	t.Run("missing project", func(t *testing.T) {
		_, err := store.SubmitTeamRequest(ctx, primitive.NewObjectID(), applicant.ID, "", nil)
		if !apperr.IsKind(err, apperr.NotFound) {
			t.Fatalf("expected NotFound error, got %v", err)
		}
	})

	t.Run("requests closed", func(t *testing.T) {
		closed := fixtures.CreateProject(ctx, owner.ID, "Closed", models.TeamSettings{AllowTeamRequests: false, MaxTeamSize: 3})
		_, err := store.SubmitTeamRequest(ctx, closed.ID, applicant.ID, "", nil)
		if apperr.CodeOf(err) != "REQUESTS_CLOSED" {
			t.Fatalf("code: got %q, want REQUESTS_CLOSED (err: %v)", apperr.CodeOf(err), err)
		}
	})

	t.Run("owner applying to own project", func(t *testing.T) {
		open := fixtures.CreateOpenProject(ctx, owner.ID, "Open", 3)
		_, err := store.SubmitTeamRequest(ctx, open.ID, owner.ID, "", nil)
		if apperr.CodeOf(err) != "ALREADY_MEMBER" {
			t.Fatalf("code: got %q, want ALREADY_MEMBER (err: %v)", apperr.CodeOf(err), err)
		}
	})

	t.Run("solo project is full", func(t *testing.T) {
		// maxTeamSize 1 means the owner alone fills the roster, so a
		// request can never be submitted, let alone accepted.
		solo := fixtures.CreateOpenProject(ctx, owner.ID, "Solo", 1)
		_, err := store.SubmitTeamRequest(ctx, solo.ID, applicant.ID, "", nil)
		if apperr.CodeOf(err) != "TEAM_FULL" {
			t.Fatalf("code: got %q, want TEAM_FULL (err: %v)", apperr.CodeOf(err), err)
		}
	})
}

func TestStore_AcceptTeamRequest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner", "owner@test.com")
	applicant := fixtures.CreateUser(ctx, "Applicant", "applicant", "applicant@test.com")
	project := fixtures.CreateOpenProject(ctx, owner.ID, "Chat App", 3)

	req, err := store.SubmitTeamRequest(ctx, project.ID, applicant.ID, "", []string{"go", "mongodb"})
	if err != nil {
		t.Fatalf("SubmitTeamRequest failed: %v", err)
	}

	p, err := store.AcceptTeamRequest(ctx, project.ID, req.ID, owner.ID)
	if err != nil {
		t.Fatalf("AcceptTeamRequest failed: %v", err)
	}

	if len(p.TeamMembers) != 2 {
		t.Fatalf("expected 2 team members, got %d", len(p.TeamMembers))
	}
	joined := p.TeamMembers[1]
	if joined.UserID != applicant.ID {
		t.Error("roster entry user id mismatch")
	}
	if joined.Role != models.TeamRoleMember {
		t.Errorf("role: got %q, want %q", joined.Role, models.TeamRoleMember)
	}
	if len(joined.Skills) != 2 {
		t.Errorf("expected request skills carried onto roster, got %v", joined.Skills)
	}

	decided := p.TeamRequests[0]
	if decided.Status != models.RequestAccepted {
		t.Errorf("request status: got %q, want %q", decided.Status, models.RequestAccepted)
	}
	if decided.DecidedAt == nil {
		t.Error("expected DecidedAt to be set")
	}
	if decided.DecidedBy == nil || *decided.DecidedBy != owner.ID {
		t.Error("expected DecidedBy to record the acting user")
	}
}

func TestStore_AcceptTeamRequest_Terminal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner", "owner@test.com")
	applicant := fixtures.CreateUser(ctx, "Applicant", "applicant", "applicant@test.com")
	project := fixtures.CreateOpenProject(ctx, owner.ID, "Chat App", 3)

	req, err := store.SubmitTeamRequest(ctx, project.ID, applicant.ID, "", nil)
	if err != nil {
		t.Fatalf("SubmitTeamRequest failed: %v", err)
	}
	if _, err := store.RejectTeamRequest(ctx, project.ID, req.ID, owner.ID); err != nil {
		t.Fatalf("RejectTeamRequest failed: %v", err)
	}

	// A decided request cannot flip again, in either direction.
	_, err = store.AcceptTeamRequest(ctx, project.ID, req.ID, owner.ID)
	if apperr.CodeOf(err) != "ALREADY_DECIDED" {
		t.Fatalf("accept after reject: code got %q, want ALREADY_DECIDED (err: %v)", apperr.CodeOf(err), err)
	}
	_, err = store.RejectTeamRequest(ctx, project.ID, req.ID, owner.ID)
	if apperr.CodeOf(err) != "ALREADY_DECIDED" {
		t.Fatalf("reject after reject: code got %q, want ALREADY_DECIDED (err: %v)", apperr.CodeOf(err), err)
	}

	p, err := store.GetByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(p.TeamMembers) != 1 {
		t.Errorf("roster must be unchanged, got %d members", len(p.TeamMembers))
	}
	if p.TeamRequests[0].Status != models.RequestRejected {
		t.Errorf("request status: got %q, want %q", p.TeamRequests[0].Status, models.RequestRejected)
	}
}

func TestStore_AcceptTeamRequest_CapacityNeverExceeded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner", "owner@test.com")
	// Capacity 2: the owner plus exactly one more.
	project := fixtures.CreateOpenProject(ctx, owner.ID, "Tight Roster", 2)

	var requests []models.TeamRequest
	for i := 0; i < 4; i++ {
		u := fixtures.CreateUser(ctx,
			fmt.Sprintf("Applicant %d", i),
			fmt.Sprintf("applicant%d", i),
			fmt.Sprintf("applicant%d@test.com", i))
		req, err := store.SubmitTeamRequest(ctx, project.ID, u.ID, "", nil)
		if err != nil {
			t.Fatalf("SubmitTeamRequest %d failed: %v", i, err)
		}
		requests = append(requests, req)
	}

	// Race all four accepts. Exactly one may win.
	var wg sync.WaitGroup
	errs := make([]error, len(requests))
	for i, req := range requests {
		wg.Add(1)
		go func(i int, reqID primitive.ObjectID) {
			defer wg.Done()
			_, errs[i] = store.AcceptTeamRequest(ctx, project.ID, reqID, owner.ID)
		}(i, req.ID)
	}
	wg.Wait()

	won := 0
	for i, err := range errs {
		switch {
		case err == nil:
			won++
		case apperr.CodeOf(err) == "TEAM_FULL":
		default:
			t.Errorf("accept %d: unexpected error %v", i, err)
		}
	}
	if won != 1 {
		t.Errorf("expected exactly 1 accept to win, got %d", won)
	}

	p, err := store.GetByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(p.TeamMembers) > p.TeamSettings.MaxTeamSize {
		t.Errorf("roster overshot capacity: %d members, max %d", len(p.TeamMembers), p.TeamSettings.MaxTeamSize)
	}
}

func TestStore_RemoveMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner", "owner@test.com")
	member := fixtures.CreateUser(ctx, "Member", "member", "member@test.com")
	project := fixtures.CreateOpenProject(ctx, owner.ID, "Chat App", 3)

	req, err := store.SubmitTeamRequest(ctx, project.ID, member.ID, "", nil)
	if err != nil {
		t.Fatalf("SubmitTeamRequest failed: %v", err)
	}
	if _, err := store.AcceptTeamRequest(ctx, project.ID, req.ID, owner.ID); err != nil {
		t.Fatalf("AcceptTeamRequest failed: %v", err)
	}

	if err := store.RemoveMember(ctx, project.ID, member.ID); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}

	p, err := store.GetByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(p.TeamMembers) != 1 || p.TeamMembers[0].UserID != owner.ID {
		t.Errorf("expected only the owner to remain, got %v", p.TeamMembers)
	}

	// Removal frees a roster slot, so the same user can apply again.
	if _, err := store.SubmitTeamRequest(ctx, project.ID, member.ID, "", nil); err != nil {
		t.Errorf("re-apply after removal failed: %v", err)
	}
}

func TestStore_RemoveMember_OwnerImmovable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner", "owner@test.com")
	project := fixtures.CreateOpenProject(ctx, owner.ID, "Chat App", 3)

	err := store.RemoveMember(ctx, project.ID, owner.ID)
	if apperr.CodeOf(err) != "OWNER_IMMOVABLE" {
		t.Fatalf("code: got %q, want OWNER_IMMOVABLE (err: %v)", apperr.CodeOf(err), err)
	}

	err = store.RemoveMember(ctx, project.ID, primitive.NewObjectID())
	if apperr.CodeOf(err) != "MEMBER_NOT_FOUND" {
		t.Fatalf("code: got %q, want MEMBER_NOT_FOUND (err: %v)", apperr.CodeOf(err), err)
	}
}

func TestStore_SetMemberRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner", "owner@test.com")
	member := fixtures.CreateUser(ctx, "Member", "member", "member@test.com")
	project := fixtures.CreateOpenProject(ctx, owner.ID, "Chat App", 3)

	req, err := store.SubmitTeamRequest(ctx, project.ID, member.ID, "", nil)
	if err != nil {
		t.Fatalf("SubmitTeamRequest failed: %v", err)
	}
	if _, err := store.AcceptTeamRequest(ctx, project.ID, req.ID, owner.ID); err != nil {
		t.Fatalf("AcceptTeamRequest failed: %v", err)
	}

	if err := store.SetMemberRole(ctx, project.ID, member.ID, models.TeamRoleAdmin); err != nil {
		t.Fatalf("SetMemberRole failed: %v", err)
	}

	p, err := store.GetByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	for _, m := range p.TeamMembers {
		if m.UserID == member.ID && m.Role != models.TeamRoleAdmin {
			t.Errorf("role: got %q, want %q", m.Role, models.TeamRoleAdmin)
		}
	}

	// The owner role is not assignable and the owner is not demotable.
	if err := store.SetMemberRole(ctx, project.ID, member.ID, models.TeamRoleOwner); !apperr.IsKind(err, apperr.Validation) {
		t.Errorf("expected Validation error assigning owner role, got %v", err)
	}
	if err := store.SetMemberRole(ctx, project.ID, owner.ID, models.TeamRoleMember); apperr.CodeOf(err) != "MEMBER_NOT_FOUND" {
		t.Errorf("expected MEMBER_NOT_FOUND demoting owner, got %v", err)
	}
}
