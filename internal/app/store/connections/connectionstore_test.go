package connectionstore_test

import (
	"testing"

	connectionstore "github.com/skillsync/skillsync/internal/app/store/connections"
	"github.com/skillsync/skillsync/internal/app/system/apperr"
	"github.com/skillsync/skillsync/internal/domain/models"
	"github.com/skillsync/skillsync/internal/testutil"
)

func TestStore_Request(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := connectionstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateUser(ctx, "Alice", "alice", "alice@test.com")
	b := fixtures.CreateUser(ctx, "Bob", "bob", "bob@test.com")

	conn, err := store.Request(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if conn.Status != models.ConnectionPending {
		t.Errorf("status: got %q, want pending", conn.Status)
	}
	if conn.PairKey != models.ConnectionPairKey(a.ID, b.ID) {
		t.Error("pair key mismatch")
	}
}

func TestStore_Request_Duplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := connectionstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateUser(ctx, "Alice", "alice", "alice@test.com")
	b := fixtures.CreateUser(ctx, "Bob", "bob", "bob@test.com")

	if _, err := store.Request(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	// Same direction and reversed direction both collide with the
	// pending request.
	if _, err := store.Request(ctx, a.ID, b.ID); apperr.CodeOf(err) != "REQUEST_PENDING" {
		t.Errorf("same direction: got %v, want REQUEST_PENDING", err)
	}
	if _, err := store.Request(ctx, b.ID, a.ID); apperr.CodeOf(err) != "REQUEST_PENDING" {
		t.Errorf("reversed: got %v, want REQUEST_PENDING", err)
	}

	if _, err := store.Request(ctx, a.ID, a.ID); !apperr.IsKind(err, apperr.Validation) {
		t.Errorf("self connection: got %v, want Validation", err)
	}
}

func TestStore_Decide(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := connectionstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateUser(ctx, "Alice", "alice", "alice@test.com")
	b := fixtures.CreateUser(ctx, "Bob", "bob", "bob@test.com")
	c := fixtures.CreateUser(ctx, "Carol", "carol", "carol@test.com")

	conn, err := store.Request(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	// Only the recipient may decide.
	if _, err := store.Decide(ctx, conn.ID, c.ID, true); !apperr.IsKind(err, apperr.Forbidden) {
		t.Errorf("non-recipient decide: got %v, want Forbidden", err)
	}

	decided, err := store.Decide(ctx, conn.ID, b.ID, true)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if decided.Status != models.ConnectionAccepted {
		t.Errorf("status: got %q, want accepted", decided.Status)
	}
	if decided.RespondedAt == nil {
		t.Error("expected RespondedAt to be set")
	}

	// Decisions are terminal.
	if _, err := store.Decide(ctx, conn.ID, b.ID, false); apperr.CodeOf(err) != "ALREADY_DECIDED" {
		t.Errorf("second decide: got %v, want ALREADY_DECIDED", err)
	}

	// Once accepted, a fresh request is blocked.
	if _, err := store.Request(ctx, a.ID, b.ID); apperr.CodeOf(err) != "ALREADY_CONNECTED" {
		t.Errorf("request after accept: got %v, want ALREADY_CONNECTED", err)
	}

	ok, err := store.AcceptedBetween(ctx, b.ID, a.ID)
	if err != nil {
		t.Fatalf("AcceptedBetween failed: %v", err)
	}
	if !ok {
		t.Error("expected AcceptedBetween to report true")
	}
}

func TestStore_Reject_AllowsRetry(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := connectionstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateUser(ctx, "Alice", "alice", "alice@test.com")
	b := fixtures.CreateUser(ctx, "Bob", "bob", "bob@test.com")

	conn, err := store.Request(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if _, err := store.Decide(ctx, conn.ID, b.ID, false); err != nil {
		t.Fatalf("Decide failed: %v", err)
	}

	// A rejected pair can try again.
	if _, err := store.Request(ctx, a.ID, b.ID); err != nil {
		t.Errorf("request after reject failed: %v", err)
	}
}

func TestStore_Lists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := connectionstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateUser(ctx, "Alice", "alice", "alice@test.com")
	b := fixtures.CreateUser(ctx, "Bob", "bob", "bob@test.com")
	c := fixtures.CreateUser(ctx, "Carol", "carol", "carol@test.com")

	fixtures.CreateAcceptedConnection(ctx, a.ID, b.ID)
	if _, err := store.Request(ctx, c.ID, a.ID); err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	accepted, err := store.ListAccepted(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListAccepted failed: %v", err)
	}
	if len(accepted) != 1 {
		t.Errorf("accepted: got %d, want 1", len(accepted))
	}

	incoming, err := store.ListPendingIncoming(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListPendingIncoming failed: %v", err)
	}
	if len(incoming) != 1 || incoming[0].RequesterID != c.ID {
		t.Errorf("incoming: got %d", len(incoming))
	}

	outgoing, err := store.ListPendingOutgoing(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListPendingOutgoing failed: %v", err)
	}
	if len(outgoing) != 1 {
		t.Errorf("outgoing: got %d, want 1", len(outgoing))
	}

	related, err := store.RelatedUserIDs(ctx, a.ID)
	if err != nil {
		t.Fatalf("RelatedUserIDs failed: %v", err)
	}
	if len(related) != 2 {
		t.Errorf("related: got %d, want 2", len(related))
	}
	if _, ok := related[b.ID.Hex()]; !ok {
		t.Error("expected accepted peer in related set")
	}
	if _, ok := related[c.ID.Hex()]; !ok {
		t.Error("expected pending peer in related set")
	}
}
