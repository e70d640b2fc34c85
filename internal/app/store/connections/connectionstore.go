// internal/app/store/connections/connectionstore.go
package connectionstore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillsync/skillsync/internal/app/system/apperr"
	"github.com/skillsync/skillsync/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("connections")}
}

// Request opens a pending connection from requester to recipient.
//
// The partial unique index on pair_key (status=pending) turns a
// concurrent duplicate into a duplicate-key error, so the
// one-pending-per-pair invariant holds without a transaction.
func (s *Store) Request(ctx context.Context, requester, recipient primitive.ObjectID) (models.Connection, error) {
	if requester == recipient {
		return models.Connection{}, apperr.New(apperr.Validation, "SELF_CONNECTION", "cannot connect to yourself")
	}

	pairKey := models.ConnectionPairKey(requester, recipient)

	// An accepted connection already linking the pair blocks a new request.
	n, err := s.c.CountDocuments(ctx, bson.M{"pair_key": pairKey, "status": models.ConnectionAccepted})
	if err != nil {
		return models.Connection{}, err
	}
	if n > 0 {
		return models.Connection{}, apperr.New(apperr.Precondition, "ALREADY_CONNECTED", "users are already connected")
	}

	conn := models.Connection{
		ID:          primitive.NewObjectID(),
		PairKey:     pairKey,
		RequesterID: requester,
		RecipientID: recipient,
		Status:      models.ConnectionPending,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := s.c.InsertOne(ctx, conn); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Connection{}, apperr.New(apperr.Precondition, "REQUEST_PENDING", "a connection request between these users is already pending")
		}
		return models.Connection{}, err
	}
	return conn, nil
}

// Decide accepts or rejects a pending connection. Only the recipient may
// decide, and only from pending; anything else is a distinct failure.
func (s *Store) Decide(ctx context.Context, connID, recipient primitive.ObjectID, accept bool) (models.Connection, error) {
	status := models.ConnectionRejected
	if accept {
		status = models.ConnectionAccepted
	}
	now := time.Now().UTC()

	var conn models.Connection
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": connID, "recipient_id": recipient, "status": models.ConnectionPending},
		bson.M{"$set": bson.M{"status": status, "responded_at": now}},
	).Decode(&conn)
	if err == nil {
		conn.Status = status
		conn.RespondedAt = &now
		return conn, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Connection{}, err
	}

	// No match: work out which precondition failed.
	var existing models.Connection
	ferr := s.c.FindOne(ctx, bson.M{"_id": connID}).Decode(&existing)
	switch {
	case ferr == mongo.ErrNoDocuments:
		return models.Connection{}, apperr.New(apperr.NotFound, "NOT_FOUND", "connection request not found")
	case ferr != nil:
		return models.Connection{}, ferr
	case existing.RecipientID != recipient:
		return models.Connection{}, apperr.New(apperr.Forbidden, "NOT_RECIPIENT", "only the recipient can decide this request")
	default:
		return models.Connection{}, apperr.New(apperr.Precondition, "ALREADY_DECIDED", "this request was already decided")
	}
}

// ListAccepted returns the accepted connections touching userID.
func (s *Store) ListAccepted(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	return s.list(ctx, bson.M{
		"status": models.ConnectionAccepted,
		"$or": bson.A{
			bson.M{"requester_id": userID},
			bson.M{"recipient_id": userID},
		},
	})
}

// ListPendingIncoming returns pending requests addressed to userID.
func (s *Store) ListPendingIncoming(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	return s.list(ctx, bson.M{"recipient_id": userID, "status": models.ConnectionPending})
}

// ListPendingOutgoing returns pending requests sent by userID.
func (s *Store) ListPendingOutgoing(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	return s.list(ctx, bson.M{"requester_id": userID, "status": models.ConnectionPending})
}

// AcceptedBetween reports whether an accepted connection links a and b.
func (s *Store) AcceptedBetween(ctx context.Context, a, b primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"pair_key": models.ConnectionPairKey(a, b),
		"status":   models.ConnectionAccepted,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RelatedUserIDs returns the hex ids of every user connected to or in a
// pending exchange with userID. Match suggestions exclude these.
func (s *Store) RelatedUserIDs(ctx context.Context, userID primitive.ObjectID) (map[string]struct{}, error) {
	conns, err := s.list(ctx, bson.M{
		"status": bson.M{"$in": bson.A{models.ConnectionAccepted, models.ConnectionPending}},
		"$or": bson.A{
			bson.M{"requester_id": userID},
			bson.M{"recipient_id": userID},
		},
	})
	if err != nil {
		return nil, err
	}

	out := make(map[string]struct{}, len(conns))
	for _, c := range conns {
		other := c.RequesterID
		if other == userID {
			other = c.RecipientID
		}
		out[other.Hex()] = struct{}{}
	}
	return out, nil
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Connection, error) {
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var conns []models.Connection
	if err := cur.All(ctx, &conns); err != nil {
		return nil, err
	}
	return conns, nil
}
