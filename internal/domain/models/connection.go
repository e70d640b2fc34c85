// internal/domain/models/connection.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Connection states.
const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
	ConnectionRejected = "rejected"
)

// Connection links two users. PairKey is the two user id hex strings
// joined in sorted order; a partial unique index on (pair_key) where
// status == "pending" guarantees at most one open request per pair.
type Connection struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PairKey     string             `bson:"pair_key" json:"-"`
	RequesterID primitive.ObjectID `bson:"requester_id" json:"requester"`
	RecipientID primitive.ObjectID `bson:"recipient_id" json:"recipient"`
	Status      string             `bson:"status" json:"status"`

	CreatedAt   time.Time  `bson:"created_at" json:"createdAt"`
	RespondedAt *time.Time `bson:"responded_at,omitempty" json:"respondedAt,omitempty"`
}

// ConnectionPairKey builds the canonical key for a user pair.
func ConnectionPairKey(a, b primitive.ObjectID) string {
	ah, bh := a.Hex(), b.Hex()
	if ah < bh {
		return ah + ":" + bh
	}
	return bh + ":" + ah
}
