// internal/domain/models/message.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment describes a file referenced from a direct message. Key is a
// UUID assigned at send time; the blob itself lives outside this service.
type Attachment struct {
	Key  string `bson:"key" json:"key"`
	Name string `bson:"name" json:"name"`
	Size int64  `bson:"size" json:"size"`
}

// Message is one direct message between two connected users.
// ConversationKey uses the same sorted-pair form as ConnectionPairKey so
// both directions of a conversation land in one stream.
type Message struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationKey string             `bson:"conversation_key" json:"-"`
	SenderID        primitive.ObjectID `bson:"sender_id" json:"sender"`
	RecipientID     primitive.ObjectID `bson:"recipient_id" json:"recipient"`
	Body            string             `bson:"body" json:"body"`
	Attachment      *Attachment        `bson:"attachment,omitempty" json:"attachment,omitempty"`
	Read            bool               `bson:"read" json:"read"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
}
