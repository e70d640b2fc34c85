// internal/app/store/messages/messagestore.go

// Package messagestore wraps the messages collection. Conversations are
// keyed by the sorted user-id pair, so a single keyset query covers
// both directions of a DM thread.
package messagestore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillsync/skillsync/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("messages")}
}

// Send inserts a message. Connection checks happen in the handler; the
// store just derives the conversation key and stamps times.
func (s *Store) Send(ctx context.Context, m models.Message) (models.Message, error) {
	m.ID = primitive.NewObjectID()
	m.ConversationKey = models.ConnectionPairKey(m.SenderID, m.RecipientID)
	m.Read = false
	m.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

// ListConversation returns up to limit messages between the two users,
// newest first, strictly older than before when set.
func (s *Store) ListConversation(ctx context.Context, a, b primitive.ObjectID, before *primitive.ObjectID, limit int64) ([]models.Message, error) {
	filter := bson.M{"conversation_key": models.ConnectionPairKey(a, b)}
	if before != nil {
		filter["_id"] = bson.M{"$lt": *before}
	}

	cur, err := s.c.Find(ctx, filter,
		options.Find().
			SetSort(bson.D{{Key: "_id", Value: -1}}).
			SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	msgs := []models.Message{}
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// MarkRead flags every unread message sent to reader within the
// conversation with other. Returns how many flipped.
func (s *Store) MarkRead(ctx context.Context, reader, other primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{
			"conversation_key": models.ConnectionPairKey(reader, other),
			"recipient_id":     reader,
			"read":             false,
		},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// ConversationSummary is one row of a user's inbox: the latest message
// per conversation plus the unread count addressed to the user.
type ConversationSummary struct {
	OtherUserID primitive.ObjectID `bson:"other_user_id" json:"otherUser"`
	LastMessage models.Message     `bson:"last_message" json:"lastMessage"`
	Unread      int64              `bson:"unread" json:"unread"`
}

// Conversations lists the user's conversations newest-activity first.
func (s *Store) Conversations(ctx context.Context, userID primitive.ObjectID) ([]ConversationSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"sender_id": userID},
			bson.M{"recipient_id": userID},
		}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$conversation_key",
			"last_message": bson.M{"$first": "$$ROOT"},
			"unread": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$recipient_id", userID}},
					bson.M{"$eq": bson.A{"$read", false}},
				}},
				1, 0,
			}}},
		}}},
		{{Key: "$addFields", Value: bson.M{
			"other_user_id": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$last_message.sender_id", userID}},
				"$last_message.recipient_id",
				"$last_message.sender_id",
			}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "last_message._id", Value: -1}}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []ConversationSummary{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
