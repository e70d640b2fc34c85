// internal/domain/models/discussion.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Discussion categories (closed set).
const (
	CategoryGeneral      = "general"
	CategoryHelp         = "help"
	CategoryIdeas        = "ideas"
	CategoryShowcase     = "showcase"
	CategoryAnnouncement = "announcement"
)

// DiscussionReply is a single-level reply; replies do not nest.
type DiscussionReply struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	AuthorID  primitive.ObjectID `bson:"author_id" json:"author"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// Discussion is a thread on a project's team board. Likes is a set of
// user ids; a second like by the same user removes the first.
type Discussion struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ProjectID primitive.ObjectID   `bson:"project_id" json:"project"`
	AuthorID  primitive.ObjectID   `bson:"author_id" json:"author"`
	Title     string               `bson:"title" json:"title"`
	Content   string               `bson:"content" json:"content"`
	Category  string               `bson:"category" json:"category"`
	Hashtags  []string             `bson:"hashtags" json:"hashtags"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	Replies   []DiscussionReply    `bson:"replies" json:"replies"`
	IsPinned  bool                 `bson:"is_pinned" json:"isPinned"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ValidDiscussionCategory reports whether c is a known category.
func ValidDiscussionCategory(c string) bool {
	switch c {
	case CategoryGeneral, CategoryHelp, CategoryIdeas, CategoryShowcase, CategoryAnnouncement:
		return true
	}
	return false
}
