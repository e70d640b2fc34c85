// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Auth methods for user accounts.
const (
	AuthMethodPassword = "password"
	AuthMethodGoogle   = "google"
)

// UserSkill is one entry in a user's skill list. Level runs 1 (novice)
// through 5 (expert).
type UserSkill struct {
	Name  string `bson:"name" json:"name"`
	Level int    `bson:"level" json:"level"`
}

// User represents a SkillSync account.
//
// NOTE:
//   - The *_ci fields hold lowercase, diacritics-stripped copies for
//     case-insensitive lookup and unique indexes.
//   - PasswordHash is empty for OAuth-only accounts.
//   - Project team membership is embedded on Project, not here.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"fullName"`
	FullNameCI   string             `bson:"full_name_ci" json:"-"`
	Username     string             `bson:"username" json:"username"`
	UsernameCI   string             `bson:"username_ci" json:"-"`
	Email        string             `bson:"email" json:"email"`
	EmailCI      string             `bson:"email_ci" json:"-"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	AuthMethod   string             `bson:"auth_method" json:"authMethod"`

	Title        string      `bson:"title,omitempty" json:"title,omitempty"`
	Bio          string      `bson:"bio,omitempty" json:"bio,omitempty"`
	Skills       []UserSkill `bson:"skills" json:"skills"`
	Interests    []string    `bson:"interests" json:"interests"`
	Links        []string    `bson:"links,omitempty" json:"links,omitempty"`
	Availability string      `bson:"availability,omitempty" json:"availability,omitempty"`

	Status string `bson:"status" json:"status"` // active | disabled

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
