// internal/app/system/authz/authz.go

// Package authz extracts the authenticated identity from a request.
// Per-project roles live on the project roster; see policy/projectpolicy.
package authz

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skillsync/skillsync/internal/app/system/auth"
)

// UserCtx returns the current user's Mongo ObjectID, username, and a
// found flag. If no user is present in context or the user ID is
// malformed, it returns NilObjectID, "", false — ok=true always means a
// valid, authenticated user.
func UserCtx(r *http.Request) (userID primitive.ObjectID, username string, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, "", false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return primitive.NilObjectID, "", false
	}
	return userID, user.Username, true
}
