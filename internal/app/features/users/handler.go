// internal/app/features/users/handler.go

// Package users serves public profiles, profile editing, the skill
// list, the people directory, and match suggestions.
package users

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the users feature.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger

	// MatchLimit caps suggestion list size; set from config at startup.
	MatchLimit int
}

func NewHandler(db *mongo.Database, logger *zap.Logger, matchLimit int) *Handler {
	return &Handler{DB: db, Log: logger, MatchLimit: matchLimit}
}
