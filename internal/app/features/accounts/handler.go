// internal/app/features/accounts/handler.go

// Package accounts covers password registration, login, logout, and the
// current-account endpoint. Google sign-in lives in authgoogle.
package accounts

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/skillsync/skillsync/internal/app/system/auth"
)

// Handler is the shared dependency container for the accounts feature.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Sessions *auth.SessionManager
}

func NewHandler(db *mongo.Database, logger *zap.Logger, sm *auth.SessionManager) *Handler {
	return &Handler{DB: db, Log: logger, Sessions: sm}
}
