// internal/app/features/health/handler.go
package health

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/skillsync/skillsync/internal/app/system/httpjson"
	"github.com/skillsync/skillsync/internal/app/system/timeouts"
)

// Handler serves liveness and readiness probes.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

// Serve reports ok plus whether Mongo answers a ping within the ping
// timeout. A failed ping still returns 200 with db:"down" so load
// balancers can distinguish app-up from db-up.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	db := "ok"
	if err := h.DB.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		h.Log.Warn("health ping failed", zap.Error(err))
		db = "down"
	}

	httpjson.OK(w, map[string]string{"status": "ok", "db": db})
}
