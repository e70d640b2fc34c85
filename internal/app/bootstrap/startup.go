// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	notificationstore "github.com/skillsync/skillsync/internal/app/store/notifications"
	"github.com/skillsync/skillsync/internal/app/system/workers"
)

// cleanupWorker is started here and stopped in Shutdown.
var cleanupWorker *workers.NotificationCleanup

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. SkillSync
// uses it to launch the background worker that prunes old read notifications.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	store := notificationstore.New(deps.SkillSyncMongoDatabase)
	cleanupWorker = workers.NewNotificationCleanup(store, logger, appCfg.NotifCleanupInterval, appCfg.NotifRetention)
	cleanupWorker.Start()
	return nil
}
