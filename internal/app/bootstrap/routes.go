// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	accountsfeature "github.com/skillsync/skillsync/internal/app/features/accounts"
	authgooglefeature "github.com/skillsync/skillsync/internal/app/features/authgoogle"
	connectionsfeature "github.com/skillsync/skillsync/internal/app/features/connections"
	discussionsfeature "github.com/skillsync/skillsync/internal/app/features/discussions"
	healthfeature "github.com/skillsync/skillsync/internal/app/features/health"
	messagesfeature "github.com/skillsync/skillsync/internal/app/features/messages"
	notificationsfeature "github.com/skillsync/skillsync/internal/app/features/notifications"
	projectsfeature "github.com/skillsync/skillsync/internal/app/features/projects"
	tasksfeature "github.com/skillsync/skillsync/internal/app/features/tasks"
	usersfeature "github.com/skillsync/skillsync/internal/app/features/users"
	"github.com/skillsync/skillsync/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. SkillSync mounts JSON feature routers
// for accounts, profiles, connections, projects, task boards, discussions,
// messaging, and notifications. Task and discussion boards are nested
// inside the projects router so board listings live under
// /projects/{id}/tasks and /projects/{id}/discussions, while individual
// tasks and threads keep flat top-level routes.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.SkillSyncMongoDatabase

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if signed in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(db, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Registration, login, and session management.
	accountsHandler := accountsfeature.NewHandler(db, logger, sessionMgr)
	r.Mount("/auth", accountsfeature.Routes(accountsHandler, sessionMgr))

	// Google OAuth sign-in, only when credentials are configured.
	googleHandler := authgooglefeature.NewHandler(db, sessionMgr, appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	if googleHandler.IsConfigured() {
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
	} else {
		logger.Info("google oauth not configured, /auth/google disabled")
	}

	// Profiles, skill search, and match suggestions.
	usersHandler := usersfeature.NewHandler(db, logger, appCfg.MatchLimit)
	r.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr))

	// Connection requests between users.
	connectionsHandler := connectionsfeature.NewHandler(db, logger)
	r.Mount("/connections", connectionsfeature.Routes(connectionsHandler, sessionMgr))

	// Projects, with task and discussion boards nested under each project.
	tasksHandler := tasksfeature.NewHandler(db, logger)
	discussionsHandler := discussionsfeature.NewHandler(db, logger)
	projectsHandler := projectsfeature.NewHandler(db, logger)
	r.Mount("/projects", projectsfeature.Routes(projectsHandler, sessionMgr,
		tasksfeature.ProjectRoutes(tasksHandler, sessionMgr),
		discussionsfeature.ProjectRoutes(discussionsHandler, sessionMgr)))

	// Individual tasks and discussion threads.
	r.Mount("/tasks", tasksfeature.Routes(tasksHandler, sessionMgr))
	r.Mount("/discussions", discussionsfeature.Routes(discussionsHandler, sessionMgr))

	// Direct messaging between connected users.
	messagesHandler := messagesfeature.NewHandler(db, logger)
	r.Mount("/messages", messagesfeature.Routes(messagesHandler, sessionMgr))

	// Notification inbox.
	notificationsHandler := notificationsfeature.NewHandler(db, logger)
	r.Mount("/notifications", notificationsfeature.Routes(notificationsHandler, sessionMgr))

	return r, nil
}
