// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS). AppConfig is everything specific to SkillSync:
// database connection, session cookies, OAuth credentials, and the
// knobs of the matching and notification subsystems.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // secret key for signing session cookies
	SessionName   string // cookie name
	SessionDomain string // cookie domain (blank means current host)

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// BaseURL is the externally visible origin, used for the OAuth
	// callback URL.
	BaseURL string

	// MatchLimit caps how many suggestions the matcher returns.
	MatchLimit int

	// Notification cleanup worker.
	NotifRetention       time.Duration // how long read notifications are kept
	NotifCleanupInterval time.Duration // how often the worker runs
}
