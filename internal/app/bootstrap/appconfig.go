// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, logging, CORS, body limits); this
// struct carries everything the admin API itself needs.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// Bearer token configuration
	TokenSignKey string        // HMAC key for signing tokens (must be strong in production)
	TokenIssuer  string        // "iss" claim written and required on tokens
	TokenTTL     time.Duration // Token lifetime (default: 24h)

	// UniqueIdentityIndexes adds unique indexes on users.username and
	// users.email in addition to the in-request uniqueness checks.
	UniqueIdentityIndexes bool

	// Login rate limiting
	LoginRateLimitEnabled  bool          // Enable lockout after repeated failed logins (default: true)
	LoginRateLimitAttempts int           // Failed attempts allowed within the window (default: 5)
	LoginRateLimitWindow   time.Duration // Window for counting failures (default: 15m)
	LoginRateLimitLockout  time.Duration // Lockout duration once the limit is hit (default: 15m)

	// Audit logging configuration
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	AuditLogAuth  string // Authentication events (login success/failure, lockouts)
	AuditLogAdmin string // Admin actions (user and status CRUD, password changes)

	// Root admin seeding (skipped when SeedRootUsername is empty)
	SeedRootUsername string
	SeedRootEmail    string
	SeedRootPassword string

	// DefaultStatuses is a comma-separated list of pivot:name pairs.
	DefaultStatuses string

	// StatusRejectMarkup refuses status text containing HTML with a 400.
	// Text is never rewritten either way.
	StatusRejectMarkup bool

	// Store operation timeouts
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
}
