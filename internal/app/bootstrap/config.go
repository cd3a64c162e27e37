// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/strataadmin/internal/app/system/auditlog"
	"github.com/dalemusser/strataadmin/internal/app/system/seeding"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "STRATAADMIN"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, token_ttl, etc.
//   - Environment variables: STRATAADMIN_MONGO_URI, STRATAADMIN_TOKEN_TTL, etc.
//   - Command-line flags: --mongo_uri, --token_ttl, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "strataadmin", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Bearer tokens
	{Name: "token_sign_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Token signing key (must be strong in production)"},
	{Name: "token_issuer", Default: "strataadmin", Desc: "Token issuer claim"},
	{Name: "token_ttl", Default: "24h", Desc: "Token lifetime (e.g., 24h, 30m)"},

	{Name: "unique_identity_indexes", Default: false, Desc: "Create unique indexes on username and email"},

	// Login rate limiting
	{Name: "login_rate_limit_enabled", Default: true, Desc: "Enable lockout after repeated failed logins"},
	{Name: "login_rate_limit_attempts", Default: 5, Desc: "Max failed login attempts before lockout"},
	{Name: "login_rate_limit_window", Default: "15m", Desc: "Time window for counting failed attempts"},
	{Name: "login_rate_limit_lockout", Default: "15m", Desc: "Lockout duration after exceeding limit"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Seeding
	{Name: "seed_root_username", Default: "", Desc: "Username of the root admin to create on startup"},
	{Name: "seed_root_email", Default: "", Desc: "Email of the root admin"},
	{Name: "seed_root_password", Default: "", Desc: "Password of the root admin"},
	{Name: "default_statuses", Default: "", Desc: "Comma-separated pivot:name statuses to seed"},

	{Name: "status_reject_markup", Default: false, Desc: "Reject status pivot or name containing HTML"},

	// Timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document store operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for paged finds"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges flags > env (STRATAADMIN_*) >
// config files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		TokenSignKey: appValues.String("token_sign_key"),
		TokenIssuer:  appValues.String("token_issuer"),
		TokenTTL:     appValues.Duration("token_ttl", 24*time.Hour),

		UniqueIdentityIndexes: appValues.Bool("unique_identity_indexes"),

		LoginRateLimitEnabled:  appValues.Bool("login_rate_limit_enabled"),
		LoginRateLimitAttempts: appValues.Int("login_rate_limit_attempts"),
		LoginRateLimitWindow:   appValues.Duration("login_rate_limit_window", 15*time.Minute),
		LoginRateLimitLockout:  appValues.Duration("login_rate_limit_lockout", 15*time.Minute),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		SeedRootUsername: appValues.String("seed_root_username"),
		SeedRootEmail:    appValues.String("seed_root_email"),
		SeedRootPassword: appValues.String("seed_root_password"),
		DefaultStatuses:  appValues.String("default_statuses"),

		StatusRejectMarkup: appValues.Bool("status_reject_markup"),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive, got %s", appCfg.TokenTTL)
	}

	for key, v := range map[string]string{
		"audit_log_auth":  appCfg.AuditLogAuth,
		"audit_log_admin": appCfg.AuditLogAdmin,
	} {
		if !auditlog.ValidDest(v) {
			return fmt.Errorf("%s must be one of all, db, log, off; got %q", key, v)
		}
	}

	if appCfg.LoginRateLimitEnabled {
		if appCfg.LoginRateLimitAttempts < 1 {
			return fmt.Errorf("login_rate_limit_attempts must be at least 1, got %d", appCfg.LoginRateLimitAttempts)
		}
		if appCfg.LoginRateLimitWindow <= 0 || appCfg.LoginRateLimitLockout <= 0 {
			return fmt.Errorf("login_rate_limit_window and login_rate_limit_lockout must be positive")
		}
	}

	if appCfg.SeedRootUsername != "" && (appCfg.SeedRootEmail == "" || appCfg.SeedRootPassword == "") {
		return fmt.Errorf("seed_root_email and seed_root_password are required when seed_root_username is set")
	}

	if _, err := seeding.ParseStatuses(appCfg.DefaultStatuses); err != nil {
		return fmt.Errorf("default_statuses: %w", err)
	}

	return nil
}
