// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	healthfeature "github.com/dalemusser/strataadmin/internal/app/features/health"
	loginfeature "github.com/dalemusser/strataadmin/internal/app/features/login"
	statusesfeature "github.com/dalemusser/strataadmin/internal/app/features/statuses"
	usersfeature "github.com/dalemusser/strataadmin/internal/app/features/users"
	adminstore "github.com/dalemusser/strataadmin/internal/app/store/admins"
	"github.com/dalemusser/strataadmin/internal/app/store/audit"
	"github.com/dalemusser/strataadmin/internal/app/store/ratelimit"
	statusstore "github.com/dalemusser/strataadmin/internal/app/store/statuses"
	userstore "github.com/dalemusser/strataadmin/internal/app/store/users"
	"github.com/dalemusser/strataadmin/internal/app/system/auditlog"
	"github.com/dalemusser/strataadmin/internal/app/system/auth"
	"github.com/dalemusser/strataadmin/internal/app/system/httperr"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. Every feature mounted here speaks JSON and
// authenticates with bearer tokens resolved by the auth gate.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Weak signing keys are fatal in production.
	secure := coreCfg.Env == "prod"
	gate, err := auth.NewGate(appCfg.TokenSignKey, appCfg.TokenIssuer, appCfg.TokenTTL, secure, logger)
	if err != nil {
		logger.Error("auth gate init failed", zap.Error(err))
		return nil, err
	}

	users := userstore.New(db)
	admins := adminstore.New(db)

	// Credentials are re-read on every request so role, group and
	// isActive changes take effect immediately.
	gate.SetFetcher(userstore.NewFetcher(users, admins, logger))

	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	var limiter loginfeature.Limiter
	if appCfg.LoginRateLimitEnabled {
		limiter = ratelimit.New(db, ratelimit.Config{
			MaxAttempts: appCfg.LoginRateLimitAttempts,
			Window:      appCfg.LoginRateLimitWindow,
			Lockout:     appCfg.LoginRateLimitLockout,
		})
	}

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	// Request timeout middleware: prevents requests from hanging indefinitely.
	r.Use(chimw.Timeout(30 * time.Second))

	// CORS middleware: must be early in the chain to handle preflight requests.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// Resolves the bearer token into Credentials; anonymous requests pass
	// through and are rejected by RequireScope where a route needs a caller.
	r.Use(gate.LoadCredentials)

	// ─────────────────────────────────────────────────────────────────────────────
	// Routes
	// ─────────────────────────────────────────────────────────────────────────────

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	loginHandler := loginfeature.NewHandler(users, limiter, gate, auditLogger, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	statusesHandler := statusesfeature.NewHandler(statusstore.New(db), appCfg.StatusRejectMarkup, auditLogger, logger)
	r.Mount("/statuses", statusesfeature.Routes(statusesHandler))

	usersHandler := usersfeature.NewHandler(users, auditLogger, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httperr.Write(w, req, httperr.NotFound("Not found."))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httperr.Write(w, req, httperr.New(http.StatusMethodNotAllowed, "Method not allowed."))
	})

	logger.Info("routes mounted",
		zap.Bool("login_rate_limit", appCfg.LoginRateLimitEnabled),
		zap.Bool("unique_identity_indexes", appCfg.UniqueIdentityIndexes),
	)

	return r, nil
}
