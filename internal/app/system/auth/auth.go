package auth

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - Username: The human-readable string users type to log in

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/strataadmin/internal/app/system/httperr"
	"github.com/dalemusser/strataadmin/internal/domain/models"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Gate - bearer token authentication                                          |
*─────────────────────────────────────────────────────────────────────────────*/

// Gate issues bearer tokens and resolves request credentials from them.
// Use NewGate to create an instance.
type Gate struct {
	signKey []byte
	issuer  string
	ttl     time.Duration
	logger  *zap.Logger
	fetcher CredentialsFetcher
}

// NewGate creates a Gate.
//
// Parameters:
//   - signKey: HMAC key for signing tokens (must be ≥32 chars in production)
//   - issuer: value of the "iss" claim; tokens from other issuers are rejected
//   - ttl: token lifetime (e.g., 24*time.Hour)
//   - secure: if true, a weak or placeholder signKey fails startup
//   - logger: zap logger for authentication logging
func NewGate(signKey, issuer string, ttl time.Duration, secure bool, logger *zap.Logger) (*Gate, error) {
	if signKey == "" {
		return nil, &ConfigError{Message: "token sign key is empty; provide ≥32 random chars"}
	}
	if issuer == "" {
		return nil, &ConfigError{Message: "token issuer is empty"}
	}
	if ttl <= 0 {
		return nil, &ConfigError{Message: "token ttl must be positive"}
	}

	isWeak := len(signKey) < 32 || isDefaultKey(signKey)
	if secure {
		if isWeak {
			return nil, &ConfigError{
				Message: "token sign key is too weak for production; provide ≥32 random chars (not the default dev key)",
			}
		}
	} else if isWeak {
		logger.Warn("token sign key is weak; 32+ random chars required in production",
			zap.Int("length", len(signKey)),
			zap.Bool("is_default", isDefaultKey(signKey)))
	}

	logger.Info("auth gate initialized",
		zap.Bool("secure", secure),
		zap.String("issuer", issuer),
		zap.Duration("ttl", ttl))

	return &Gate{
		signKey: []byte(signKey),
		issuer:  issuer,
		ttl:     ttl,
		logger:  logger,
	}, nil
}

// ConfigError is returned when gate configuration is invalid.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// SetFetcher sets the CredentialsFetcher used by LoadCredentials. This must be
// called after database initialization.
func (g *Gate) SetFetcher(f CredentialsFetcher) {
	g.fetcher = f
}

/*─────────────────────────────────────────────────────────────────────────────*
| CredentialsFetcher interface                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// CredentialsFetcher resolves fresh credentials for a user id.
// Implementations return (nil, nil) if the user is not found or is inactive.
type CredentialsFetcher interface {
	FetchCredentials(ctx context.Context, userID string) (*Credentials, error)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Credentials                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// Credentials is the authenticated caller attached to the request context.
// It is resolved from the database on each request, so role changes and
// deactivation take effect immediately.
type Credentials struct {
	User  *models.User
	Scope []string
	// Admin is the linked admin record, nil when the user has no admin role.
	Admin *models.Admin
}

// HasScope reports whether the credentials carry any of the given scopes.
func (c *Credentials) HasScope(scopes ...string) bool {
	if c == nil {
		return false
	}
	for _, have := range c.Scope {
		for _, want := range scopes {
			if have == want {
				return true
			}
		}
	}
	return false
}

// IsMemberOf reports whether the linked admin belongs to any of the groups.
func (c *Credentials) IsMemberOf(groups ...string) bool {
	if c == nil {
		return false
	}
	return c.Admin.IsMemberOf(groups...)
}

type ctxKey string

const credentialsKey ctxKey = "credentials"

// FromContext returns the credentials & "found?" flag from ctx.
func FromContext(ctx context.Context) (*Credentials, bool) {
	c, ok := ctx.Value(credentialsKey).(*Credentials)
	return c, ok && c != nil
}

// CurrentCredentials returns the credentials & "found?" flag from the request.
func CurrentCredentials(r *http.Request) (*Credentials, bool) {
	return FromContext(r.Context())
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadCredentials returns middleware that attaches credentials to the request
// context when a valid bearer token is present. Requests without a usable
// token continue unauthenticated; RequireScope turns that into a 401.
func (g *Gate) LoadCredentials(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		raw, err := BearerToken(header)
		if err != nil {
			g.logger.Debug("ignoring malformed Authorization header",
				zap.String("path", r.URL.Path))
			next.ServeHTTP(w, r)
			return
		}

		userID, err := g.ParseToken(raw)
		if err != nil {
			g.logger.Info("bearer token rejected",
				zap.Error(err),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr))
			next.ServeHTTP(w, r)
			return
		}

		if g.fetcher == nil {
			g.logger.Error("auth gate has no credentials fetcher configured")
			next.ServeHTTP(w, r)
			return
		}

		creds, err := g.fetcher.FetchCredentials(r.Context(), userID)
		if err != nil {
			g.logger.Error("failed to resolve credentials",
				zap.Error(err),
				zap.String("user_id", userID))
			httperr.Write(w, r, err)
			return
		}
		if creds == nil {
			g.logger.Info("token invalidated: user not found or inactive",
				zap.String("user_id", userID),
				zap.String("path", r.URL.Path))
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, withCredentials(r, creds))
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func withCredentials(r *http.Request, c *Credentials) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), credentialsKey, c))
}

// WithTestCredentials injects credentials into the request context for testing.
func WithTestCredentials(r *http.Request, c *Credentials) *http.Request {
	return withCredentials(r, c)
}

// isDefaultKey checks if the sign key appears to be a default/placeholder value.
func isDefaultKey(key string) bool {
	lower := strings.ToLower(key)
	patterns := []string{
		"dev-only",
		"change-me",
		"placeholder",
		"default",
		"example",
		"insecure",
		"test-key",
		"secret123",
		"password",
	}
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
