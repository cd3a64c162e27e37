// internal/app/features/login/login.go
package login

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dalemusser/strataadmin/internal/app/store/audit"
	"github.com/dalemusser/strataadmin/internal/app/store/ratelimit"
	"github.com/dalemusser/strataadmin/internal/app/system/auditlog"
	"github.com/dalemusser/strataadmin/internal/app/system/auth"
	"github.com/dalemusser/strataadmin/internal/app/system/authutil"
	"github.com/dalemusser/strataadmin/internal/app/system/httperr"
	"github.com/dalemusser/strataadmin/internal/app/system/inputval"
	"github.com/dalemusser/strataadmin/internal/app/system/jsonutil"
	"github.com/dalemusser/strataadmin/internal/app/system/timeouts"
	"github.com/dalemusser/strataadmin/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

//go:generate mockgen -source=login.go -destination=../../../mocks/login_mock.go -package=mocks

// UserLookup finds the user a login names.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Limiter throttles failed logins. It is implemented by ratelimit.Store.
type Limiter interface {
	Check(ctx context.Context, username string) (ratelimit.Decision, error)
	RecordFailure(ctx context.Context, username string) (ratelimit.Decision, error)
	Clear(ctx context.Context, username string) error
}

// Client-facing login failures.
const (
	MsgInvalidCredentials = "Invalid credentials."
	MsgTooManyAttempts    = "Too many failed login attempts. Please try again later."
)

// Handler issues bearer tokens for username/password logins.
type Handler struct {
	users       UserLookup
	limiter     Limiter // nil disables rate limiting
	gate        *auth.Gate
	auditLogger *auditlog.Logger
	logger      *zap.Logger
}

// NewHandler creates a login Handler. limiter and auditLogger may be nil.
func NewHandler(users UserLookup, limiter Limiter, gate *auth.Gate, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		users:       users,
		limiter:     limiter,
		gate:        gate,
		auditLogger: auditLogger,
		logger:      logger,
	}
}

// Routes mounts POST / for the login endpoint.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.Login)
	return r
}

type loginInput struct {
	Username string `json:"username" validate:"required" label:"Username"`
	Password string `json:"password" validate:"required" label:"Password"`
}

// dummyHash is compared against when no user matches so that unknown
// usernames take as long as wrong passwords.
var dummyHash = sync.OnceValue(func() string {
	h, _ := authutil.HashPassword("not-a-real-password")
	return h
})

// Login handles POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := jsonutil.Decode(r, &in); err != nil {
		httperr.Write(w, r, httperr.BadRequest(err.Error()))
		return
	}
	if err := inputval.Validate(in).Err(); err != nil {
		httperr.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "login")
	defer cancel()

	if h.limiter != nil {
		d, err := h.limiter.Check(ctx, in.Username)
		switch {
		case err != nil:
			// Fail open: a rate limit outage must not block logins.
			h.logger.Warn("rate limit check failed", zap.Error(err))
		case !d.Allowed:
			h.auditLogger.LoginFailed(r, audit.EventLoginRateLimited, nil, in.Username, "rate limit exceeded")
			tooManyAttempts(w, r, d)
			return
		}
	}

	u, err := h.users.GetByUsername(ctx, in.Username)
	if err != nil {
		h.logger.Error("login lookup failed", zap.Error(err))
		httperr.Write(w, r, httperr.Internal(err))
		return
	}

	switch {
	case u == nil:
		authutil.CheckPassword(in.Password, dummyHash())
		h.reject(ctx, w, r, in.Username, audit.EventLoginFailedUserNotFound, nil, "user not found")
		return
	case !authutil.CheckPassword(in.Password, u.Password):
		h.reject(ctx, w, r, in.Username, audit.EventLoginFailedWrongPassword, &u.ID, "wrong password")
		return
	case !u.Active():
		h.reject(ctx, w, r, in.Username, audit.EventLoginFailedUserInactive, &u.ID, "user inactive")
		return
	}

	if h.limiter != nil {
		if err := h.limiter.Clear(ctx, in.Username); err != nil {
			h.logger.Warn("rate limit clear failed", zap.Error(err))
		}
	}

	tok, err := h.gate.IssueToken(u.ID)
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err))
		httperr.Write(w, r, httperr.Internal(err))
		return
	}

	h.logger.Info("login succeeded", zap.String("user_id", u.ID.Hex()))
	h.auditLogger.LoginSuccess(r, u.ID, u.Username)
	jsonutil.OK(w, tok)
}

// reject records a failed login and answers 401, or 429 when this failure
// locked the username.
func (h *Handler) reject(ctx context.Context, w http.ResponseWriter, r *http.Request, username, eventType string, userID *primitive.ObjectID, reason string) {
	h.auditLogger.LoginFailed(r, eventType, userID, username, reason)

	if h.limiter != nil {
		d, err := h.limiter.RecordFailure(ctx, username)
		if err != nil {
			h.logger.Warn("rate limit record failed", zap.Error(err))
		} else if !d.Allowed {
			h.auditLogger.LoginFailed(r, audit.EventLoginLockedOut, userID, username, "too many failed attempts")
			tooManyAttempts(w, r, d)
			return
		}
	}

	httperr.Write(w, r, httperr.Unauthorized(MsgInvalidCredentials))
}

func tooManyAttempts(w http.ResponseWriter, r *http.Request, d ratelimit.Decision) {
	if wait := d.RetryAfter(time.Now()); wait > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
	}
	httperr.Write(w, r, httperr.New(http.StatusTooManyRequests, MsgTooManyAttempts))
}
