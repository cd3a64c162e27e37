// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/dalemusser/strataadmin/internal/app/store/audit"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category of events.
const (
	DestAll = "all" // MongoDB + zap
	DestDB  = "db"  // MongoDB only
	DestLog = "log" // zap only
	DestOff = "off"
)

// ValidDest reports whether s is a known destination.
func ValidDest(s string) bool {
	switch s {
	case DestAll, DestDB, DestLog, DestOff:
		return true
	}
	return false
}

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, password changes).
	Auth string
	// Admin controls logging for admin mutations of users and statuses.
	Admin string
}

// Logger records audit events to MongoDB (via audit.Store) and zap.
// A nil *Logger is a no-op, so handlers can be built without one in tests.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// clientIP returns the first X-Forwarded-For hop, X-Real-IP, or the remote host.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// requestID returns chi's request id, or a fresh UUID so every stored event
// can still be correlated with its log lines.
func requestID(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return uuid.NewString()
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
		zap.String("request_id", event.RequestID),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records event according to the destination configured for its category.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = DestAll
	}

	if setting == DestOff {
		return
	}
	if setting == DestAll || setting == DestLog {
		l.logToZap(event)
	}
	if (setting == DestAll || setting == DestDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func (l *Logger) base(r *http.Request, category, eventType string, success bool) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		RequestID: requestID(r),
		Success:   success,
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(r *http.Request, userID primitive.ObjectID, username string) {
	if l == nil {
		return
	}
	e := l.base(r, audit.CategoryAuth, audit.EventLoginSuccess, true)
	e.UserID = &userID
	e.Details = map[string]string{"username": username}
	l.Log(r.Context(), e)
}

// LoginFailed logs a rejected login. userID is nil when no user matched.
func (l *Logger) LoginFailed(r *http.Request, eventType string, userID *primitive.ObjectID, username, reason string) {
	if l == nil {
		return
	}
	e := l.base(r, audit.CategoryAuth, eventType, false)
	e.UserID = userID
	e.FailureReason = reason
	e.Details = map[string]string{"attempted_username": username}
	l.Log(r.Context(), e)
}

// PasswordChanged logs a password change made by actorID for targetID.
func (l *Logger) PasswordChanged(r *http.Request, actorID, targetID primitive.ObjectID) {
	if l == nil {
		return
	}
	e := l.base(r, audit.CategoryAuth, audit.EventPasswordChanged, true)
	e.UserID = &targetID
	e.ActorID = &actorID
	e.Details = map[string]string{"self_service": boolString(actorID == targetID)}
	l.Log(r.Context(), e)
}

// --- Admin Events ---

// UserEvent logs a user mutation (created, updated, deleted).
func (l *Logger) UserEvent(r *http.Request, eventType string, actorID, targetID primitive.ObjectID, details map[string]string) {
	if l == nil {
		return
	}
	e := l.base(r, audit.CategoryAdmin, eventType, true)
	e.UserID = &targetID
	e.ActorID = &actorID
	e.Details = details
	l.Log(r.Context(), e)
}

// StatusEvent logs a status mutation (created, updated, deleted).
func (l *Logger) StatusEvent(r *http.Request, eventType string, actorID, statusID primitive.ObjectID, name string) {
	if l == nil {
		return
	}
	e := l.base(r, audit.CategoryAdmin, eventType, true)
	e.ActorID = &actorID
	e.Details = map[string]string{"status_id": statusID.Hex(), "name": name}
	l.Log(r.Context(), e)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
