// internal/app/system/authz/authz.go
package authz

import (
	"context"
	"net/http"

	"github.com/dalemusser/strataadmin/internal/app/system/auth"
	"github.com/dalemusser/strataadmin/internal/app/system/httperr"
	"github.com/dalemusser/strataadmin/internal/app/system/normalize"
	"github.com/dalemusser/strataadmin/internal/app/system/preware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Client-facing authorization messages.
const (
	MsgMissingAuth       = "Missing authentication."
	MsgInsufficientScope = "Insufficient scope."
	MsgMissingGroup      = "Missing admin group membership."
)

// UserCtx returns the caller's user id, scope, and a found flag.
// If no credentials are present or the user id is zero it returns
// NilObjectID, nil, false, so ok=true always means a usable identity.
func UserCtx(ctx context.Context) (userID primitive.ObjectID, scope []string, ok bool) {
	c, ok := auth.FromContext(ctx)
	if !ok || c.User == nil || c.User.ID.IsZero() {
		return primitive.NilObjectID, nil, false
	}
	return c.User.ID, c.Scope, true
}

// IsLoggedIn reports whether there are credentials in the request context.
func IsLoggedIn(r *http.Request) bool {
	_, _, ok := UserCtx(r.Context())
	return ok
}

// HasScope reports whether the caller carries one of the given scopes.
func HasScope(r *http.Request, scopes ...string) bool {
	c, ok := auth.CurrentCredentials(r)
	return ok && c.HasScope(normalizeAll(scopes)...)
}

// RequireScope returns middleware that requires credentials carrying at least
// one of the allowed scopes.
//
//	no credentials → 401
//	wrong scope    → 403
func RequireScope(allowed ...string) func(http.Handler) http.Handler {
	allowed = normalizeAll(allowed)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsLoggedIn(r) {
				httperr.Write(w, r, httperr.Unauthorized(MsgMissingAuth))
				return
			}
			if !HasScope(r, allowed...) {
				httperr.Write(w, r, httperr.Forbidden(MsgInsufficientScope))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EnsureAdminGroup returns a precondition step that requires the caller's
// linked admin to belong to one of the groups. The step assigns the caller's
// admin record under "ensureAdminGroup".
func EnsureAdminGroup(groups ...string) preware.Step {
	return preware.Step{
		Assign: "ensureAdminGroup",
		Run: func(ctx context.Context, pre preware.Values) preware.Outcome {
			c, ok := auth.FromContext(ctx)
			if !ok {
				return preware.Fail(httperr.Unauthorized(MsgMissingAuth))
			}
			if !c.IsMemberOf(groups...) {
				return preware.Fail(httperr.Forbidden(MsgMissingGroup))
			}
			return preware.Continue(c.Admin)
		},
	}
}

func normalizeAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = normalize.Role(s)
	}
	return out
}
