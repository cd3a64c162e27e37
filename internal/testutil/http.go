package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/strataadmin/internal/app/system/auth"
	"github.com/dalemusser/strataadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RootAdmin returns credentials for an active admin-scoped user who belongs
// to the root admin group.
func RootAdmin() *auth.Credentials {
	return AdminWithGroups(models.GroupRoot)
}

// AdminWithGroups returns admin-scoped credentials whose admin document
// carries the given groups. With no groups the admin belongs to none.
func AdminWithGroups(groups ...string) *auth.Credentials {
	g := map[string]string{}
	for _, k := range groups {
		g[k] = k
	}
	admin := &models.Admin{ID: primitive.NewObjectID(), Name: "Test Admin", Groups: g}
	return &auth.Credentials{
		User: &models.User{
			ID:       primitive.NewObjectID(),
			Username: "testadmin",
			Email:    "admin@test.com",
			IsActive: models.Bool(true),
			Roles: map[string]models.RoleRef{
				models.RoleAdmin: {ID: admin.ID.Hex(), Name: admin.Name},
			},
		},
		Scope: []string{models.RoleAdmin},
		Admin: admin,
	}
}

// AccountUser returns credentials for a user with only the account scope.
func AccountUser() *auth.Credentials {
	return &auth.Credentials{
		User: &models.User{
			ID:       primitive.NewObjectID(),
			Username: "testaccount",
			Email:    "account@test.com",
			IsActive: models.Bool(true),
			Roles: map[string]models.RoleRef{
				models.RoleAccount: {ID: primitive.NewObjectID().Hex(), Name: "Test Account"},
			},
		},
		Scope: []string{models.RoleAccount},
	}
}

// WithCredentials attaches creds to the request context, bypassing the
// bearer token middleware.
func WithCredentials(r *http.Request, creds *auth.Credentials) *http.Request {
	return auth.WithTestCredentials(r, creds)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates an HTTP request whose body is body encoded as JSON.
// A string body is sent verbatim.
func NewJSONRequest(method, target string, body any) *http.Request {
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			panic(err)
		}
		rdr = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, target, rdr)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthenticatedRequest creates a JSON request with creds in context.
func NewAuthenticatedRequest(method, target string, body any, creds *auth.Credentials) *http.Request {
	return WithCredentials(NewJSONRequest(method, target, body), creds)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d (body: %s)", r.Code, expected, r.Body.String())
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	body := r.Body.String()
	if !strings.Contains(body, expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}

// DecodeJSON decodes the response body into v.
func (r *ResponseRecorder) DecodeJSON(t interface {
	Fatalf(string, ...any)
}, v any) {
	if err := json.Unmarshal(r.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", r.Body.String(), err)
	}
}
