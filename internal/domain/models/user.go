// internal/domain/models/user.go
package models

// Terminology: User Identifiers
//   - UserID / userID / _id: The MongoDB ObjectID that uniquely identifies a user record
//   - Username: The lowercase token-charset handle a user signs in with

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account of the admin backend.
//
// Username and Email are stored lowercase and are unique across all users.
// Password only ever holds a bcrypt hash and is never serialized to JSON.
// IsActive and TimeCreated are pointers so that projected reads (for example
// "username email roles") omit them instead of reporting zero values.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username    string             `bson:"username,omitempty" json:"username,omitempty"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	Password    string             `bson:"password,omitempty" json:"-"` // bcrypt hash (never in JSON)
	IsActive    *bool              `bson:"isActive,omitempty" json:"isActive,omitempty"`
	Roles       map[string]RoleRef `bson:"roles,omitempty" json:"roles,omitempty"`
	TimeCreated *time.Time         `bson:"timeCreated,omitempty" json:"timeCreated,omitempty"`
}

// RoleRef links a user to the document that backs one of its roles
// (for example roles.admin -> admins collection).
type RoleRef struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// Role names double as authorization scopes.
const (
	RoleAdmin   = "admin"
	RoleAccount = "account"
)

// AllRoles returns all valid role names.
func AllRoles() []string {
	return []string{
		RoleAdmin,
		RoleAccount,
	}
}

// IsValidRole checks if a role is valid.
func IsValidRole(role string) bool {
	for _, r := range AllRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// Active reports whether the user is flagged active.
func (u *User) Active() bool {
	return u.IsActive != nil && *u.IsActive
}

// Scope returns the role names the user holds, in AllRoles order.
func (u *User) Scope() []string {
	var scope []string
	for _, r := range AllRoles() {
		if _, ok := u.Roles[r]; ok {
			scope = append(scope, r)
		}
	}
	return scope
}

// Bool returns a pointer to b, for optional bool fields.
func Bool(b bool) *bool {
	return &b
}
