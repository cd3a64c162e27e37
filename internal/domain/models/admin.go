// internal/domain/models/admin.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// GroupRoot is the admin group that may manage users and statuses.
const GroupRoot = "root"

// Admin backs the "admin" role of a user. Groups maps group keys
// (for example "root") to display names.
type Admin struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name   string             `bson:"name" json:"name"`
	Groups map[string]string  `bson:"groups,omitempty" json:"groups,omitempty"`
}

// IsMemberOf reports whether the admin belongs to any of the given groups.
func (a *Admin) IsMemberOf(groups ...string) bool {
	if a == nil {
		return false
	}
	for _, g := range groups {
		if _, ok := a.Groups[g]; ok {
			return true
		}
	}
	return false
}
