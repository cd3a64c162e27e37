// internal/domain/models/status.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Status is a small reference entity. Pivot groups statuses (for example
// "Account") and is fixed at creation; only Name may change afterwards.
type Status struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Pivot string             `bson:"pivot,omitempty" json:"pivot,omitempty"`
	Name  string             `bson:"name,omitempty" json:"name,omitempty"`
}
