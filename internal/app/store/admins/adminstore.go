// internal/app/store/admins/adminstore.go
package adminstore

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/strataadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection for admin records.
const CollectionName = "admins"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// GetByID returns the admin or nil if it does not exist.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	var a models.Admin
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts an admin record with the given group memberships.
func (s *Store) Create(ctx context.Context, name string, groups map[string]string) (models.Admin, error) {
	a := models.Admin{
		ID:     primitive.NewObjectID(),
		Name:   strings.TrimSpace(name),
		Groups: groups,
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Admin{}, err
	}
	return a, nil
}

// AddGroup adds a group membership and returns the updated record, or nil
// if the admin does not exist.
func (s *Store) AddGroup(ctx context.Context, id primitive.ObjectID, key, label string) (*models.Admin, error) {
	var a models.Admin
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"groups." + key: label}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}
