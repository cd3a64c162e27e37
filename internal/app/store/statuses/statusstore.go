// internal/app/store/statuses/statusstore.go
package statusstore

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/strataadmin/internal/app/store/storeutil"
	"github.com/dalemusser/strataadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection for statuses.
const CollectionName = "statuses"

var errEmptyField = errors.New("pivot and name are required")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// PagedFind returns one page of statuses. The filter is always empty.
func (s *Store) PagedFind(ctx context.Context, q storeutil.PageQuery) (storeutil.Page[models.Status], error) {
	return storeutil.PagedFind[models.Status](ctx, s.c, bson.D{}, q)
}

// FindByID returns the status or nil if it does not exist.
func (s *Store) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Status, error) {
	var st models.Status
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&st); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

// FindByPivotAndName returns the matching status or nil.
func (s *Store) FindByPivotAndName(ctx context.Context, pivot, name string) (*models.Status, error) {
	var st models.Status
	if err := s.c.FindOne(ctx, bson.M{"pivot": pivot, "name": name}).Decode(&st); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

// Create inserts a status with a new id. Pivot and name are stored as given.
func (s *Store) Create(ctx context.Context, pivot, name string) (models.Status, error) {
	if strings.TrimSpace(pivot) == "" || strings.TrimSpace(name) == "" {
		return models.Status{}, errEmptyField
	}
	st := models.Status{
		ID:    primitive.NewObjectID(),
		Pivot: pivot,
		Name:  name,
	}
	if _, err := s.c.InsertOne(ctx, st); err != nil {
		return models.Status{}, err
	}
	return st, nil
}

// FindByIDAndUpdate sets the status name and returns the updated document,
// or nil if the id does not exist. Pivot is never changed.
func (s *Store) FindByIDAndUpdate(ctx context.Context, id primitive.ObjectID, name string) (*models.Status, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var st models.Status
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"name": name}},
		opts,
	).Decode(&st)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

// FindByIDAndDelete removes the status and returns it, or nil if absent.
func (s *Store) FindByIDAndDelete(ctx context.Context, id primitive.ObjectID) (*models.Status, error) {
	var st models.Status
	if err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&st); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}
