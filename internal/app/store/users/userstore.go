// internal/app/store/users/userstore.go
package userstore

// Terminology: User Identifiers
//   - UserID / userID / _id: The MongoDB ObjectID that uniquely identifies a user record
//   - Username: The lowercase token-charset handle a user signs in with

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/strataadmin/internal/app/store/storeutil"
	"github.com/dalemusser/strataadmin/internal/app/system/authutil"
	"github.com/dalemusser/strataadmin/internal/app/system/indexes"
	"github.com/dalemusser/strataadmin/internal/app/system/normalize"
	"github.com/dalemusser/strataadmin/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection for users.
const CollectionName = "users"

var (
	// ErrDuplicateUsername is returned when a write collides with the unique
	// username index. The index only exists when identity hardening is enabled.
	ErrDuplicateUsername = errors.New("username already in use")
	// ErrDuplicateEmail is the email counterpart of ErrDuplicateUsername.
	ErrDuplicateEmail = errors.New("email already in use")
	errBadRole        = errors.New("invalid role")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// ListFilter holds the optional filters of the user list. Zero values are
// not applied; present values are AND-combined.
type ListFilter struct {
	// Username matches case-insensitively anywhere in the username.
	Username string
	IsActive *bool
	// Role matches users that hold the role, whatever its details.
	Role string
}

// BSON builds the query document for f.
func (f ListFilter) BSON() bson.D {
	q := bson.D{}
	if f.Username != "" {
		q = append(q, bson.E{Key: "username", Value: primitive.Regex{
			Pattern: "^.*?" + regexp.QuoteMeta(f.Username) + ".*$",
			Options: "i",
		}})
	}
	if f.IsActive != nil {
		q = append(q, bson.E{Key: "isActive", Value: *f.IsActive})
	}
	if f.Role != "" {
		q = append(q, bson.E{Key: "roles." + f.Role, Value: bson.M{"$exists": true}})
	}
	return q
}

// PagedFind returns one page of users matching f.
func (s *Store) PagedFind(ctx context.Context, f ListFilter, q storeutil.PageQuery) (storeutil.Page[models.User], error) {
	return storeutil.PagedFind[models.User](ctx, s.c, f.BSON(), q)
}

// FindByID loads a user by ObjectID, limited to fields when non-empty
// (for example "username email roles"). Returns nil if not found.
func (s *Store) FindByID(ctx context.Context, id primitive.ObjectID, fields string) (*models.User, error) {
	opts, err := storeutil.FindOneOptions(fields)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.M{"_id": id}, opts)
}

// GetByUsername looks up a user by username. Returns nil if not found.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"username": normalize.Username(username)}, options.FindOne())
}

func (s *Store) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, filter, opts).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// UsernameInUse reports whether another user holds username. A zero
// excludeID checks all users.
func (s *Store) UsernameInUse(ctx context.Context, username string, excludeID primitive.ObjectID) (bool, error) {
	return s.existsForOther(ctx, "username", normalize.Username(username), excludeID)
}

// EmailInUse reports whether another user holds email. A zero excludeID
// checks all users.
func (s *Store) EmailInUse(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	return s.existsForOther(ctx, "email", normalize.Email(email), excludeID)
}

func (s *Store) existsForOther(ctx context.Context, field, value string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{field: value}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	err := s.c.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// Create hashes password and inserts a new active user.
func (s *Store) Create(ctx context.Context, username, password, email string) (models.User, error) {
	hash, err := authutil.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	u := models.User{
		ID:          primitive.NewObjectID(),
		Username:    normalize.Username(username),
		Email:       normalize.Email(email),
		Password:    hash,
		IsActive:    models.Bool(true),
		TimeCreated: &now,
	}

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		return models.User{}, dupError(err)
	}
	return u, nil
}

// Update holds the fields a find-and-update may set. Nil fields are left alone.
type Update struct {
	IsActive *bool
	Username *string
	Email    *string
	// PasswordHash must already be a bcrypt hash.
	PasswordHash *string
}

// FindByIDAndUpdate applies upd and returns the updated user limited to
// fields when non-empty. Returns nil if the user does not exist.
func (s *Store) FindByIDAndUpdate(ctx context.Context, id primitive.ObjectID, upd Update, fields string) (*models.User, error) {
	set := bson.M{}
	if upd.IsActive != nil {
		set["isActive"] = *upd.IsActive
	}
	if upd.Username != nil {
		set["username"] = normalize.Username(*upd.Username)
	}
	if upd.Email != nil {
		set["email"] = normalize.Email(*upd.Email)
	}
	if upd.PasswordHash != nil {
		if !authutil.IsHash(*upd.PasswordHash) {
			return nil, errors.New("refusing to store a password that is not a bcrypt hash")
		}
		set["password"] = *upd.PasswordHash
	}
	if len(set) == 0 {
		return s.FindByID(ctx, id, fields)
	}

	proj, err := storeutil.Projection(fields)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if proj != nil {
		opts.SetProjection(proj)
	}

	var u models.User
	err = s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, dupError(err)
	}
	return &u, nil
}

// FindByIDAndDelete removes the user and returns it, or nil if absent.
func (s *Store) FindByIDAndDelete(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// SetRole links the user to the record backing role. Returns false if the
// user does not exist.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role string, ref models.RoleRef) (bool, error) {
	role = normalize.Role(role)
	if !models.IsValidRole(role) {
		return false, errBadRole
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"roles." + role: ref}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// dupError maps a duplicate-key error to ErrDuplicateUsername or
// ErrDuplicateEmail based on the index it names.
func dupError(err error) error {
	if !wafflemongo.IsDup(err) {
		return err
	}
	if strings.Contains(err.Error(), indexes.UsersEmailIndex) {
		return ErrDuplicateEmail
	}
	return ErrDuplicateUsername
}
