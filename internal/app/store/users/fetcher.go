// internal/app/store/users/fetcher.go
package userstore

import (
	"context"

	adminstore "github.com/dalemusser/strataadmin/internal/app/store/admins"
	"github.com/dalemusser/strataadmin/internal/app/system/auth"
	"github.com/dalemusser/strataadmin/internal/app/system/timeouts"
	"github.com/dalemusser/strataadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Fetcher implements auth.CredentialsFetcher, loading fresh user and admin
// data on each request.
type Fetcher struct {
	users  *Store
	admins *adminstore.Store
	logger *zap.Logger
}

// NewFetcher creates a Fetcher over the given stores.
func NewFetcher(users *Store, admins *adminstore.Store, logger *zap.Logger) *Fetcher {
	return &Fetcher{users: users, admins: admins, logger: logger}
}

// FetchCredentials returns nil if the id is malformed or the user is missing
// or inactive. A dangling roles.admin reference yields credentials without
// an admin record, which fails any admin-group check.
func (f *Fetcher) FetchCredentials(ctx context.Context, userID string) (*auth.Credentials, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), f.logger, "credentials.fetch")
	defer cancel()

	u, err := f.users.FindByID(ctx, oid, "-password")
	if err != nil {
		return nil, err
	}
	if u == nil || !u.Active() {
		return nil, nil
	}

	creds := &auth.Credentials{User: u, Scope: u.Scope()}

	ref, ok := u.Roles[models.RoleAdmin]
	if !ok {
		return creds, nil
	}
	adminID, err := primitive.ObjectIDFromHex(ref.ID)
	if err != nil {
		f.logger.Warn("user has malformed admin reference",
			zap.String("user_id", userID),
			zap.String("admin_id", ref.ID))
		return creds, nil
	}
	admin, err := f.admins.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		f.logger.Warn("user references missing admin record",
			zap.String("user_id", userID),
			zap.String("admin_id", ref.ID))
	}
	creds.Admin = admin
	return creds, nil
}
