// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"
	"fmt"
	"strings"

	adminstore "github.com/dalemusser/strataadmin/internal/app/store/admins"
	statusstore "github.com/dalemusser/strataadmin/internal/app/store/statuses"
	userstore "github.com/dalemusser/strataadmin/internal/app/store/users"
	"github.com/dalemusser/strataadmin/internal/app/system/authutil"
	"github.com/dalemusser/strataadmin/internal/app/system/inputval"
	"github.com/dalemusser/strataadmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// RootUser describes the bootstrap administrator. An empty Username
// disables root seeding.
type RootUser struct {
	Username string
	Email    string
	Password string
}

// StatusSeed is one default status.
type StatusSeed struct {
	Pivot string
	Name  string
}

// Options controls what SeedAll creates.
type Options struct {
	Root     RootUser
	Statuses []StatusSeed
}

// SeedAll seeds default data if not already present.
func SeedAll(ctx context.Context, db *mongo.Database, opts Options, logger *zap.Logger) error {
	if err := seedRoot(ctx, db, opts.Root, logger); err != nil {
		return err
	}
	if err := seedStatuses(ctx, db, opts.Statuses, logger); err != nil {
		return err
	}
	return nil
}

// ParseStatuses parses a comma-separated list of "pivot:name" pairs.
// Blank entries are skipped.
func ParseStatuses(s string) ([]StatusSeed, error) {
	var out []StatusSeed
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		pivot, name, ok := strings.Cut(entry, ":")
		pivot, name = strings.TrimSpace(pivot), strings.TrimSpace(name)
		if !ok || pivot == "" || name == "" {
			return nil, fmt.Errorf("invalid status %q: want pivot:name", entry)
		}
		out = append(out, StatusSeed{Pivot: pivot, Name: name})
	}
	return out, nil
}

// seedRoot makes sure the root user exists, holds the admin role, and that
// its admin record belongs to the root group. Existing passwords are never
// overwritten.
func seedRoot(ctx context.Context, db *mongo.Database, root RootUser, logger *zap.Logger) error {
	if strings.TrimSpace(root.Username) == "" {
		return nil
	}

	users := userstore.New(db)
	admins := adminstore.New(db)

	u, err := users.GetByUsername(ctx, root.Username)
	if err != nil {
		return fmt.Errorf("look up root user: %w", err)
	}
	if u == nil {
		if !inputval.IsValidEmail(root.Email) {
			return fmt.Errorf("root email %q is not a valid email address", root.Email)
		}
		if err := authutil.ValidatePassword(root.Password); err != nil {
			return fmt.Errorf("root password: %w", err)
		}
		created, err := users.Create(ctx, root.Username, root.Password, root.Email)
		if err != nil {
			return fmt.Errorf("create root user: %w", err)
		}
		u = &created
		logger.Info("seeded root user", zap.String("username", u.Username))
	}

	if ref, ok := u.Roles[models.RoleAdmin]; ok {
		var a *models.Admin
		if adminID, err := primitive.ObjectIDFromHex(ref.ID); err == nil {
			if a, err = admins.GetByID(ctx, adminID); err != nil {
				return fmt.Errorf("load root admin: %w", err)
			}
		}
		if a != nil {
			if !a.IsMemberOf(models.GroupRoot) {
				if _, err := admins.AddGroup(ctx, a.ID, models.GroupRoot, models.GroupRoot); err != nil {
					return fmt.Errorf("add root group: %w", err)
				}
				logger.Info("added root group to admin", zap.String("admin_id", a.ID.Hex()))
			}
			return nil
		}
		logger.Warn("root user references a missing admin; recreating",
			zap.String("admin_id", ref.ID))
	}

	a, err := admins.Create(ctx, u.Username, map[string]string{models.GroupRoot: models.GroupRoot})
	if err != nil {
		return fmt.Errorf("create root admin: %w", err)
	}
	if _, err := users.SetRole(ctx, u.ID, models.RoleAdmin, models.RoleRef{ID: a.ID.Hex(), Name: a.Name}); err != nil {
		return fmt.Errorf("assign admin role: %w", err)
	}
	logger.Info("seeded root admin",
		zap.String("username", u.Username),
		zap.String("admin_id", a.ID.Hex()))
	return nil
}

// seedStatuses creates any default status not already present. Entries that
// differ only in case or accents are seeded once.
func seedStatuses(ctx context.Context, db *mongo.Database, seeds []StatusSeed, logger *zap.Logger) error {
	store := statusstore.New(db)
	seen := make(map[string]bool, len(seeds))

	for _, s := range seeds {
		pivot, name := s.Pivot, s.Name
		key := text.Fold(pivot) + ":" + text.Fold(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		existing, err := store.FindByPivotAndName(ctx, pivot, name)
		if err != nil {
			logger.Error("failed to check if status exists",
				zap.String("pivot", pivot), zap.String("name", name), zap.Error(err))
			return err
		}
		if existing != nil {
			continue
		}
		if _, err := store.Create(ctx, pivot, name); err != nil {
			logger.Error("failed to seed status",
				zap.String("pivot", pivot), zap.String("name", name), zap.Error(err))
			return err
		}
		logger.Info("seeded default status", zap.String("pivot", pivot), zap.String("name", name))
	}
	return nil
}
