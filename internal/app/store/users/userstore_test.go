package userstore

import (
	"errors"
	"testing"

	"github.com/dalemusser/strataadmin/internal/app/store/storeutil"
	"github.com/dalemusser/strataadmin/internal/app/system/authutil"
	"github.com/dalemusser/strataadmin/internal/domain/models"
	"github.com/dalemusser/strataadmin/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string { return &s }

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, "  JaneDoe ", "s3cret-pass", "Jane@Example.com")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID.IsZero() {
		t.Error("Create() did not assign ID")
	}
	if created.Username != "janedoe" {
		t.Errorf("Create() Username = %q, want %q", created.Username, "janedoe")
	}
	if created.Email != "jane@example.com" {
		t.Errorf("Create() Email = %q, want %q", created.Email, "jane@example.com")
	}
	if !created.Active() {
		t.Error("Create() user should default to active")
	}
	if created.TimeCreated == nil {
		t.Error("Create() did not set TimeCreated")
	}

	// Only the hash is persisted.
	var raw bson.M
	if err := db.Collection(CollectionName).FindOne(ctx, bson.M{"_id": created.ID}).Decode(&raw); err != nil {
		t.Fatalf("raw FindOne() error = %v", err)
	}
	stored, _ := raw["password"].(string)
	if stored == "s3cret-pass" || !authutil.IsHash(stored) {
		t.Errorf("stored password = %q, want bcrypt hash", stored)
	}
	if !authutil.CheckPassword("s3cret-pass", stored) {
		t.Error("stored hash does not match the password")
	}
}

func TestStore_Create_EmptyPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "jane", "", "jane@example.com"); err == nil {
		t.Error("Create() with empty password should return error")
	}
}

func TestStore_Create_DuplicateWithUniqueIndexes(t *testing.T) {
	db := testutil.SetupTestDBUniqueIdentity(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "jane", "s3cret-pass", "jane@example.com"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err := store.Create(ctx, "jane", "s3cret-pass", "other@example.com")
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Errorf("Create() duplicate username error = %v, want ErrDuplicateUsername", err)
	}
	_, err = store.Create(ctx, "other", "s3cret-pass", "jane@example.com")
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("Create() duplicate email error = %v, want ErrDuplicateEmail", err)
	}
}

func TestStore_FindByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, "jane", "s3cret-pass", "jane@example.com")

	got, err := store.FindByID(ctx, created.ID, "")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got == nil || got.Username != "jane" || !got.Active() {
		t.Fatalf("FindByID() = %+v", got)
	}

	proj, err := store.FindByID(ctx, created.ID, "username email roles")
	if err != nil {
		t.Fatalf("FindByID() projection error = %v", err)
	}
	if proj.Username != "jane" || proj.Email != "jane@example.com" {
		t.Errorf("FindByID() projection = %+v", proj)
	}
	if proj.IsActive != nil || proj.TimeCreated != nil || proj.Password != "" {
		t.Errorf("FindByID() projection leaked fields: %+v", proj)
	}

	missing, err := store.FindByID(ctx, primitive.NewObjectID(), "")
	if err != nil || missing != nil {
		t.Errorf("FindByID() missing = %+v, %v, want nil, nil", missing, err)
	}
}

func TestStore_InUseChecks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	jane, _ := store.Create(ctx, "jane", "s3cret-pass", "jane@example.com")
	bob, _ := store.Create(ctx, "bob", "s3cret-pass", "bob@example.com")

	tests := []struct {
		name  string
		check func() (bool, error)
		want  bool
	}{
		{"username taken", func() (bool, error) { return store.UsernameInUse(ctx, "jane", primitive.NilObjectID) }, true},
		{"username case folded", func() (bool, error) { return store.UsernameInUse(ctx, "JANE", primitive.NilObjectID) }, true},
		{"username free", func() (bool, error) { return store.UsernameInUse(ctx, "alice", primitive.NilObjectID) }, false},
		{"username own record excluded", func() (bool, error) { return store.UsernameInUse(ctx, "jane", jane.ID) }, false},
		{"username other record", func() (bool, error) { return store.UsernameInUse(ctx, "jane", bob.ID) }, true},
		{"email taken", func() (bool, error) { return store.EmailInUse(ctx, "bob@example.com", primitive.NilObjectID) }, true},
		{"email own record excluded", func() (bool, error) { return store.EmailInUse(ctx, "bob@example.com", bob.ID) }, false},
		{"email free", func() (bool, error) { return store.EmailInUse(ctx, "alice@example.com", primitive.NilObjectID) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.check()
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStore_FindByIDAndUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, "jane", "s3cret-pass", "jane@example.com")

	updated, err := store.FindByIDAndUpdate(ctx, created.ID, Update{
		IsActive: models.Bool(false),
		Username: strPtr("JaneD"),
		Email:    strPtr("JD@Example.com"),
	}, "")
	if err != nil {
		t.Fatalf("FindByIDAndUpdate() error = %v", err)
	}
	if updated.Username != "janed" || updated.Email != "jd@example.com" || updated.Active() {
		t.Errorf("FindByIDAndUpdate() = %+v", updated)
	}

	proj, err := store.FindByIDAndUpdate(ctx, created.ID, Update{Username: strPtr("jane")}, "username email")
	if err != nil {
		t.Fatalf("FindByIDAndUpdate() projection error = %v", err)
	}
	if proj.Username != "jane" || proj.IsActive != nil {
		t.Errorf("FindByIDAndUpdate() projection = %+v", proj)
	}

	missing, err := store.FindByIDAndUpdate(ctx, primitive.NewObjectID(), Update{Username: strPtr("x")}, "")
	if err != nil || missing != nil {
		t.Errorf("FindByIDAndUpdate() missing = %+v, %v, want nil, nil", missing, err)
	}
}

func TestStore_FindByIDAndUpdate_Password(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, "jane", "s3cret-pass", "jane@example.com")

	if _, err := store.FindByIDAndUpdate(ctx, created.ID, Update{PasswordHash: strPtr("plaintext")}, ""); err == nil {
		t.Error("FindByIDAndUpdate() should refuse a non-hash password")
	}

	hash, err := authutil.HashPassword("new-pass-123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if _, err := store.FindByIDAndUpdate(ctx, created.ID, Update{PasswordHash: &hash}, "username email"); err != nil {
		t.Fatalf("FindByIDAndUpdate() error = %v", err)
	}

	u, _ := store.GetByUsername(ctx, "jane")
	if !authutil.CheckPassword("new-pass-123", u.Password) {
		t.Error("password was not updated")
	}
}

func TestStore_FindByIDAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, "jane", "s3cret-pass", "jane@example.com")

	gone, err := store.FindByIDAndDelete(ctx, primitive.NewObjectID())
	if err != nil || gone != nil {
		t.Errorf("FindByIDAndDelete() missing = %+v, %v, want nil, nil", gone, err)
	}

	gone, err = store.FindByIDAndDelete(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByIDAndDelete() error = %v", err)
	}
	if gone == nil || gone.ID != created.ID {
		t.Errorf("FindByIDAndDelete() = %+v", gone)
	}
	all, err := store.PagedFind(ctx, ListFilter{}, storeutil.PageQuery{Limit: storeutil.DefaultLimit, Page: 1})
	if err != nil {
		t.Fatalf("PagedFind() error = %v", err)
	}
	if all.Items.Total != 0 {
		t.Errorf("Items.Total = %d, want 0", all.Items.Total)
	}
}

func TestStore_PagedFind_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	jane, _ := store.Create(ctx, "JaneDoe", "s3cret-pass", "jane@example.com")
	bob, _ := store.Create(ctx, "bob", "s3cret-pass", "bob@example.com")
	_, _ = store.Create(ctx, "janet", "s3cret-pass", "janet@example.com")

	if _, err := store.SetRole(ctx, jane.ID, models.RoleAdmin, models.RoleRef{ID: primitive.NewObjectID().Hex(), Name: "Jane"}); err != nil {
		t.Fatalf("SetRole() error = %v", err)
	}
	if _, err := store.FindByIDAndUpdate(ctx, bob.ID, Update{IsActive: models.Bool(false)}, ""); err != nil {
		t.Fatalf("FindByIDAndUpdate() error = %v", err)
	}

	tests := []struct {
		name   string
		filter ListFilter
		want   int64
	}{
		{"no filter", ListFilter{}, 3},
		{"substring case-insensitive", ListFilter{Username: "jane"}, 2},
		{"substring inside", ListFilter{Username: "ned"}, 1},
		{"active", ListFilter{IsActive: models.Bool(true)}, 2},
		{"inactive", ListFilter{IsActive: models.Bool(false)}, 1},
		{"role", ListFilter{Role: models.RoleAdmin}, 1},
		{"combined", ListFilter{Username: "jane", Role: models.RoleAdmin, IsActive: models.Bool(true)}, 1},
		{"combined no match", ListFilter{Username: "bob", IsActive: models.Bool(true)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := store.PagedFind(ctx, tt.filter, storeutil.PageQuery{Limit: 20, Page: 1})
			if err != nil {
				t.Fatalf("PagedFind() error = %v", err)
			}
			if page.Items.Total != tt.want {
				t.Errorf("Items.Total = %d, want %d", page.Items.Total, tt.want)
			}
			if int64(len(page.Data)) != tt.want {
				t.Errorf("len(Data) = %d, want %d", len(page.Data), tt.want)
			}
		})
	}
}

func TestStore_PagedFind_Window(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, name := range []string{"a1", "a2", "a3", "a4", "a5"} {
		if _, err := store.Create(ctx, name, "s3cret-pass", name+"@example.com"); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	page, err := store.PagedFind(ctx, ListFilter{}, storeutil.PageQuery{Sort: "username", Limit: 2, Page: 2})
	if err != nil {
		t.Fatalf("PagedFind() error = %v", err)
	}
	if len(page.Data) != 2 || page.Data[0].Username != "a3" {
		t.Errorf("Data = %+v, want a3,a4", page.Data)
	}
	if page.Items.Total != 5 || page.Pages.Total != 3 {
		t.Errorf("envelope = %+v %+v", page.Items, page.Pages)
	}
}

func TestStore_SetRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, "jane", "s3cret-pass", "jane@example.com")

	if _, err := store.SetRole(ctx, created.ID, "owner", models.RoleRef{}); err == nil {
		t.Error("SetRole() with unknown role should return error")
	}

	ok, err := store.SetRole(ctx, created.ID, "Account", models.RoleRef{ID: "x", Name: "Jane"})
	if err != nil || !ok {
		t.Fatalf("SetRole() = %v, %v", ok, err)
	}
	u, _ := store.FindByID(ctx, created.ID, "")
	if got := u.Scope(); len(got) != 1 || got[0] != models.RoleAccount {
		t.Errorf("Scope() = %v, want [account]", got)
	}

	ok, err = store.SetRole(ctx, primitive.NewObjectID(), models.RoleAccount, models.RoleRef{})
	if err != nil || ok {
		t.Errorf("SetRole() missing = %v, %v, want false, nil", ok, err)
	}
}
