package adminstore

import (
	"testing"

	"github.com/dalemusser/strataadmin/internal/domain/models"
	"github.com/dalemusser/strataadmin/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, " Root Admin ", map[string]string{models.GroupRoot: "Root"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Name != "Root Admin" {
		t.Errorf("Create() Name = %q, want trimmed", created.Name)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got == nil || !got.IsMemberOf(models.GroupRoot) {
		t.Errorf("GetByID() = %+v, want member of root", got)
	}

	missing, err := store.GetByID(ctx, primitive.NewObjectID())
	if err != nil || missing != nil {
		t.Errorf("GetByID() missing = %+v, %v, want nil, nil", missing, err)
	}
}

func TestStore_AddGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, "Sales Admin", map[string]string{"sales": "Sales"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.IsMemberOf(models.GroupRoot) {
		t.Fatal("new admin should not be root")
	}

	updated, err := store.AddGroup(ctx, created.ID, models.GroupRoot, "Root")
	if err != nil {
		t.Fatalf("AddGroup() error = %v", err)
	}
	if !updated.IsMemberOf(models.GroupRoot) || !updated.IsMemberOf("sales") {
		t.Errorf("AddGroup() groups = %v", updated.Groups)
	}

	if a, err := store.AddGroup(ctx, primitive.NewObjectID(), models.GroupRoot, "Root"); err != nil || a != nil {
		t.Errorf("AddGroup() missing = %+v, %v, want nil, nil", a, err)
	}
}
