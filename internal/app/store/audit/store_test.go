package audit

import (
	"testing"

	"github.com/dalemusser/strataadmin/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	err := store.Log(ctx, Event{
		Category:  CategoryAuth,
		EventType: EventLoginSuccess,
		UserID:    &userID,
		IP:        "192.168.1.1",
		UserAgent: "TestAgent",
		RequestID: "req-1",
		Success:   true,
		Details:   map[string]string{"username": "jane"},
	})
	if err != nil {
		t.Fatalf("Log() error = %v", err)
	}

	var e Event
	if err := db.Collection(CollectionName).FindOne(ctx, bson.M{"user_id": userID}).Decode(&e); err != nil {
		t.Fatalf("FindOne() error = %v", err)
	}
	if e.ID.IsZero() || e.CreatedAt.IsZero() {
		t.Error("Log() should assign ID and CreatedAt")
	}
	if e.Category != CategoryAuth || e.EventType != EventLoginSuccess || !e.Success {
		t.Errorf("stored event = %+v", e)
	}
	if e.RequestID != "req-1" || e.Details["username"] != "jane" {
		t.Errorf("stored event = %+v", e)
	}
}

func TestStore_Log_KeepsGivenIDAndTime(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := primitive.NewObjectID()
	at := id.Timestamp().UTC()
	if err := store.Log(ctx, Event{ID: id, CreatedAt: at, Category: CategoryAdmin, EventType: EventStatusDeleted}); err != nil {
		t.Fatalf("Log() error = %v", err)
	}

	var e Event
	if err := db.Collection(CollectionName).FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		t.Fatalf("FindOne() error = %v", err)
	}
	if !e.CreatedAt.Equal(at) {
		t.Errorf("CreatedAt = %v, want %v", e.CreatedAt, at)
	}
}
