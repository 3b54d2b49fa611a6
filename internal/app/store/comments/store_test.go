// internal/app/store/comments/store_test.go

package comments_test

import (
	"testing"

	"github.com/noteflow/noteflow/internal/app/store/comments"
	"github.com/noteflow/noteflow/internal/domain/models"
	"github.com/noteflow/noteflow/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateAndListByNote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := comments.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	noteID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	for _, text := range []string{"first", "second"} {
		if _, err := store.Create(ctx, models.Comment{
			NoteID:  noteID,
			UserID:  userID,
			Content: text,
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	list, err := store.ListByNote(ctx, noteID)
	if err != nil {
		t.Fatalf("ListByNote: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d comments, want 2", len(list))
	}
	// Oldest first.
	if list[0].Content != "first" || list[1].Content != "second" {
		t.Errorf("order: %q then %q", list[0].Content, list[1].Content)
	}

	other, err := store.ListByNote(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("ListByNote: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("foreign note sees %d comments", len(other))
	}
}
