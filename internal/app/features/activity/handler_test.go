// internal/app/features/activity/handler_test.go

package activity_test

import (
	"net/http"
	"testing"

	"github.com/noteflow/noteflow/internal/app/features/activity"
	"github.com/noteflow/noteflow/internal/app/system/audit"
	"github.com/noteflow/noteflow/internal/domain/models"
	"github.com/noteflow/noteflow/internal/testutil"
)

func TestActivityListsOwnActions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	coord := audit.New(db.Client(), db, nil, testutil.Logger())
	h := activity.NewHandler(db, testutil.Logger())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	p := testutil.Principal(ada)

	note, err := coord.CreateNote(ctx, p, "Plans", "body", nil)
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	content := "revised"
	if _, err := coord.UpdateNote(ctx, p, note.ID, audit.NoteFields{Content: &content}); err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/api/activity", p)
	rec := testutil.NewRecorder()
	h.ServeMine(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Data []models.NoteLog `json:"data"`
	}
	rec.DecodeBody(t, &resp)
	if len(resp.Data) != 2 {
		t.Fatalf("entries: got %d, want 2", len(resp.Data))
	}
	// Newest first.
	if resp.Data[0].Action != models.ActionUpdate || resp.Data[1].Action != models.ActionCreate {
		t.Errorf("order: %q then %q", resp.Data[0].Action, resp.Data[1].Action)
	}

	noteReq := testutil.NewAuthenticatedRequest(http.MethodGet, "/api/activity/note/"+note.ID.Hex(), p)
	noteReq = testutil.WithChiURLParam(noteReq, "noteID", note.ID.Hex())
	rec = testutil.NewRecorder()
	h.ServeForNote(rec, noteReq)
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeBody(t, &resp)
	if len(resp.Data) != 2 {
		t.Errorf("note entries: got %d, want 2", len(resp.Data))
	}
}

func TestActivityLimitParam(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	coord := audit.New(db.Client(), db, nil, testutil.Logger())
	h := activity.NewHandler(db, testutil.Logger())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	p := testutil.Principal(ada)
	for i := 0; i < 3; i++ {
		if _, err := coord.CreateNote(ctx, p, "Note", "body", nil); err != nil {
			t.Fatalf("CreateNote: %v", err)
		}
	}

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/api/activity?limit=2", p)
	rec := testutil.NewRecorder()
	h.ServeMine(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Data []models.NoteLog `json:"data"`
	}
	rec.DecodeBody(t, &resp)
	if len(resp.Data) != 2 {
		t.Errorf("entries: got %d, want 2", len(resp.Data))
	}
}
