// internal/app/features/comments/handler_test.go

package comments_test

import (
	"net/http"
	"testing"

	"github.com/noteflow/noteflow/internal/app/features/comments"
	"github.com/noteflow/noteflow/internal/app/system/audit"
	"github.com/noteflow/noteflow/internal/domain/models"
	"github.com/noteflow/noteflow/internal/testutil"
)

func newTestHandler(t *testing.T) (*comments.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	coord := audit.New(db.Client(), db, nil, testutil.Logger())
	return comments.NewHandler(coord, db, testutil.Logger()), testutil.NewFixtures(t, db)
}

func TestCreateAndListComments(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	note := fixtures.CreateNote(ctx, ada.ID, "Plans", "body")
	p := testutil.Principal(ada)

	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/api/comments/"+note.ID.Hex(), p,
		map[string]string{"content": "Looks good"})
	req = testutil.WithChiURLParam(req, "noteID", note.ID.Hex())
	rec := testutil.NewRecorder()
	h.ServeCreate(rec, req)
	rec.AssertStatus(t, http.StatusCreated)

	listReq := testutil.NewAuthenticatedRequest(http.MethodGet, "/api/comments/"+note.ID.Hex(), p)
	listReq = testutil.WithChiURLParam(listReq, "noteID", note.ID.Hex())
	rec = testutil.NewRecorder()
	h.ServeList(rec, listReq)
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Data []models.Comment `json:"data"`
	}
	rec.DecodeBody(t, &resp)
	if len(resp.Data) != 1 || resp.Data[0].Content != "Looks good" {
		t.Errorf("comments: %+v", resp.Data)
	}
}

func TestCreateCommentRejectsBlankContent(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	note := fixtures.CreateNote(ctx, ada.ID, "Plans", "body")

	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/api/comments/"+note.ID.Hex(),
		testutil.Principal(ada), map[string]string{"content": "   "})
	req = testutil.WithChiURLParam(req, "noteID", note.ID.Hex())
	rec := testutil.NewRecorder()
	h.ServeCreate(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}
