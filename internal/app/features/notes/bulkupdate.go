// internal/app/features/notes/bulkupdate.go

package notes

import (
	"net/http"

	"github.com/noteflow/noteflow/internal/app/system/auth"
	"github.com/noteflow/noteflow/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type bulkUpdateRequest struct {
	NoteIDs      []string      `json:"noteIds"`
	UpdateFields updateRequest `json:"updateFields"`
}

// ServeBulkUpdate handles POST /api/notes/bulk-update. Ids the caller
// does not own are skipped, not errors; the response counts what was
// actually touched.
func (h *Handler) ServeBulkUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentPrincipal(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not authorized")
		return
	}

	var req bulkUpdateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ids := make([]primitive.ObjectID, 0, len(req.NoteIDs))
	for _, raw := range req.NoteIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "noteIds contains an invalid id")
			return
		}
		ids = append(ids, id)
	}
	fields, ok := req.UpdateFields.fields()
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "sharedWith contains an invalid user id")
		return
	}

	res, err := h.Coord.BulkUpdateNotes(r.Context(), p, ids, fields)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, res)
}
