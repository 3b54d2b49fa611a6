// internal/app/features/notes/update.go

package notes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/noteflow/noteflow/internal/app/system/audit"
	"github.com/noteflow/noteflow/internal/app/system/auth"
	"github.com/noteflow/noteflow/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// updateRequest carries a partial update; absent fields stay untouched.
type updateRequest struct {
	Title      *string   `json:"title"`
	Content    *string   `json:"content"`
	Labels     *[]string `json:"labels"`
	Archived   *bool     `json:"archived"`
	Pinned     *bool     `json:"pinned"`
	SharedWith *[]string `json:"sharedWith"`
}

func (req updateRequest) fields() (audit.NoteFields, bool) {
	f := audit.NoteFields{
		Title:    req.Title,
		Content:  req.Content,
		Labels:   req.Labels,
		Archived: req.Archived,
		Pinned:   req.Pinned,
	}
	if req.SharedWith != nil {
		ids := make([]primitive.ObjectID, 0, len(*req.SharedWith))
		for _, raw := range *req.SharedWith {
			id, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				return audit.NoteFields{}, false
			}
			ids = append(ids, id)
		}
		f.SharedWith = &ids
	}
	return f, true
}

// ServeUpdate handles PUT /api/notes/{noteID}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentPrincipal(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not authorized")
		return
	}
	id, ok := noteID(chi.URLParam(r, "noteID"))
	if !ok {
		httpjson.Error(w, http.StatusNotFound, "note not found")
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	fields, ok := req.fields()
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "sharedWith contains an invalid user id")
		return
	}

	note, err := h.Coord.UpdateNote(r.Context(), p, id, fields)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, note)
}
