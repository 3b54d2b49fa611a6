// internal/app/features/notes/create.go

package notes

import (
	"net/http"

	"github.com/noteflow/noteflow/internal/app/system/auth"
	"github.com/noteflow/noteflow/internal/app/system/httpjson"
)

type createRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Labels  []string `json:"labels"`
}

// ServeCreate handles POST /api/notes.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentPrincipal(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not authorized")
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	note, err := h.Coord.CreateNote(r.Context(), p, req.Title, req.Content, req.Labels)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, note)
}
