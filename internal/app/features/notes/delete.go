// internal/app/features/notes/delete.go

package notes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/noteflow/noteflow/internal/app/system/auth"
	"github.com/noteflow/noteflow/internal/app/system/httpjson"
)

// ServeDelete handles DELETE /api/notes/{noteID}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Coord.DeleteNote(r.Context(), p, id); err != nil {
		h.writeMutationError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "note deleted"})
}
