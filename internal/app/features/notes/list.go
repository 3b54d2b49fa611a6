// internal/app/features/notes/list.go

package notes

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/noteflow/noteflow/internal/app/system/auth"
	"github.com/noteflow/noteflow/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeList handles GET /api/notes, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentPrincipal(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not authorized")
		return
	}

	list, err := h.Notes.ListByOwner(r.Context(), p.ID)
	if err != nil {
		h.Log.Error("listing notes failed", zap.Error(err), zap.String("owner", p.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not load notes")
		return
	}
	httpjson.Write(w, http.StatusOK, list)
}

// ServeGet handles GET /api/notes/{noteID}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
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

	note, err := h.Notes.GetOwned(r.Context(), id, p.ID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "note not found")
			return
		}
		h.Log.Error("loading note failed", zap.Error(err), zap.String("note", id.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not load note")
		return
	}
	httpjson.Write(w, http.StatusOK, note)
}
