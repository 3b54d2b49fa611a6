// internal/app/features/comments/create.go

package comments

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/noteflow/noteflow/internal/app/system/audit"
	"github.com/noteflow/noteflow/internal/app/system/auth"
	"github.com/noteflow/noteflow/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createRequest struct {
	Content string `json:"content"`
}

// ServeCreate handles POST /api/comments/{noteID}.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentPrincipal(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not authorized")
		return
	}
	noteID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "noteID"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "note not found")
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.Coord.AddComment(r.Context(), p, noteID, req.Content)
	if err != nil {
		if errors.Is(err, audit.ErrInvalidArgument) {
			httpjson.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		httpjson.Error(w, http.StatusInternalServerError, "could not add comment")
		return
	}
	httpjson.Write(w, http.StatusCreated, comment)
}

// ServeList handles GET /api/comments/{noteID}, oldest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentPrincipal(r); !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not authorized")
		return
	}
	noteID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "noteID"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "note not found")
		return
	}

	list, err := h.Comments.ListByNote(r.Context(), noteID)
	if err != nil {
		h.Log.Error("listing comments failed", zap.Error(err), zap.String("note", noteID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not load comments")
		return
	}
	httpjson.Write(w, http.StatusOK, list)
}
