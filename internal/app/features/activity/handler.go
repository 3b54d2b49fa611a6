// internal/app/features/activity/handler.go

// Package activity exposes the note audit trail for reading. Entries
// are written elsewhere; this feature only lists them.
package activity

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/noteflow/noteflow/internal/app/store/notelog"
	"github.com/noteflow/noteflow/internal/app/system/auth"
	"github.com/noteflow/noteflow/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Logs *notelog.Store
	Log  *zap.Logger
}

// NewHandler constructs an activity feature handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Logs: notelog.New(db),
		Log:  logger,
	}
}

// limitParam reads ?limit=, capped so one request cannot pull the
// whole collection.
func limitParam(r *http.Request) int64 {
	const max = 500
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0
	}
	if n > max {
		return max
	}
	return n
}

// ServeMine handles GET /api/activity: the caller's own actions,
// newest first.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentPrincipal(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not authorized")
		return
	}

	entries, err := h.Logs.ListByActor(r.Context(), p.ID, limitParam(r))
	if err != nil {
		h.Log.Error("listing activity failed", zap.Error(err), zap.String("actor", p.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not load activity")
		return
	}
	httpjson.Write(w, http.StatusOK, entries)
}

// ServeForNote handles GET /api/activity/note/{noteID}.
func (h *Handler) ServeForNote(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentPrincipal(r); !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not authorized")
		return
	}
	noteID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "noteID"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "note not found")
		return
	}

	entries, err := h.Logs.ListByNote(r.Context(), noteID, limitParam(r))
	if err != nil {
		h.Log.Error("listing note activity failed", zap.Error(err), zap.String("note", noteID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not load activity")
		return
	}
	httpjson.Write(w, http.StatusOK, entries)
}
