// internal/app/features/notes/handler.go

// Package notes serves the note CRUD API. Every mutation goes through
// the audit coordinator, so handlers here never touch the notes
// collection directly for writes.
package notes

import (
	"errors"
	"net/http"

	notestore "github.com/noteflow/noteflow/internal/app/store/notes"
	"github.com/noteflow/noteflow/internal/app/system/audit"
	"github.com/noteflow/noteflow/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Coord *audit.Coordinator
	Notes *notestore.Store
	Log   *zap.Logger
}

// NewHandler constructs a notes feature handler.
func NewHandler(coord *audit.Coordinator, db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Coord: coord,
		Notes: notestore.New(db),
		Log:   logger,
	}
}

// noteID parses the {noteID} URL parameter. A malformed id is reported
// as a missing note, the same as an id that matches nothing.
func noteID(raw string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(raw)
	return id, err == nil
}

// writeMutationError maps coordinator errors onto the response.
func (h *Handler) writeMutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, audit.ErrInvalidArgument):
		httpjson.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, audit.ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, "note not found")
	default:
		httpjson.Error(w, http.StatusInternalServerError, "could not complete the operation")
	}
}
