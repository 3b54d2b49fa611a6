// internal/app/features/comments/handler.go

// Package comments serves note comments. Comment creation goes through
// the audit coordinator so it lands in the activity log with the
// comment itself.
package comments

import (
	commentstore "github.com/noteflow/noteflow/internal/app/store/comments"
	"github.com/noteflow/noteflow/internal/app/system/audit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Coord    *audit.Coordinator
	Comments *commentstore.Store
	Log      *zap.Logger
}

// NewHandler constructs a comments feature handler.
func NewHandler(coord *audit.Coordinator, db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Coord:    coord,
		Comments: commentstore.New(db),
		Log:      logger,
	}
}
