// internal/domain/models/notelog.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Note log actions.
const (
	ActionCreate     = "create"
	ActionUpdate     = "update"
	ActionDelete     = "delete"
	ActionBulkUpdate = "bulk-update"
	ActionCommented  = "commented"
)

// NoteLog is an append-only audit record for a note mutation. It is
// written in the same transaction as the mutation it describes, so a
// committed mutation always has exactly one matching entry.
type NoteLog struct {
	ID      primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ActorID primitive.ObjectID  `bson:"actor_id" json:"actor_id"`
	NoteID  *primitive.ObjectID `bson:"note_id,omitempty" json:"note_id,omitempty"` // absent for bulk updates
	Action  string              `bson:"action" json:"action"`
	Message string              `bson:"message,omitempty" json:"message,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
