// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a remark attached to a note. Creating one writes a
// "commented" log entry in the same transaction.
type Comment struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	NoteID  primitive.ObjectID `bson:"note_id" json:"note_id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"`
	Content string             `bson:"content" json:"content"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
