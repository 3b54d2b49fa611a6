// internal/domain/models/note.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Note is a user-owned document. Only the owner mutates it; SharedWith
// grants read visibility to other users.
type Note struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	OwnerID    primitive.ObjectID   `bson:"owner_id" json:"owner_id"`
	Title      string               `bson:"title" json:"title"`
	Content    string               `bson:"content" json:"content"`
	SharedWith []primitive.ObjectID `bson:"shared_with,omitempty" json:"shared_with,omitempty"`
	Labels     []string             `bson:"labels,omitempty" json:"labels,omitempty"`
	Archived   bool                 `bson:"archived" json:"archived"`
	Pinned     bool                 `bson:"pinned" json:"pinned"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
