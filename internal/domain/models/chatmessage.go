// internal/domain/models/chatmessage.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatMessage is one message in a 1:1 room or a group room. Exactly one
// of RoomID/GroupID is set: RoomID for 1:1 chat (a derived pair key),
// GroupID for group chat.
type ChatMessage struct {
	ID       primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	RoomID   string              `bson:"room_id,omitempty" json:"room_id,omitempty"`
	GroupID  *primitive.ObjectID `bson:"group_id,omitempty" json:"group_id,omitempty"`
	SenderID primitive.ObjectID  `bson:"sender_id" json:"sender_id"`
	Message  string              `bson:"message" json:"message"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
