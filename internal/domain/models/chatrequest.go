// internal/domain/models/chatrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chat request statuses. A request is created pending and resolves at
// most once to approved or rejected; it never returns to pending.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// ChatRequest is a connection request between two users. Requests have
// no expiry: an unresolved request stays pending until approved or
// rejected.
type ChatRequest struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	From   primitive.ObjectID `bson:"from" json:"from"`
	To     primitive.ObjectID `bson:"to" json:"to"`
	Status string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
