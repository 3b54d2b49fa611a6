// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a named chat group. Membership is embedded; the realtime
// layer only reads it to authorize room joins.
type Group struct {
	ID      primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name    string               `bson:"name" json:"name"`
	NameCI  string               `bson:"name_ci" json:"-"`
	Members []primitive.ObjectID `bson:"members" json:"members"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
