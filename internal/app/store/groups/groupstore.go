// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/noteflow/noteflow/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateGroupName = errors.New("a group with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.NameCI = text.Fold(g.Name)
	g.CreatedAt = now
	g.UpdatedAt = now
	if g.Members == nil {
		g.Members = []primitive.ObjectID{}
	}
	_, err := s.c.InsertOne(ctx, g)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Group{}, ErrDuplicateGroupName
		}
		return models.Group{}, err
	}
	return g, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// IsMember reports whether userID belongs to the group. A missing group
// reports false with no error; the realtime layer treats both the same.
func (s *Store) IsMember(ctx context.Context, groupID, userID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": groupID, "members": userID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddMember adds userID to the group's member set (idempotent).
func (s *Store) AddMember(ctx context.Context, groupID, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, groupID, bson.M{
		"$addToSet": bson.M{"members": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// RemoveMember removes userID from the group's member set.
func (s *Store) RemoveMember(ctx context.Context, groupID, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, groupID, bson.M{
		"$pull": bson.M{"members": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}
