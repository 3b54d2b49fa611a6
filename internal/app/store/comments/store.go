// internal/app/store/comments/store.go
package comments

import (
	"context"
	"time"

	"github.com/noteflow/noteflow/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("comments")}
}

func (s *Store) Create(ctx context.Context, c models.Comment) (models.Comment, error) {
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Comment{}, err
	}
	return c, nil
}

// ListByNote returns a note's comments, oldest first.
func (s *Store) ListByNote(ctx context.Context, noteID primitive.ObjectID) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.c.Find(ctx, bson.M{"note_id": noteID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Comment
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
