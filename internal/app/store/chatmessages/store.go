// internal/app/store/chatmessages/store.go
package chatmessages

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
	return &Store{c: db.Collection("chat_messages")}
}

// CreateRoomMessage persists a 1:1 chat message addressed to a derived
// room key.
func (s *Store) CreateRoomMessage(ctx context.Context, roomID string, sender primitive.ObjectID, message string) (models.ChatMessage, error) {
	msg := models.ChatMessage{
		ID:        primitive.NewObjectID(),
		RoomID:    roomID,
		SenderID:  sender,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, msg); err != nil {
		return models.ChatMessage{}, err
	}
	return msg, nil
}

// CreateGroupMessage persists a group chat message.
func (s *Store) CreateGroupMessage(ctx context.Context, groupID, sender primitive.ObjectID, message string) (models.ChatMessage, error) {
	msg := models.ChatMessage{
		ID:        primitive.NewObjectID(),
		GroupID:   &groupID,
		SenderID:  sender,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, msg); err != nil {
		return models.ChatMessage{}, err
	}
	return msg, nil
}

// ListByRoom returns messages for a 1:1 room, oldest first.
func (s *Store) ListByRoom(ctx context.Context, roomID string, limit int64) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(limit)
	cursor, err := s.c.Find(ctx, bson.M{"room_id": roomID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var msgs []models.ChatMessage
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// ListByGroup returns messages for a group, oldest first.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID, limit int64) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(limit)
	cursor, err := s.c.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var msgs []models.ChatMessage
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}
