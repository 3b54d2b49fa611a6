// internal/app/store/chatrequests/store.go

// Package chatrequests persists chat connection requests. The one write
// path for resolving a request is Resolve, whose filter includes
// status=pending: the first approve or reject wins and every later
// attempt sees no match, which gives the exactly-once transition without
// any in-process locking.
package chatrequests

import (
	"context"
	"errors"
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
	return &Store{c: db.Collection("chat_requests")}
}

// Create inserts a new pending request from one user to another.
func (s *Store) Create(ctx context.Context, from, to primitive.ObjectID) (models.ChatRequest, error) {
	now := time.Now().UTC()
	req := models.ChatRequest{
		ID:        primitive.NewObjectID(),
		From:      from,
		To:        to,
		Status:    models.RequestPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, req); err != nil {
		return models.ChatRequest{}, err
	}
	return req, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.ChatRequest, error) {
	var req models.ChatRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
		return models.ChatRequest{}, err
	}
	return req, nil
}

// Resolve moves a pending request to the given terminal status. Returns
// the resolved request and ok=true only when this call performed the
// transition; a missing request or one already resolved yields ok=false
// with no error, so duplicate approvals are harmless no-ops.
func (s *Store) Resolve(ctx context.Context, id primitive.ObjectID, status string) (models.ChatRequest, bool, error) {
	if status != models.RequestApproved && status != models.RequestRejected {
		return models.ChatRequest{}, false, errors.New("chatrequests: status must be a terminal state")
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var req models.ChatRequest
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.RequestPending},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
		opts,
	).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.ChatRequest{}, false, nil
		}
		return models.ChatRequest{}, false, err
	}
	return req, true, nil
}

// ListPendingFor returns pending requests addressed to the user, oldest
// first, so a client can show what awaits its decision after reconnect.
func (s *Store) ListPendingFor(ctx context.Context, to primitive.ObjectID) ([]models.ChatRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.c.Find(ctx, bson.M{"to": to, "status": models.RequestPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reqs []models.ChatRequest
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}
