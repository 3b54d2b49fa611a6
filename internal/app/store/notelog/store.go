// internal/app/store/notelog/store.go

// Package notelog manages the append-only audit trail for note
// mutations. Entries are written by the audit coordinator inside the
// same transaction as the mutation they record; this package never
// updates or deletes.
package notelog

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
	return &Store{c: db.Collection("note_logs")}
}

// Append records one audit entry.
func (s *Store) Append(ctx context.Context, e models.NoteLog) (models.NoteLog, error) {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.NoteLog{}, err
	}
	return e, nil
}

// ListByNote returns the audit trail for one note, newest first.
func (s *Store) ListByNote(ctx context.Context, noteID primitive.ObjectID, limit int64) ([]models.NoteLog, error) {
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := s.c.Find(ctx, bson.M{"note_id": noteID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.NoteLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByActor returns entries recorded for one actor, newest first.
func (s *Store) ListByActor(ctx context.Context, actorID primitive.ObjectID, limit int64) ([]models.NoteLog, error) {
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := s.c.Find(ctx, bson.M{"actor_id": actorID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.NoteLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByActor returns how many entries exist for the actor. Used by
// tests to assert the one-entry-per-mutation invariant.
func (s *Store) CountByActor(ctx context.Context, actorID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"actor_id": actorID})
}

// CountByNote returns how many entries reference the note.
func (s *Store) CountByNote(ctx context.Context, noteID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"note_id": noteID})
}
