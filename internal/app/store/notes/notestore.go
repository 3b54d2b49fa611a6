// internal/app/store/notes/notestore.go

// Every write takes both the note id and the owner id: an owner mismatch
// is indistinguishable from a missing note and surfaces as
// mongo.ErrNoDocuments, so callers cannot probe for the existence of
// other users' notes.
package notestore

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
	return &Store{c: db.Collection("notes")}
}

func (s *Store) Create(ctx context.Context, n models.Note) (models.Note, error) {
	now := time.Now().UTC()
	n.ID = primitive.NewObjectID()
	n.CreatedAt = now
	n.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Note{}, err
	}
	return n, nil
}

// GetOwned returns the note only when ownerID owns it.
func (s *Store) GetOwned(ctx context.Context, id, ownerID primitive.ObjectID) (models.Note, error) {
	var n models.Note
	err := s.c.FindOne(ctx, bson.M{"_id": id, "owner_id": ownerID}).Decode(&n)
	if err != nil {
		return models.Note{}, err
	}
	return n, nil
}

// ListByOwner returns the owner's notes, most recently updated first.
func (s *Store) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := s.c.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notes []models.Note
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// Update applies set to the note and returns the updated document.
// Returns mongo.ErrNoDocuments when the note does not exist or ownerID
// does not own it.
func (s *Store) Update(ctx context.Context, id, ownerID primitive.ObjectID, set bson.M) (models.Note, error) {
	set["updated_at"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var n models.Note
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "owner_id": ownerID},
		bson.M{"$set": set},
		opts,
	).Decode(&n)
	if err != nil {
		return models.Note{}, err
	}
	return n, nil
}

// Delete removes the note and returns the deleted document. Returns
// mongo.ErrNoDocuments when the note does not exist or ownerID does not
// own it.
func (s *Store) Delete(ctx context.Context, id, ownerID primitive.ObjectID) (models.Note, error) {
	var n models.Note
	err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id, "owner_id": ownerID}).Decode(&n)
	if err != nil {
		return models.Note{}, err
	}
	return n, nil
}

// BulkUpdate applies set to every listed note owned by ownerID. Notes in
// ids that the owner does not own are skipped silently. Returns matched
// and modified counts.
func (s *Store) BulkUpdate(ctx context.Context, ids []primitive.ObjectID, ownerID primitive.ObjectID, set bson.M) (matched, modified int64, err error) {
	set["updated_at"] = time.Now().UTC()
	res, err := s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "owner_id": ownerID},
		bson.M{"$set": set},
	)
	if err != nil {
		return 0, 0, err
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

// CountByOwner returns how many notes the owner has.
func (s *Store) CountByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"owner_id": ownerID})
}
