// internal/testutil/fixtures.go

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/noteflow/noteflow/internal/app/system/auth"
	"github.com/noteflow/noteflow/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given name and email. The
// stored password is "password123".
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	hash, err := auth.HashPassword("password123")
	if err != nil {
		f.t.Fatalf("failed to hash test password: %v", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Email:        email,
		EmailCI:      text.Fold(email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateNote creates a test note owned by the given user.
func (f *Fixtures) CreateNote(ctx context.Context, ownerID primitive.ObjectID, title, content string) models.Note {
	f.t.Helper()

	now := time.Now().UTC()
	note := models.Note{
		ID:         primitive.NewObjectID(),
		OwnerID:    ownerID,
		Title:      title,
		Content:    content,
		SharedWith: []primitive.ObjectID{},
		Labels:     []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("notes").InsertOne(ctx, note); err != nil {
		f.t.Fatalf("failed to create test note: %v", err)
	}
	return note
}

// CreateGroup creates a test group with the given members.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, members ...primitive.ObjectID) models.Group {
	f.t.Helper()

	if members == nil {
		members = []primitive.ObjectID{}
	}
	now := time.Now().UTC()
	group := models.Group{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Members:   members,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("groups").InsertOne(ctx, group); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// CreateChatRequest creates a chat request in the given status.
func (f *Fixtures) CreateChatRequest(ctx context.Context, from, to primitive.ObjectID, status string) models.ChatRequest {
	f.t.Helper()

	now := time.Now().UTC()
	req := models.ChatRequest{
		ID:        primitive.NewObjectID(),
		From:      from,
		To:        to,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("chat_requests").InsertOne(ctx, req); err != nil {
		f.t.Fatalf("failed to create test chat request: %v", err)
	}
	return req
}
