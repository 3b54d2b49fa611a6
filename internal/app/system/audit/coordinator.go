// internal/app/system/audit/coordinator.go

// Package audit pairs every note mutation with its log entry. The
// Coordinator runs both writes inside one transaction (via system/txn),
// so a committed mutation always has exactly one matching note_logs
// entry and a failed attempt leaves neither behind. After a successful
// commit it notifies connected clients; that broadcast is fire-and-
// forget and can never undo or fail the committed mutation.
package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/noteflow/noteflow/internal/app/store/comments"
	notestore "github.com/noteflow/noteflow/internal/app/store/notes"
	"github.com/noteflow/noteflow/internal/app/store/notelog"
	"github.com/noteflow/noteflow/internal/app/system/auth"
	"github.com/noteflow/noteflow/internal/app/system/sanitize"
	"github.com/noteflow/noteflow/internal/app/system/txn"
	"github.com/noteflow/noteflow/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Outbound note lifecycle events.
const (
	EventNoteCreated = "note:created"
	EventNoteUpdated = "note:updated"
	EventNoteDeleted = "note:deleted"
)

var (
	// ErrInvalidArgument rejects malformed payloads before any
	// transaction is opened.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound covers both a missing note and an owner mismatch;
	// callers cannot tell the two apart.
	ErrNotFound = errors.New("note not found")
	// ErrMutationFailed is the only error surfaced for transactional
	// failures. The cause goes to the log, not the caller.
	ErrMutationFailed = errors.New("mutation failed")
)

// Broadcaster delivers post-commit notifications to connected clients.
// Implemented by the realtime hub.
type Broadcaster interface {
	BroadcastAll(event string, payload any)
}

// Coordinator owns the transactional write path for notes and comments.
type Coordinator struct {
	client    *mongo.Client
	notes     *notestore.Store
	logs      *notelog.Store
	comments  *comments.Store
	broadcast Broadcaster
	log       *zap.Logger
}

// New builds a Coordinator. broadcast may be nil (e.g. in tests), in
// which case commit notifications are skipped.
func New(client *mongo.Client, db *mongo.Database, broadcast Broadcaster, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		client:    client,
		notes:     notestore.New(db),
		logs:      notelog.New(db),
		comments:  comments.New(db),
		broadcast: broadcast,
		log:       logger,
	}
}

// NoteFields is a partial note update. Nil fields are left untouched.
type NoteFields struct {
	Title      *string
	Content    *string
	Labels     *[]string
	Archived   *bool
	Pinned     *bool
	SharedWith *[]primitive.ObjectID
}

// set builds the $set document, sanitizing user text.
func (f NoteFields) set() bson.M {
	set := bson.M{}
	if f.Title != nil {
		set["title"] = sanitize.Text(*f.Title)
	}
	if f.Content != nil {
		set["content"] = sanitize.Text(*f.Content)
	}
	if f.Labels != nil {
		set["labels"] = *f.Labels
	}
	if f.Archived != nil {
		set["archived"] = *f.Archived
	}
	if f.Pinned != nil {
		set["pinned"] = *f.Pinned
	}
	if f.SharedWith != nil {
		set["shared_with"] = *f.SharedWith
	}
	return set
}

// notify spawns the post-commit broadcast. Failures inside the hub are
// the hub's to log; nothing here reaches the mutation's caller.
func (c *Coordinator) notify(event string, payload any) {
	if c.broadcast == nil {
		return
	}
	go c.broadcast.BroadcastAll(event, payload)
}

// CreateNote inserts a note and its "create" log entry atomically, then
// announces the new note.
func (c *Coordinator) CreateNote(ctx context.Context, p auth.Principal, title, content string, labels []string) (models.Note, error) {
	title = sanitize.Text(title)
	content = sanitize.Text(content)
	if title == "" || content == "" {
		return models.Note{}, fmt.Errorf("%w: title and content are required", ErrInvalidArgument)
	}

	result, err := txn.WithTransaction(ctx, c.client, c.log, func(sc context.Context) (any, error) {
		note, err := c.notes.Create(sc, models.Note{
			OwnerID: p.ID,
			Title:   title,
			Content: content,
			Labels:  labels,
		})
		if err != nil {
			return nil, err
		}
		_, err = c.logs.Append(sc, models.NoteLog{
			ActorID: p.ID,
			NoteID:  &note.ID,
			Action:  models.ActionCreate,
			Message: fmt.Sprintf("Note created by %s", p.Name),
		})
		if err != nil {
			return nil, err
		}
		return note, nil
	})
	if err != nil {
		c.log.Error("create note transaction failed", zap.Error(err), zap.String("actor", p.ID.Hex()))
		return models.Note{}, ErrMutationFailed
	}

	note := result.(models.Note)
	c.notify(EventNoteCreated, note)
	c.log.Info("note created", zap.String("note", note.ID.Hex()), zap.String("actor", p.ID.Hex()))
	return note, nil
}

// UpdateNote applies a partial update and its "update" log entry
// atomically. An owner mismatch yields ErrNotFound with the note
// unchanged.
func (c *Coordinator) UpdateNote(ctx context.Context, p auth.Principal, noteID primitive.ObjectID, fields NoteFields) (models.Note, error) {
	set := fields.set()
	if len(set) == 0 {
		return models.Note{}, fmt.Errorf("%w: no fields to update", ErrInvalidArgument)
	}

	result, err := txn.WithTransaction(ctx, c.client, c.log, func(sc context.Context) (any, error) {
		note, err := c.notes.Update(sc, noteID, p.ID, set)
		if err != nil {
			return nil, err
		}
		_, err = c.logs.Append(sc, models.NoteLog{
			ActorID: p.ID,
			NoteID:  &note.ID,
			Action:  models.ActionUpdate,
			Message: fmt.Sprintf("Note updated by %s", p.Name),
		})
		if err != nil {
			return nil, err
		}
		return note, nil
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Note{}, ErrNotFound
		}
		c.log.Error("update note transaction failed", zap.Error(err), zap.String("note", noteID.Hex()))
		return models.Note{}, ErrMutationFailed
	}

	note := result.(models.Note)
	c.notify(EventNoteUpdated, note)
	c.log.Info("note updated", zap.String("note", note.ID.Hex()), zap.String("actor", p.ID.Hex()))
	return note, nil
}

// DeleteNote removes a note and writes its "delete" log entry
// atomically. An owner mismatch yields ErrNotFound.
func (c *Coordinator) DeleteNote(ctx context.Context, p auth.Principal, noteID primitive.ObjectID) error {
	_, err := txn.WithTransaction(ctx, c.client, c.log, func(sc context.Context) (any, error) {
		note, err := c.notes.Delete(sc, noteID, p.ID)
		if err != nil {
			return nil, err
		}
		_, err = c.logs.Append(sc, models.NoteLog{
			ActorID: p.ID,
			NoteID:  &note.ID,
			Action:  models.ActionDelete,
			Message: fmt.Sprintf("Note deleted by %s", p.Name),
		})
		if err != nil {
			return nil, err
		}
		return note, nil
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		c.log.Error("delete note transaction failed", zap.Error(err), zap.String("note", noteID.Hex()))
		return ErrMutationFailed
	}

	c.notify(EventNoteDeleted, map[string]string{"noteId": noteID.Hex()})
	c.log.Info("note deleted", zap.String("note", noteID.Hex()), zap.String("actor", p.ID.Hex()))
	return nil
}

// BulkResult reports how many notes a bulk update touched.
type BulkResult struct {
	Matched  int64 `json:"matchedCount"`
	Modified int64 `json:"modifiedCount"`
}

// BulkUpdateNotes applies fields to every listed note the principal
// owns, plus one "bulk-update" log entry, atomically. Empty id or field
// sets are rejected before any transaction is opened.
func (c *Coordinator) BulkUpdateNotes(ctx context.Context, p auth.Principal, noteIDs []primitive.ObjectID, fields NoteFields) (BulkResult, error) {
	if len(noteIDs) == 0 {
		return BulkResult{}, fmt.Errorf("%w: noteIds must not be empty", ErrInvalidArgument)
	}
	set := fields.set()
	if len(set) == 0 {
		return BulkResult{}, fmt.Errorf("%w: updateFields must not be empty", ErrInvalidArgument)
	}

	result, err := txn.WithTransaction(ctx, c.client, c.log, func(sc context.Context) (any, error) {
		matched, modified, err := c.notes.BulkUpdate(sc, noteIDs, p.ID, set)
		if err != nil {
			return nil, err
		}
		_, err = c.logs.Append(sc, models.NoteLog{
			ActorID: p.ID,
			Action:  models.ActionBulkUpdate,
			Message: fmt.Sprintf("%d notes updated in bulk by %s", len(noteIDs), p.Name),
		})
		if err != nil {
			return nil, err
		}
		return BulkResult{Matched: matched, Modified: modified}, nil
	})
	if err != nil {
		c.log.Error("bulk update transaction failed", zap.Error(err), zap.String("actor", p.ID.Hex()))
		return BulkResult{}, ErrMutationFailed
	}

	res := result.(BulkResult)
	c.log.Info("notes bulk-updated",
		zap.Int64("matched", res.Matched),
		zap.Int64("modified", res.Modified),
		zap.String("actor", p.ID.Hex()))
	return res, nil
}

// AddComment inserts a comment and its "commented" log entry atomically.
func (c *Coordinator) AddComment(ctx context.Context, p auth.Principal, noteID primitive.ObjectID, content string) (models.Comment, error) {
	content = sanitize.Text(content)
	if content == "" {
		return models.Comment{}, fmt.Errorf("%w: content is required", ErrInvalidArgument)
	}

	result, err := txn.WithTransaction(ctx, c.client, c.log, func(sc context.Context) (any, error) {
		comment, err := c.comments.Create(sc, models.Comment{
			NoteID:  noteID,
			UserID:  p.ID,
			Content: content,
		})
		if err != nil {
			return nil, err
		}
		_, err = c.logs.Append(sc, models.NoteLog{
			ActorID: p.ID,
			NoteID:  &noteID,
			Action:  models.ActionCommented,
			Message: "Commented on note",
		})
		if err != nil {
			return nil, err
		}
		return comment, nil
	})
	if err != nil {
		c.log.Error("add comment transaction failed", zap.Error(err), zap.String("note", noteID.Hex()))
		return models.Comment{}, ErrMutationFailed
	}

	return result.(models.Comment), nil
}
