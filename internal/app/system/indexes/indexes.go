// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureNotes(ctx, db); err != nil {
		problems = append(problems, "notes: "+err.Error())
	}
	if err := ensureNoteLogs(ctx, db); err != nil {
		problems = append(problems, "note_logs: "+err.Error())
	}
	if err := ensureChatRequests(ctx, db); err != nil {
		problems = append(problems, "chat_requests: "+err.Error())
	}
	if err := ensureChatMessages(ctx, db); err != nil {
		problems = append(problems, "chat_messages: "+err.Error())
	}
	if err := ensureGroups(ctx, db); err != nil {
		problems = append(problems, "groups: "+err.Error())
	}
	if err := ensureComments(ctx, db); err != nil {
		problems = append(problems, "comments: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := a != nil && *a
	bv := b != nil && *b
	return av == bv
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, desired []mongo.IndexModel) error {
	existing := map[string]existingIndex{} // key signature -> index
	cur, err := coll.Indexes().List(ctx)
	if err == nil {
		defer cur.Close(ctx)
		for cur.Next(ctx) {
			var idx existingIndex
			if err := cur.Decode(&idx); err != nil {
				zap.L().Warn("failed to decode existing index",
					zap.String("collection", coll.Name()),
					zap.Error(err))
				continue
			}
			existing[keySig(idx.Key)] = idx
		}
	}

	var errs []string
	for _, m := range desired {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			desiredUnique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))

		if ex, ok := existing[sig]; ok {
			if sameBoolPtr(desiredUnique, ex.Unique) {
				continue
			}
			// Options mismatch (e.g. upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			continue
		}
		zap.L().Info("index created",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", sig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Per-collection index sets                                                  */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().SetName("uniq_email_ci").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("by_name_ci"),
		},
	})
}

func ensureNotes(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("notes"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "updated_at", Value: -1}},
			Options: options.Index().SetName("by_owner_updated"),
		},
	})
}

func ensureNoteLogs(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("note_logs"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "note_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_note_created"),
		},
		{
			Keys:    bson.D{{Key: "actor_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_actor_created"),
		},
	})
}

func ensureChatRequests(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("chat_requests"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "to", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("by_recipient_status"),
		},
	})
}

func ensureChatMessages(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("chat_messages"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "room_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("by_room_created"),
		},
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("by_group_created"),
		},
	})
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("groups"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("uniq_name_ci").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "members", Value: 1}},
			Options: options.Index().SetName("by_member"),
		},
	})
}

func ensureComments(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("comments"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "note_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("by_note_created"),
		},
	})
}
