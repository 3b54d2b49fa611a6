// internal/app/system/txn/txn.go

// Package txn provides a unit-of-work helper for multi-document writes.
//
// Callers pass a function that receives a session-bound context; every
// store call made with that context joins the same MongoDB transaction,
// so the whole body commits or aborts as one unit. The session handle is
// explicit in the function signature rather than carried in ambient
// state, which keeps the atomicity of a multi-step write visible at the
// call site.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Body is the unit of work executed inside a transaction. The context it
// receives is session-scoped and must be passed to every store call that
// should participate in the transaction.
type Body func(ctx context.Context) (any, error)

// WithTransaction runs body inside a MongoDB multi-document transaction.
// If body returns an error the transaction aborts and nothing it wrote
// is visible; otherwise the transaction commits before WithTransaction
// returns.
//
// On deployments without transaction support (standalone servers, some
// DocumentDB versions) the body runs directly without a session. That
// degraded mode loses atomicity and is logged once per call; production
// deployments are expected to run against a replica set.
func WithTransaction(ctx context.Context, client *mongo.Client, logger *zap.Logger, body Body) (any, error) {
	session, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			logger.Warn("transactions unsupported by server; running without atomicity", zap.Error(err))
			return body(ctx)
		}
		return nil, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return body(sc)
	})
	if err != nil && IsNotSupported(err) {
		logger.Warn("transactions unsupported by server; running without atomicity", zap.Error(err))
		return body(ctx)
	}
	return result, err
}

// IsNotSupported reports whether err indicates the server cannot run
// multi-document transactions (standalone deployments, DocumentDB
// restrictions). Checks known command error codes first, then falls back
// to message heuristics for drivers/servers that wrap the codes away.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263:
			return true
		}
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "illegal operation") {
		return true
	}
	if strings.Contains(s, "transaction") &&
		(strings.Contains(s, "replica set") || strings.Contains(s, "session")) {
		return true
	}
	if strings.Contains(s, "session") && strings.Contains(s, "not supported") {
		return true
	}
	return false
}
