// internal/app/features/authapi/handler.go

// Package authapi serves registration, login, and logout. Tokens go
// out both in the response body and in the token cookie, so browser
// and API clients can use whichever fits.
package authapi

import (
	userstore "github.com/noteflow/noteflow/internal/app/store/users"
	"github.com/noteflow/noteflow/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users  *userstore.Store
	Tokens *auth.TokenManager
	Log    *zap.Logger
}

// NewHandler constructs an auth feature handler bound to the given
// Mongo database and token manager.
func NewHandler(db *mongo.Database, tokens *auth.TokenManager, logger *zap.Logger) *Handler {
	return &Handler{
		Users:  userstore.New(db),
		Tokens: tokens,
		Log:    logger,
	}
}
