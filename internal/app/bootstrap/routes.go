// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	activityfeature "github.com/noteflow/noteflow/internal/app/features/activity"
	authapifeature "github.com/noteflow/noteflow/internal/app/features/authapi"
	commentsfeature "github.com/noteflow/noteflow/internal/app/features/comments"
	healthfeature "github.com/noteflow/noteflow/internal/app/features/health"
	notesfeature "github.com/noteflow/noteflow/internal/app/features/notes"
	"github.com/noteflow/noteflow/internal/app/realtime"
	"github.com/noteflow/noteflow/internal/app/system/audit"
	"github.com/noteflow/noteflow/internal/app/system/auth"
	"github.com/noteflow/noteflow/internal/app/system/httpjson"
	"github.com/noteflow/noteflow/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. NoteFlow mounts the JSON API
// under /api, the websocket gateway at /ws, and the health endpoint at
// /health.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens, err := auth.NewTokenManager(appCfg.JWTSecret, appCfg.TokenExpiry, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	hub, err := realtime.Current()
	if err != nil {
		logger.Error("realtime hub missing", zap.Error(err))
		return nil, err
	}
	session := realtime.NewSession(hub, deps.MongoDatabase, logger)
	gateway := realtime.NewGateway(hub, session, tokens, deps.MongoDatabase, logger)

	coord := audit.New(deps.MongoClient, deps.MongoDatabase, hub, logger)
	authLimiter := ratelimit.New(appCfg.AuthRateLimit, appCfg.AuthRateWindow)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, hub, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	authHandler := authapifeature.NewHandler(deps.MongoDatabase, tokens, logger)
	r.Mount("/api/auth", authapifeature.Routes(authHandler, authLimiter))

	// Notes and their audit trail
	notesHandler := notesfeature.NewHandler(coord, deps.MongoDatabase, logger)
	r.Mount("/api/notes", notesfeature.Routes(notesHandler, tokens))

	commentsHandler := commentsfeature.NewHandler(coord, deps.MongoDatabase, logger)
	r.Mount("/api/comments", commentsfeature.Routes(commentsHandler, tokens))

	activityHandler := activityfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/api/activity", activityfeature.Routes(activityHandler, tokens))

	// Websocket gateway; auth happens before the upgrade.
	r.Get("/ws", gateway.ServeWS)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpjson.Error(w, http.StatusNotFound, "not found")
	})

	return r, nil
}
