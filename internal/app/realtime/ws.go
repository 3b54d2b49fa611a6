// internal/app/realtime/ws.go

package realtime

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/noteflow/noteflow/internal/app/store/chatrequests"
	userstore "github.com/noteflow/noteflow/internal/app/store/users"
	"github.com/noteflow/noteflow/internal/app/system/auth"
	"github.com/noteflow/noteflow/internal/app/system/httpjson"
	"github.com/noteflow/noteflow/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Gateway upgrades HTTP requests to websocket connections. Credentials
// are checked before the upgrade, so an unauthenticated caller gets a
// plain 401 and never holds a socket.
type Gateway struct {
	hub     *Hub
	session *Session
	tokens  *auth.TokenManager
	db      *mongo.Database
	log     *zap.Logger

	upgrader websocket.Upgrader
}

// NewGateway builds the websocket entry point.
func NewGateway(hub *Hub, session *Session, tokens *auth.TokenManager, db *mongo.Database, logger *zap.Logger) *Gateway {
	return &Gateway{
		hub:     hub,
		session: session,
		tokens:  tokens,
		db:      db,
		log:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Browser clients connect from the app's own pages; token
			// auth is the real gate here.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS authenticates the caller, upgrades the connection, and runs
// its read and write pumps until it closes.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromRequest(r)
	p, err := g.tokens.Verify(token)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "not authorized")
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written its own error response.
		g.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(g.hub, conn, p, g.log)
	g.hub.Register(client)

	go g.deliverPending(client)
	go client.writePump()
	client.readPump(g.session)
}

// deliverPending replays chat requests that arrived while the user was
// offline, so a fresh connection sees what is waiting on it.
func (g *Gateway) deliverPending(c *Client) {
	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Short(), g.log, "chat:pending-backlog")
	defer cancel()

	pending, err := chatrequests.New(g.db).ListPendingFor(ctx, c.principal.ID)
	if err != nil {
		g.log.Warn("listing pending chat requests failed", zap.Error(err))
		return
	}
	if len(pending) == 0 {
		return
	}

	users := userstore.New(g.db)
	for _, req := range pending {
		fromName := ""
		if from, err := users.GetByID(ctx, req.From); err == nil {
			fromName = from.Name
		}
		c.enqueue(EventChatRequestReceived, map[string]string{
			"requestId": req.ID.Hex(),
			"from":      req.From.Hex(),
			"fromName":  fromName,
		})
	}
}
