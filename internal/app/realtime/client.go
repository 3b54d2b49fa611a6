// internal/app/realtime/client.go

package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/noteflow/noteflow/internal/app/system/auth"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 64 * 1024
	sendQueueSize  = 32
)

// Client is one websocket connection bound to an authenticated user. A
// user with several tabs open holds several clients.
type Client struct {
	id        string
	principal auth.Principal
	hub       *Hub
	conn      *websocket.Conn
	send      chan outbound
	log       *zap.Logger
}

// NewClient wraps an upgraded connection.
func NewClient(hub *Hub, conn *websocket.Conn, p auth.Principal, logger *zap.Logger) *Client {
	return &Client{
		id:        uuid.NewString(),
		principal: p,
		hub:       hub,
		conn:      conn,
		send:      make(chan outbound, sendQueueSize),
		log:       logger,
	}
}

// Principal returns the authenticated identity behind the connection.
func (c *Client) Principal() auth.Principal {
	return c.principal
}

// enqueue queues an event without blocking. A client that cannot keep
// up loses the event rather than stalling the sender.
func (c *Client) enqueue(event string, payload any) {
	select {
	case c.send <- outbound{Event: event, Data: payload}:
	default:
		c.log.Warn("send queue full, dropping event",
			zap.String("conn", c.id),
			zap.String("event", event))
	}
}

// readPump reads frames off the wire and feeds them to the session
// dispatcher until the connection dies. Runs on the request goroutine.
func (c *Client) readPump(s *Session) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("websocket read failed", zap.String("conn", c.id), zap.Error(err))
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.enqueue(EventChatError, map[string]string{"message": "malformed message"})
			continue
		}
		s.Dispatch(c, env)
	}
}

// writePump drains the send queue onto the wire and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.log.Warn("websocket write failed", zap.String("conn", c.id), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
