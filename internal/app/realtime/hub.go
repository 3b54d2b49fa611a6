// internal/app/realtime/hub.go

// Package realtime is the websocket side of the service: connection
// registry, room membership, and the chat event dispatcher. Rooms are
// names, not resources; joining one is a map entry, and an empty room
// simply has no entries.
package realtime

import (
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ErrNotInitialized is returned by Current before Init has run, which
// means a caller tried to broadcast before the server was wired up.
var ErrNotInitialized = errors.New("realtime hub not initialized")

var (
	hubMu  sync.RWMutex
	hubRef *Hub
)

// Init installs the process-wide hub. Called once at startup.
func Init(logger *zap.Logger) *Hub {
	hubMu.Lock()
	defer hubMu.Unlock()
	hubRef = NewHub(logger)
	return hubRef
}

// Current returns the process-wide hub installed by Init.
func Current() (*Hub, error) {
	hubMu.RLock()
	defer hubMu.RUnlock()
	if hubRef == nil {
		return nil, ErrNotInitialized
	}
	return hubRef, nil
}

// Hub tracks every live connection, the connections per user, and room
// membership. All maps are guarded by mu; delivery itself is
// non-blocking through each client's send queue.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]*Client
	byUser map[primitive.ObjectID]map[string]*Client
	rooms  map[string]map[string]*Client
	log    *zap.Logger
}

// NewHub builds an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		conns:  make(map[string]*Client),
		byUser: make(map[primitive.ObjectID]map[string]*Client),
		rooms:  make(map[string]map[string]*Client),
		log:    logger,
	}
}

// Register adds a connection to the registry.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[c.id] = c
	if h.byUser[c.principal.ID] == nil {
		h.byUser[c.principal.ID] = make(map[string]*Client)
	}
	h.byUser[c.principal.ID][c.id] = c
	h.log.Info("client connected",
		zap.String("conn", c.id),
		zap.String("user", c.principal.ID.Hex()))
}

// Unregister removes a connection and its membership in every room.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[c.id]; !ok {
		return
	}
	delete(h.conns, c.id)

	if set := h.byUser[c.principal.ID]; set != nil {
		delete(set, c.id)
		if len(set) == 0 {
			delete(h.byUser, c.principal.ID)
		}
	}
	for room, members := range h.rooms {
		delete(members, c.id)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	h.log.Info("client disconnected",
		zap.String("conn", c.id),
		zap.String("user", c.principal.ID.Hex()))
}

// Join adds a connection to a room, creating the room on first entry.
func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[string]*Client)
	}
	h.rooms[room][c.id] = c
}

// JoinUser adds every live connection of a user to a room, so a user
// with several tabs open sees the room on all of them. An offline user
// is a no-op.
func (h *Hub) JoinUser(userID primitive.ObjectID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.byUser[userID]
	if len(set) == 0 {
		return
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[string]*Client)
	}
	for id, c := range set {
		h.rooms[room][id] = c
	}
}

// Leave removes a connection from a room.
func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members := h.rooms[room]; members != nil {
		delete(members, c.id)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// InRoom reports whether the connection has joined the room.
func (h *Hub) InRoom(c *Client, room string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members := h.rooms[room]
	if members == nil {
		return false
	}
	_, ok := members[c.id]
	return ok
}

// ToRoom sends an event to every connection in a room. Sending to a
// room nobody joined is a no-op.
func (h *Hub) ToRoom(room, event string, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.rooms[room] {
		c.enqueue(event, payload)
	}
}

// ToUser sends an event to every connection a user currently has. An
// offline user just misses the event.
func (h *Hub) ToUser(userID primitive.ObjectID, event string, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.byUser[userID] {
		c.enqueue(event, payload)
	}
}

// BroadcastAll sends an event to every live connection.
func (h *Hub) BroadcastAll(event string, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.conns {
		c.enqueue(event, payload)
	}
}

// ConnCount reports the number of live connections.
func (h *Hub) ConnCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
