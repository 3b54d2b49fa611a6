// internal/app/realtime/hub_test.go

package realtime

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/noteflow/noteflow/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// newTestClient builds a client with no underlying connection; tests
// read delivered events straight off the send queue.
func newTestClient(p auth.Principal) *Client {
	return &Client{
		id:        uuid.NewString(),
		principal: p,
		send:      make(chan outbound, sendQueueSize),
		log:       zap.NewNop(),
	}
}

func testPrincipal(name string) auth.Principal {
	return auth.Principal{ID: primitive.NewObjectID(), Name: name}
}

func recv(t *testing.T, c *Client) outbound {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return outbound{}
	}
}

func assertNone(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg := <-c.send:
		t.Fatalf("unexpected event %q", msg.Event)
	default:
	}
}

func TestHubToUserReachesAllConnections(t *testing.T) {
	hub := NewHub(zap.NewNop())
	p := testPrincipal("Ada")
	tab1 := newTestClient(p)
	tab2 := newTestClient(p)
	other := newTestClient(testPrincipal("Grace"))

	hub.Register(tab1)
	hub.Register(tab2)
	hub.Register(other)

	hub.ToUser(p.ID, "ping", nil)

	if ev := recv(t, tab1); ev.Event != "ping" {
		t.Errorf("tab1: got %q", ev.Event)
	}
	if ev := recv(t, tab2); ev.Event != "ping" {
		t.Errorf("tab2: got %q", ev.Event)
	}
	assertNone(t, other)
}

func TestHubRoomDelivery(t *testing.T) {
	hub := NewHub(zap.NewNop())
	a := newTestClient(testPrincipal("Ada"))
	b := newTestClient(testPrincipal("Grace"))
	c := newTestClient(testPrincipal("Lin"))
	for _, cl := range []*Client{a, b, c} {
		hub.Register(cl)
	}

	hub.Join(a, "room-1")
	hub.Join(b, "room-1")

	if !hub.InRoom(a, "room-1") || hub.InRoom(c, "room-1") {
		t.Fatal("membership wrong after Join")
	}

	hub.ToRoom("room-1", "hello", nil)
	recv(t, a)
	recv(t, b)
	assertNone(t, c)

	// Sending to an empty room is a no-op.
	hub.ToRoom("room-nobody", "hello", nil)
	assertNone(t, a)
}

func TestHubLeaveAndUnregister(t *testing.T) {
	hub := NewHub(zap.NewNop())
	a := newTestClient(testPrincipal("Ada"))
	b := newTestClient(testPrincipal("Grace"))
	hub.Register(a)
	hub.Register(b)
	hub.Join(a, "room-1")
	hub.Join(b, "room-1")

	hub.Leave(a, "room-1")
	if hub.InRoom(a, "room-1") {
		t.Error("still in room after Leave")
	}

	hub.Unregister(b)
	if hub.InRoom(b, "room-1") {
		t.Error("still in room after Unregister")
	}
	if got := hub.ConnCount(); got != 1 {
		t.Errorf("conn count: got %d, want 1", got)
	}

	hub.ToRoom("room-1", "hello", nil)
	assertNone(t, a)
	assertNone(t, b)
}

func TestHubJoinUserJoinsEveryTab(t *testing.T) {
	hub := NewHub(zap.NewNop())
	p := testPrincipal("Ada")
	tab1 := newTestClient(p)
	tab2 := newTestClient(p)
	hub.Register(tab1)
	hub.Register(tab2)

	hub.JoinUser(p.ID, "room-1")

	if !hub.InRoom(tab1, "room-1") || !hub.InRoom(tab2, "room-1") {
		t.Error("JoinUser missed a connection")
	}

	// Offline user: nothing to join, nothing to create.
	hub.JoinUser(primitive.NewObjectID(), "room-2")
	hub.ToRoom("room-2", "hello", nil)
	assertNone(t, tab1)
}

func TestHubBroadcastAll(t *testing.T) {
	hub := NewHub(zap.NewNop())
	a := newTestClient(testPrincipal("Ada"))
	b := newTestClient(testPrincipal("Grace"))
	hub.Register(a)
	hub.Register(b)

	hub.BroadcastAll("note:created", map[string]string{"id": "x"})
	recv(t, a)
	recv(t, b)
}

func TestCurrentBeforeInit(t *testing.T) {
	hubMu.Lock()
	saved := hubRef
	hubRef = nil
	hubMu.Unlock()
	defer func() {
		hubMu.Lock()
		hubRef = saved
		hubMu.Unlock()
	}()

	if _, err := Current(); err == nil {
		t.Error("expected error before Init")
	}

	Init(zap.NewNop())
	if _, err := Current(); err != nil {
		t.Errorf("Current after Init: %v", err)
	}
}

func TestEnqueueDropsWhenQueueFull(t *testing.T) {
	c := newTestClient(testPrincipal("Ada"))
	for i := 0; i < sendQueueSize+5; i++ {
		c.enqueue("tick", i)
	}
	if got := len(c.send); got != sendQueueSize {
		t.Errorf("queue length: got %d, want %d", got, sendQueueSize)
	}
}
