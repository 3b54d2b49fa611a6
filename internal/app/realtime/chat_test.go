// internal/app/realtime/chat_test.go

package realtime

import (
	"encoding/json"
	"testing"

	"github.com/noteflow/noteflow/internal/app/store/chatmessages"
	"github.com/noteflow/noteflow/internal/app/store/chatrequests"
	"github.com/noteflow/noteflow/internal/domain/models"
	"github.com/noteflow/noteflow/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestSession(t *testing.T) (*Session, *Hub, *testutil.Fixtures, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	hub := NewHub(zap.NewNop())
	return NewSession(hub, db, zap.NewNop()), hub, testutil.NewFixtures(t, db), db
}

func dispatch(t *testing.T, s *Session, c *Client, event string, payload any) {
	t.Helper()
	var data json.RawMessage
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		data = buf
	}
	s.Dispatch(c, Envelope{Event: event, Data: data})
}

func TestChatRequestReachesRecipient(t *testing.T) {
	s, hub, fixtures, db := newTestSession(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	grace := fixtures.CreateUser(ctx, "Grace", "grace@example.com")

	adaConn := newTestClient(testutil.Principal(ada))
	graceConn := newTestClient(testutil.Principal(grace))
	hub.Register(adaConn)
	hub.Register(graceConn)

	dispatch(t, s, adaConn, EventChatRequest, map[string]string{"toUsername": "Grace"})

	ev := recv(t, graceConn)
	if ev.Event != EventChatRequestReceived {
		t.Fatalf("got %q, want %q", ev.Event, EventChatRequestReceived)
	}

	pending, err := chatrequests.New(db).ListPendingFor(ctx, grace.ID)
	if err != nil {
		t.Fatalf("ListPendingFor: %v", err)
	}
	if len(pending) != 1 || pending[0].From != ada.ID {
		t.Errorf("pending requests: got %d", len(pending))
	}
}

func TestChatRequestUnknownUser(t *testing.T) {
	s, hub, fixtures, _ := newTestSession(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	adaConn := newTestClient(testutil.Principal(ada))
	hub.Register(adaConn)

	dispatch(t, s, adaConn, EventChatRequest, map[string]string{"toUsername": "Nobody"})

	ev := recv(t, adaConn)
	if ev.Event != EventChatError {
		t.Fatalf("got %q, want %q", ev.Event, EventChatError)
	}
}

func TestApproveJoinsBothAndResolvesOnce(t *testing.T) {
	s, hub, fixtures, db := newTestSession(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	grace := fixtures.CreateUser(ctx, "Grace", "grace@example.com")
	req := fixtures.CreateChatRequest(ctx, ada.ID, grace.ID, models.RequestPending)

	adaConn := newTestClient(testutil.Principal(ada))
	graceConn := newTestClient(testutil.Principal(grace))
	hub.Register(adaConn)
	hub.Register(graceConn)

	dispatch(t, s, graceConn, EventChatApprove, map[string]string{"requestId": req.ID.Hex()})

	room := DeriveRoomID(ada.ID, grace.ID)
	for _, c := range []*Client{adaConn, graceConn} {
		ev := recv(t, c)
		if ev.Event != EventChatApproved {
			t.Fatalf("got %q, want %q", ev.Event, EventChatApproved)
		}
		if !hub.InRoom(c, room) {
			t.Error("participant not joined to room")
		}
	}

	stored, err := chatrequests.New(db).GetByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != models.RequestApproved {
		t.Errorf("status: got %q, want %q", stored.Status, models.RequestApproved)
	}

	// A second approve finds the request already resolved and stays quiet.
	dispatch(t, s, graceConn, EventChatApprove, map[string]string{"requestId": req.ID.Hex()})
	assertNone(t, adaConn)
	assertNone(t, graceConn)
}

func TestApproveByNonRecipientFails(t *testing.T) {
	s, hub, fixtures, db := newTestSession(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	grace := fixtures.CreateUser(ctx, "Grace", "grace@example.com")
	req := fixtures.CreateChatRequest(ctx, ada.ID, grace.ID, models.RequestPending)

	adaConn := newTestClient(testutil.Principal(ada))
	hub.Register(adaConn)

	dispatch(t, s, adaConn, EventChatApprove, map[string]string{"requestId": req.ID.Hex()})

	ev := recv(t, adaConn)
	if ev.Event != EventChatError {
		t.Fatalf("got %q, want %q", ev.Event, EventChatError)
	}

	stored, err := chatrequests.New(db).GetByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != models.RequestPending {
		t.Errorf("status changed to %q", stored.Status)
	}
}

func TestResolveMissingRequestIsSilent(t *testing.T) {
	s, hub, fixtures, _ := newTestSession(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	adaConn := newTestClient(testutil.Principal(ada))
	hub.Register(adaConn)

	// Approving or rejecting a request id that was never issued is
	// dropped without any outbound event.
	unknown := primitive.NewObjectID().Hex()
	dispatch(t, s, adaConn, EventChatApprove, map[string]string{"requestId": unknown})
	assertNone(t, adaConn)

	dispatch(t, s, adaConn, EventChatReject, map[string]string{"requestId": unknown})
	assertNone(t, adaConn)
}

func TestRejectNotifiesRequester(t *testing.T) {
	s, hub, fixtures, db := newTestSession(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	grace := fixtures.CreateUser(ctx, "Grace", "grace@example.com")
	req := fixtures.CreateChatRequest(ctx, ada.ID, grace.ID, models.RequestPending)

	adaConn := newTestClient(testutil.Principal(ada))
	graceConn := newTestClient(testutil.Principal(grace))
	hub.Register(adaConn)
	hub.Register(graceConn)

	dispatch(t, s, graceConn, EventChatReject, map[string]string{"requestId": req.ID.Hex()})

	ev := recv(t, adaConn)
	if ev.Event != EventChatRejected {
		t.Fatalf("got %q, want %q", ev.Event, EventChatRejected)
	}
	if hub.InRoom(adaConn, DeriveRoomID(ada.ID, grace.ID)) {
		t.Error("rejected request still created a room")
	}

	stored, err := chatrequests.New(db).GetByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != models.RequestRejected {
		t.Errorf("status: got %q, want %q", stored.Status, models.RequestRejected)
	}
}

func TestChatMessageRequiresRoomMembership(t *testing.T) {
	s, hub, fixtures, db := newTestSession(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	grace := fixtures.CreateUser(ctx, "Grace", "grace@example.com")
	room := DeriveRoomID(ada.ID, grace.ID)

	adaConn := newTestClient(testutil.Principal(ada))
	graceConn := newTestClient(testutil.Principal(grace))
	hub.Register(adaConn)
	hub.Register(graceConn)

	dispatch(t, s, adaConn, EventChatMessage, map[string]string{"roomId": room, "message": "hi"})
	if ev := recv(t, adaConn); ev.Event != EventChatError {
		t.Fatalf("got %q, want %q", ev.Event, EventChatError)
	}

	msgs, err := chatmessages.New(db).ListByRoom(ctx, room, 0)
	if err != nil {
		t.Fatalf("ListByRoom: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("message stored despite rejection")
	}

	hub.Join(adaConn, room)
	hub.Join(graceConn, room)

	dispatch(t, s, adaConn, EventChatMessage, map[string]string{"roomId": room, "message": "hi"})
	if ev := recv(t, graceConn); ev.Event != EventChatMessage {
		t.Fatalf("got %q, want %q", ev.Event, EventChatMessage)
	}
	recv(t, adaConn)

	msgs, err = chatmessages.New(db).ListByRoom(ctx, room, 0)
	if err != nil {
		t.Fatalf("ListByRoom: %v", err)
	}
	if len(msgs) != 1 || msgs[0].SenderID != ada.ID {
		t.Errorf("stored messages: got %d", len(msgs))
	}
}

func TestGroupMessageAccessControl(t *testing.T) {
	s, hub, fixtures, db := newTestSession(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	grace := fixtures.CreateUser(ctx, "Grace", "grace@example.com")
	group := fixtures.CreateGroup(ctx, "Research", ada.ID)

	adaConn := newTestClient(testutil.Principal(ada))
	graceConn := newTestClient(testutil.Principal(grace))
	hub.Register(adaConn)
	hub.Register(graceConn)

	dispatch(t, s, graceConn, EventGroupJoin, map[string]string{"groupId": group.ID.Hex()})
	if ev := recv(t, graceConn); ev.Event != EventGroupError {
		t.Fatalf("got %q, want %q", ev.Event, EventGroupError)
	}

	dispatch(t, s, adaConn, EventGroupJoin, map[string]string{"groupId": group.ID.Hex()})
	if !hub.InRoom(adaConn, group.ID.Hex()) {
		t.Fatal("member not joined to group room")
	}

	dispatch(t, s, graceConn, EventGroupMessage, map[string]string{
		"groupId": group.ID.Hex(),
		"message": "let me in",
	})
	if ev := recv(t, graceConn); ev.Event != EventGroupError {
		t.Fatalf("got %q, want %q", ev.Event, EventGroupError)
	}

	dispatch(t, s, adaConn, EventGroupMessage, map[string]string{
		"groupId": group.ID.Hex(),
		"message": "hello group",
	})
	if ev := recv(t, adaConn); ev.Event != EventGroupMessage {
		t.Fatalf("got %q, want %q", ev.Event, EventGroupMessage)
	}

	msgs, err := chatmessages.New(db).ListByGroup(ctx, group.ID, 0)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if len(msgs) != 1 {
		t.Errorf("stored group messages: got %d, want 1", len(msgs))
	}
}

func TestShareNoteOnlyOwnNotes(t *testing.T) {
	s, hub, fixtures, _ := newTestSession(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	grace := fixtures.CreateUser(ctx, "Grace", "grace@example.com")
	note := fixtures.CreateNote(ctx, ada.ID, "Plans", "body")
	room := DeriveRoomID(ada.ID, grace.ID)

	adaConn := newTestClient(testutil.Principal(ada))
	graceConn := newTestClient(testutil.Principal(grace))
	hub.Register(adaConn)
	hub.Register(graceConn)
	hub.Join(adaConn, room)
	hub.Join(graceConn, room)

	// Sharing someone else's note looks like a missing note.
	dispatch(t, s, graceConn, EventShareNote, map[string]string{
		"roomId": room,
		"noteId": note.ID.Hex(),
	})
	if ev := recv(t, graceConn); ev.Event != EventChatError {
		t.Fatalf("got %q, want %q", ev.Event, EventChatError)
	}

	dispatch(t, s, adaConn, EventShareNote, map[string]string{
		"roomId": room,
		"noteId": note.ID.Hex(),
	})
	if ev := recv(t, graceConn); ev.Event != EventSharedNote {
		t.Fatalf("got %q, want %q", ev.Event, EventSharedNote)
	}
	recv(t, adaConn)
}

func TestDispatchUnknownEvent(t *testing.T) {
	s, hub, fixtures, _ := newTestSession(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	adaConn := newTestClient(testutil.Principal(ada))
	hub.Register(adaConn)

	dispatch(t, s, adaConn, "chat:teleport", nil)
	if ev := recv(t, adaConn); ev.Event != EventChatError {
		t.Fatalf("got %q, want %q", ev.Event, EventChatError)
	}
}
