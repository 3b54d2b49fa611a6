// internal/app/realtime/chat.go

package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/noteflow/noteflow/internal/app/store/chatmessages"
	"github.com/noteflow/noteflow/internal/app/store/chatrequests"
	groupstore "github.com/noteflow/noteflow/internal/app/store/groups"
	notestore "github.com/noteflow/noteflow/internal/app/store/notes"
	userstore "github.com/noteflow/noteflow/internal/app/store/users"
	"github.com/noteflow/noteflow/internal/app/system/sanitize"
	"github.com/noteflow/noteflow/internal/app/system/timeouts"
	"github.com/noteflow/noteflow/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Session dispatches inbound chat events against the stores and the
// hub. One Session serves all connections.
type Session struct {
	hub      *Hub
	users    *userstore.Store
	requests *chatrequests.Store
	messages *chatmessages.Store
	groups   *groupstore.Store
	notes    *notestore.Store
	log      *zap.Logger
}

// NewSession builds the shared chat dispatcher.
func NewSession(hub *Hub, db *mongo.Database, logger *zap.Logger) *Session {
	return &Session{
		hub:      hub,
		users:    userstore.New(db),
		requests: chatrequests.New(db),
		messages: chatmessages.New(db),
		groups:   groupstore.New(db),
		notes:    notestore.New(db),
		log:      logger,
	}
}

// Dispatch routes one inbound envelope. Unknown events get a chat:error
// back instead of closing the connection.
func (s *Session) Dispatch(c *Client, env Envelope) {
	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Medium(), s.log, "chat:"+env.Event)
	defer cancel()

	switch env.Event {
	case EventChatRequest:
		s.handleChatRequest(ctx, c, env.Data)
	case EventChatApprove:
		s.handleApprove(ctx, c, env.Data)
	case EventChatReject:
		s.handleReject(ctx, c, env.Data)
	case EventChatMessage:
		s.handleChatMessage(ctx, c, env.Data)
	case EventGroupJoin:
		s.handleGroupJoin(ctx, c, env.Data)
	case EventGroupMessage:
		s.handleGroupMessage(ctx, c, env.Data)
	case EventShareNote:
		s.handleShareNote(ctx, c, env.Data)
	default:
		s.chatError(c, "unknown event")
	}
}

func (s *Session) chatError(c *Client, msg string) {
	c.enqueue(EventChatError, map[string]string{"message": msg})
}

func (s *Session) groupError(c *Client, msg string) {
	c.enqueue(EventGroupError, map[string]string{"message": msg})
}

// handleChatRequest records a pending request addressed by user name
// and pings the recipient's live connections.
func (s *Session) handleChatRequest(ctx context.Context, c *Client, data json.RawMessage) {
	var in struct {
		ToUsername string `json:"toUsername"`
	}
	if err := json.Unmarshal(data, &in); err != nil || in.ToUsername == "" {
		s.chatError(c, "recipient is required")
		return
	}

	target, err := s.users.GetByName(ctx, in.ToUsername)
	if err != nil {
		s.chatError(c, "user not found")
		return
	}
	if target.ID == c.principal.ID {
		s.chatError(c, "cannot request a chat with yourself")
		return
	}

	req, err := s.requests.Create(ctx, c.principal.ID, target.ID)
	if err != nil {
		s.log.Error("create chat request failed", zap.Error(err))
		s.chatError(c, "could not send request")
		return
	}

	s.hub.ToUser(target.ID, EventChatRequestReceived, map[string]string{
		"requestId": req.ID.Hex(),
		"from":      c.principal.ID.Hex(),
		"fromName":  c.principal.Name,
	})
}

// resolveOwnRequest parses a requestId and loads the request, checking
// that the caller is its recipient.
func (s *Session) resolveOwnRequest(ctx context.Context, c *Client, data json.RawMessage) (models.ChatRequest, bool) {
	var in struct {
		RequestID string `json:"requestId"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		s.chatError(c, "requestId is required")
		return models.ChatRequest{}, false
	}
	id, err := primitive.ObjectIDFromHex(in.RequestID)
	if err != nil {
		s.chatError(c, "invalid requestId")
		return models.ChatRequest{}, false
	}

	req, err := s.requests.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Resolving a request that does not exist is dropped without
		// a reply, same as resolving one that is no longer pending.
		return models.ChatRequest{}, false
	}
	if err != nil {
		s.log.Error("load chat request failed", zap.Error(err), zap.String("request", in.RequestID))
		s.chatError(c, "could not load request")
		return models.ChatRequest{}, false
	}
	if req.To != c.principal.ID {
		s.chatError(c, "request not found")
		return models.ChatRequest{}, false
	}
	return req, true
}

// handleApprove flips a pending request to approved, puts both users in
// the derived room, and tells them where it is. A request that is no
// longer pending is dropped silently, so double-clicking approve on two
// tabs resolves exactly once.
func (s *Session) handleApprove(ctx context.Context, c *Client, data json.RawMessage) {
	req, ok := s.resolveOwnRequest(ctx, c, data)
	if !ok {
		return
	}

	resolved, ok, err := s.requests.Resolve(ctx, req.ID, models.RequestApproved)
	if err != nil {
		s.log.Error("approve chat request failed", zap.Error(err), zap.String("request", req.ID.Hex()))
		s.chatError(c, "could not approve request")
		return
	}
	if !ok {
		return
	}

	room := DeriveRoomID(resolved.From, resolved.To)
	s.hub.JoinUser(resolved.From, room)
	s.hub.JoinUser(resolved.To, room)

	payload := map[string]string{"requestId": resolved.ID.Hex(), "roomId": room}
	s.hub.ToUser(resolved.From, EventChatApproved, payload)
	s.hub.ToUser(resolved.To, EventChatApproved, payload)
}

// handleReject flips a pending request to rejected and notifies the
// requester. Like approve, a non-pending request is a silent no-op.
func (s *Session) handleReject(ctx context.Context, c *Client, data json.RawMessage) {
	req, ok := s.resolveOwnRequest(ctx, c, data)
	if !ok {
		return
	}

	resolved, ok, err := s.requests.Resolve(ctx, req.ID, models.RequestRejected)
	if err != nil {
		s.log.Error("reject chat request failed", zap.Error(err), zap.String("request", req.ID.Hex()))
		s.chatError(c, "could not reject request")
		return
	}
	if !ok {
		return
	}

	s.hub.ToUser(resolved.From, EventChatRejected, map[string]string{
		"requestId": resolved.ID.Hex(),
	})
}

// handleChatMessage persists a 1:1 message and fans it out to the room.
// Senders must have joined the room through an approved request.
func (s *Session) handleChatMessage(ctx context.Context, c *Client, data json.RawMessage) {
	var in struct {
		RoomID  string `json:"roomId"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &in); err != nil || in.RoomID == "" {
		s.chatError(c, "roomId is required")
		return
	}
	if !s.hub.InRoom(c, in.RoomID) {
		s.chatError(c, "not a member of this room")
		return
	}
	msg := sanitize.Text(in.Message)
	if msg == "" {
		s.chatError(c, "message is empty")
		return
	}

	stored, err := s.messages.CreateRoomMessage(ctx, in.RoomID, c.principal.ID, msg)
	if err != nil {
		s.log.Error("store chat message failed", zap.Error(err), zap.String("room", in.RoomID))
		s.chatError(c, "could not send message")
		return
	}

	s.hub.ToRoom(in.RoomID, EventChatMessage, map[string]any{
		"roomId":     in.RoomID,
		"senderId":   c.principal.ID.Hex(),
		"senderName": c.principal.Name,
		"message":    stored.Message,
		"sentAt":     stored.CreatedAt.Format(time.RFC3339),
	})
}

// handleGroupJoin puts the connection into a group's room after a
// membership check against the groups collection.
func (s *Session) handleGroupJoin(ctx context.Context, c *Client, data json.RawMessage) {
	groupID, ok := s.memberGroup(ctx, c, data)
	if !ok {
		return
	}
	s.hub.Join(c, groupID.Hex())
}

// handleGroupMessage persists a group message and fans it out. The
// membership check runs on every send, so a user removed from the
// group loses access immediately even with the room still joined.
func (s *Session) handleGroupMessage(ctx context.Context, c *Client, data json.RawMessage) {
	var in struct {
		GroupID string `json:"groupId"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		s.groupError(c, "groupId is required")
		return
	}
	groupID, err := primitive.ObjectIDFromHex(in.GroupID)
	if err != nil {
		s.groupError(c, "invalid groupId")
		return
	}
	member, err := s.groups.IsMember(ctx, groupID, c.principal.ID)
	if err != nil {
		s.log.Error("group membership check failed", zap.Error(err), zap.String("group", in.GroupID))
		s.groupError(c, "could not send message")
		return
	}
	if !member {
		s.groupError(c, "access denied")
		return
	}
	msg := sanitize.Text(in.Message)
	if msg == "" {
		s.groupError(c, "message is empty")
		return
	}

	stored, err := s.messages.CreateGroupMessage(ctx, groupID, c.principal.ID, msg)
	if err != nil {
		s.log.Error("store group message failed", zap.Error(err), zap.String("group", in.GroupID))
		s.groupError(c, "could not send message")
		return
	}

	s.hub.ToRoom(groupID.Hex(), EventGroupMessage, map[string]any{
		"groupId":    in.GroupID,
		"senderId":   c.principal.ID.Hex(),
		"senderName": c.principal.Name,
		"message":    stored.Message,
		"sentAt":     stored.CreatedAt.Format(time.RFC3339),
	})
}

func (s *Session) memberGroup(ctx context.Context, c *Client, data json.RawMessage) (primitive.ObjectID, bool) {
	var in struct {
		GroupID string `json:"groupId"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		s.groupError(c, "groupId is required")
		return primitive.NilObjectID, false
	}
	groupID, err := primitive.ObjectIDFromHex(in.GroupID)
	if err != nil {
		s.groupError(c, "invalid groupId")
		return primitive.NilObjectID, false
	}
	member, err := s.groups.IsMember(ctx, groupID, c.principal.ID)
	if err != nil {
		s.log.Error("group membership check failed", zap.Error(err), zap.String("group", in.GroupID))
		s.groupError(c, "access denied")
		return primitive.NilObjectID, false
	}
	if !member {
		s.groupError(c, "access denied")
		return primitive.NilObjectID, false
	}
	return groupID, true
}

// handleShareNote pushes one of the sender's notes into a chat room the
// sender has joined. Notes the sender does not own look absent.
func (s *Session) handleShareNote(ctx context.Context, c *Client, data json.RawMessage) {
	var in struct {
		RoomID string `json:"roomId"`
		NoteID string `json:"noteId"`
	}
	if err := json.Unmarshal(data, &in); err != nil || in.RoomID == "" {
		s.chatError(c, "roomId and noteId are required")
		return
	}
	if !s.hub.InRoom(c, in.RoomID) {
		s.chatError(c, "not a member of this room")
		return
	}
	noteID, err := primitive.ObjectIDFromHex(in.NoteID)
	if err != nil {
		s.chatError(c, "invalid noteId")
		return
	}

	note, err := s.notes.GetOwned(ctx, noteID, c.principal.ID)
	if err != nil {
		s.chatError(c, "note not found")
		return
	}

	s.hub.ToRoom(in.RoomID, EventSharedNote, map[string]any{
		"roomId":   in.RoomID,
		"sharedBy": c.principal.Name,
		"note":     note,
	})
}
