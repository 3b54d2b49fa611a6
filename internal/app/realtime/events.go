// internal/app/realtime/events.go

package realtime

import "encoding/json"

// Inbound events, sent by clients.
const (
	EventChatRequest  = "chat:request"
	EventChatApprove  = "chat:approve"
	EventChatReject   = "chat:reject"
	EventChatMessage  = "chat:message"
	EventGroupJoin    = "group:join"
	EventGroupMessage = "group:message"
	EventShareNote    = "chat:share-note"
)

// Outbound events, sent by the server.
const (
	EventChatRequestReceived = "chat:request-received"
	EventChatApproved        = "chat:approved"
	EventChatRejected        = "chat:rejected"
	EventChatError           = "chat:error"
	EventGroupError          = "group:error"
	EventSharedNote          = "chat:shared-note"
)

// Envelope is the wire frame for every websocket message, in both
// directions. Data is event-specific.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// outbound pairs an event with an already-marshalable payload.
type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}
