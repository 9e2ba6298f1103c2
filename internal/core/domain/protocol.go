package domain

import "encoding/json"

// Inbound message types accepted on the realtime channel.
const (
	TypeDrawStart     = "draw:start"
	TypeDrawMove      = "draw:move"
	TypeDrawEnd       = "draw:end"
	TypeDrawingUpdate = "drawing:update"
	TypeUserActive    = "user:active"
	TypeUserInactive  = "user:inactive"
)

// TypeUsersStatus is the outbound full-roster presence refresh. Its value is
// always the complete current snapshot, never a delta, so a client that
// misses one broadcast self-heals on the next.
const TypeUsersStatus = "users_status"

// InboundMessage is the envelope clients send: {"type": "...", "payload": ...}.
// The payload is kept raw so drawing events can be rebroadcast verbatim.
type InboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// OutboundMessage is the envelope the server sends. It is serialized exactly
// once per broadcast and the same bytes go to every recipient.
type OutboundMessage struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// DrawingPayload documents the shape clients use for drawing:update events.
// The server does not depend on these fields; drawing payloads pass through
// untouched.
type DrawingPayload struct {
	Points          [][]float64 `json:"points"`
	Area            float64     `json:"area"`
	Color           string      `json:"color"`
	UserDisplayName string      `json:"userDisplayName"`
}

// AuditEvent is the wire form published to the audit stream.
type AuditEvent struct {
	UserID     string `json:"user_id"`
	Action     string `json:"action"`
	Metadata   string `json:"metadata,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
