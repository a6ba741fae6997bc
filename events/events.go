package events

import (
	"encoding/json"

	"github.com/bbyours/attendance-server/services/audit"
)

// Event defines a type that can yield itself as JSON bytes.
type Event interface {
	Yield() []byte
	EventAction() string
	IsSuccessful() bool
}

// GEM is the global event model. Every API transaction emits one to the
// event queue, carrying the audit record for that transaction.
type GEM struct {
	ID               string   `json:"event_id"`
	SchemaVersion    string   `json:"schema_version"`
	EventType        string   `json:"event_type"`
	SystemIP         string   `json:"system_ip"`
	XForwardedForIP  string   `json:"x_forwarded_for_ip,omitempty"`
	Timestamp        int64    `json:"timestamp"`
	Action           string   `json:"action"`
	OriginatorTokens []string `json:"originator_tokens,omitempty"`
	Payload          Payload  `json:"payload"`
}

// Payload carries the attendance specific portion of a GEM.
type Payload struct {
	Audit        audit.Event `json:"audit"`
	ObjectID     string      `json:"object_id,omitempty"`
	SessionID    string      `json:"session_id,omitempty"`
	UserID       string      `json:"user_id,omitempty"`
	ChangeToken  string      `json:"change_token,omitempty"`
	StreamUpdate bool        `json:"stream_update"`
}

// Yield satisfies the Event interface.
func (e GEM) Yield() []byte {
	b, _ := json.Marshal(e)
	return b
}

// EventAction satisfies the Event interface.
func (e GEM) EventAction() string {
	return e.Action
}

// IsSuccessful satisfies the Event interface.
func (e GEM) IsSuccessful() bool {
	return e.Payload.Audit.ActionResult == "SUCCESS"
}
