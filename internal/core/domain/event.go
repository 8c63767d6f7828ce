package domain

import "github.com/google/uuid"

// EventType names a broadcast topic published after each mutation.
type EventType string

const (
	EventLeadCreated     EventType = "lead:created"
	EventLeadUpdated     EventType = "lead:updated"
	EventLeadDeleted     EventType = "lead:deleted"
	EventActivityCreated EventType = "activity:created"
	EventActivityUpdated EventType = "activity:updated"
	EventActivityDeleted EventType = "activity:deleted"
)

// Event is the payload pushed to connected subscribers. Rooms carries the
// subscription groups the event fans out to (user:<id>, role:<name>,
// lead:<id>). Payload is the fully hydrated record, or the bare id for
// deletes. Delivery is fire-and-forget; there is no replay.
type Event struct {
	Type    EventType `json:"type"`
	LeadID  uuid.UUID `json:"lead_id"`
	Rooms   []string  `json:"rooms"`
	Payload any       `json:"payload"`
}

// Room name helpers shared by the publisher and the websocket hub.

func RoomUser(id uuid.UUID) string { return "user:" + id.String() }
func RoomRole(r Role) string       { return "role:" + string(r) }
func RoomLead(id uuid.UUID) string { return "lead:" + id.String() }
