package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ActivityType classifies an activity entry on a lead.
type ActivityType string

const (
	ActivityNote         ActivityType = "note"
	ActivityCall         ActivityType = "call"
	ActivityMeeting      ActivityType = "meeting"
	ActivityEmail        ActivityType = "email"
	ActivityStatusChange ActivityType = "status_change"
)

// ActivityTypes lists every valid activity type.
var ActivityTypes = []ActivityType{
	ActivityNote, ActivityCall, ActivityMeeting, ActivityEmail, ActivityStatusChange,
}

var ErrActivityNotFound = errors.New("activity not found")

// IsValid reports whether t is one of the known activity types.
func (t ActivityType) IsValid() bool {
	for _, v := range ActivityTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Titles of the audit activities the mutation pipeline emits.
const (
	AuditTitleLeadCreated    = "Lead Created"
	AuditTitleLeadReassigned = "Lead Reassigned"
	AuditTitleStatusChanged  = "Status Changed"
)

// Activity is a timestamped note or event attached to a lead: either
// authored explicitly by a user, or emitted by the mutation pipeline as
// an audit trail entry. Activities are deleted in cascade with their lead.
type Activity struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	Type        ActivityType   `json:"type" db:"type"`
	Title       string         `json:"title" db:"title"`
	Description *string        `json:"description,omitempty" db:"description"`
	LeadID      uuid.UUID      `json:"lead_id" db:"lead_id"`
	UserID      uuid.UUID      `json:"user_id" db:"user_id"`
	Metadata    map[string]any `json:"metadata" db:"metadata"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}
