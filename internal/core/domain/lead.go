package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// LeadStatus represents the pipeline stage of a lead.
type LeadStatus string

const (
	StatusNew         LeadStatus = "new"
	StatusContacted   LeadStatus = "contacted"
	StatusQualified   LeadStatus = "qualified"
	StatusProposal    LeadStatus = "proposal"
	StatusNegotiation LeadStatus = "negotiation"
	StatusWon         LeadStatus = "won"
	StatusLost        LeadStatus = "lost"
)

// LeadStatuses lists every valid pipeline stage.
var LeadStatuses = []LeadStatus{
	StatusNew, StatusContacted, StatusQualified, StatusProposal,
	StatusNegotiation, StatusWon, StatusLost,
}

var ErrLeadNotFound = errors.New("lead not found")
var ErrForbidden = errors.New("access forbidden")

// IsValid reports whether s is one of the known pipeline stages.
func (s LeadStatus) IsValid() bool {
	for _, v := range LeadStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Lead is the core aggregate root: a sales prospect tracked through the
// status pipeline. CreatedBy is set once at creation and never changes.
// AssignedTo may be nil or reference any user; no integrity check is made
// against deactivated users.
type Lead struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Name           string     `json:"name" db:"name"`
	Email          string     `json:"email" db:"email"`
	Phone          *string    `json:"phone,omitempty" db:"phone"`
	Company        *string    `json:"company,omitempty" db:"company"`
	Status         LeadStatus `json:"status" db:"status"`
	Source         *string    `json:"source,omitempty" db:"source"`
	EstimatedValue float64    `json:"estimated_value" db:"estimated_value"`
	AssignedTo     *uuid.UUID `json:"assigned_to,omitempty" db:"assigned_to"`
	CreatedBy      uuid.UUID  `json:"created_by" db:"created_by"`
	Notes          *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
