// Package policy holds the role-based access decisions applied uniformly
// across lead and activity operations. Every function is a pure predicate:
// permission is reported as a boolean or a scope value, and the caller
// decides how a denial maps to an HTTP failure.
package policy

import (
	"github.com/google/uuid"

	"github.com/leadhub/lead-tracker/internal/core/domain"
)

// Scope describes the subset of leads a user may see. When All is true the
// user is unrestricted; otherwise only leads assigned to or created by
// UserID are visible. The storage layer translates a Scope into a WHERE
// clause.
type Scope struct {
	All    bool
	UserID uuid.UUID
}

// VisibilityScope returns the lead visibility scope for u. Managers and
// admins see everything; sales executives see leads they are assigned to
// or created.
func VisibilityScope(u *domain.User) Scope {
	if u.Role == domain.RoleAdmin || u.Role == domain.RoleManager {
		return Scope{All: true}
	}
	return Scope{UserID: u.ID}
}

// Covers reports whether a lead falls inside the scope.
func (s Scope) Covers(lead *domain.Lead) bool {
	if s.All {
		return true
	}
	if lead.AssignedTo != nil && *lead.AssignedTo == s.UserID {
		return true
	}
	return lead.CreatedBy == s.UserID
}

// CanMutateLead reports whether u may read, update, or attach activities
// to the given lead. Managers and admins always may; a sales executive
// only when assigned to the lead or its creator.
func CanMutateLead(u *domain.User, lead *domain.Lead) bool {
	switch u.Role {
	case domain.RoleAdmin, domain.RoleManager:
		return true
	case domain.RoleSalesExecutive:
		if lead.AssignedTo != nil && *lead.AssignedTo == u.ID {
			return true
		}
		return lead.CreatedBy == u.ID
	}
	return false
}

// CanDeleteLead reports whether u may delete leads at all. This is checked
// before any fetch and does not depend on ownership.
func CanDeleteLead(u *domain.User) bool {
	return u.Role == domain.RoleAdmin || u.Role == domain.RoleManager
}

// CanMutateActivity reports whether u may update or delete an activity.
// Only the activity's own author or an admin may: author-based, not
// assignment-based, so a manager cannot edit someone else's entry.
func CanMutateActivity(u *domain.User, a *domain.Activity) bool {
	if u.Role == domain.RoleAdmin {
		return true
	}
	return a.UserID == u.ID
}
