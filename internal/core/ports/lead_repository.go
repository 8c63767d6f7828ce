package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/leadhub/lead-tracker/internal/core/domain"
	"github.com/leadhub/lead-tracker/internal/core/policy"
)

// ListLeadsFilter carries all query parameters for listing leads. Scope is
// always enforced; the remaining filters are ANDed on top of it.
type ListLeadsFilter struct {
	Scope      policy.Scope
	Status     domain.LeadStatus // optional: filter by pipeline stage
	AssignedTo *uuid.UUID        // optional: filter by assignee
	Search     string            // optional: case-insensitive match on name, email, or company
	SortBy     string            // column name; unknown values fall back to created_at
	SortOrder  string            // ASC or DESC (default DESC)
	Page       int               // 1-based, clamped to >= 1
	Limit      int               // rows per page, clamped to >= 1 and capped at 100 by the service
}

// LeadRepository defines persistence operations for leads.
type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) (*domain.Lead, error)
	// FindByID retrieves a lead regardless of scope; authorization is the
	// caller's concern (policy is checked after the fetch).
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error)
	// Update persists all mutable columns of lead and returns the stored row.
	Update(ctx context.Context, lead *domain.Lead) (*domain.Lead, error)
	// Delete removes the lead; activities cascade at the storage level.
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns a page of leads matching filter and the pre-pagination
	// total count.
	List(ctx context.Context, filter ListLeadsFilter) ([]domain.Lead, int64, error)
}
