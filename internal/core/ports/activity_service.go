package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/leadhub/lead-tracker/internal/core/domain"
)

// CreateActivityInput carries all data needed to record an activity on a
// lead. The author is always the acting user.
type CreateActivityInput struct {
	Type        domain.ActivityType
	Title       string
	Description *string
	LeadID      uuid.UUID
	Metadata    map[string]any
}

// UpdateActivityInput is a partial update of a user-authored activity.
type UpdateActivityInput struct {
	Type        *domain.ActivityType
	Title       *string
	Description Nullable[string]
	Metadata    map[string]any // nil leaves metadata untouched
}

// ActivityService defines the activity use-cases.
type ActivityService interface {
	Create(ctx context.Context, actor *domain.User, input CreateActivityInput) (*domain.Activity, error)
	Update(ctx context.Context, actor *domain.User, id uuid.UUID, input UpdateActivityInput) (*domain.Activity, error)
	Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error
	ListByLead(ctx context.Context, actor *domain.User, leadID uuid.UUID) ([]domain.Activity, error)
}
