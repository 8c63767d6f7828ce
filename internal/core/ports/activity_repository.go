package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/leadhub/lead-tracker/internal/core/domain"
)

// ActivityRepository defines persistence operations for activities.
type ActivityRepository interface {
	Create(ctx context.Context, a *domain.Activity) (*domain.Activity, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error)
	Update(ctx context.Context, a *domain.Activity) (*domain.Activity, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByLead returns the activities of one lead, newest first.
	ListByLead(ctx context.Context, leadID uuid.UUID) ([]domain.Activity, error)
	// ListRecent returns the limit most recently created activities. When
	// authorID is non-nil only that author's activities are returned.
	ListRecent(ctx context.Context, authorID *uuid.UUID, limit int) ([]domain.Activity, error)
}
