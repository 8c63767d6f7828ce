package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/leadhub/lead-tracker/internal/core/domain"
)

// Nullable is a tri-state patch field. A field absent from the request has
// Present=false and leaves the stored value unchanged. A field present
// with an explicit null has Present=true, Valid=false and clears the
// stored value. Otherwise Value applies.
type Nullable[T any] struct {
	Present bool
	Valid   bool
	Value   T
}

// Set returns a Nullable carrying v.
func Set[T any](v T) Nullable[T] { return Nullable[T]{Present: true, Valid: true, Value: v} }

// Clear returns a Nullable that erases the stored value.
func Clear[T any]() Nullable[T] { return Nullable[T]{Present: true} }

// CreateLeadInput carries all data needed to create a lead. AssignedTo nil
// defaults to the creating user.
type CreateLeadInput struct {
	Name           string
	Email          string
	Phone          *string
	Company        *string
	Status         domain.LeadStatus // empty defaults to "new"
	Source         *string
	EstimatedValue float64
	AssignedTo     *uuid.UUID
	Notes          *string
}

// UpdateLeadInput is a partial update: nil pointer fields are untouched,
// Nullable fields distinguish absent from explicit null.
type UpdateLeadInput struct {
	Name           *string
	Email          *string
	Status         *domain.LeadStatus
	EstimatedValue *float64
	Phone          Nullable[string]
	Company        Nullable[string]
	Source         Nullable[string]
	Notes          Nullable[string]
	AssignedTo     Nullable[uuid.UUID]
}

// ListLeadsResult is returned by List.
type ListLeadsResult struct {
	Items      []domain.Lead
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// LeadService defines the lead use-cases. Every method receives the acting
// user so the access policy can be applied.
type LeadService interface {
	Create(ctx context.Context, actor *domain.User, input CreateLeadInput) (*domain.Lead, error)
	Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Lead, error)
	Update(ctx context.Context, actor *domain.User, id uuid.UUID, input UpdateLeadInput) (*domain.Lead, error)
	Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error
	List(ctx context.Context, actor *domain.User, filter ListLeadsFilter) (*ListLeadsResult, error)
}
