package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/leadhub/lead-tracker/internal/core/domain"
	"github.com/leadhub/lead-tracker/internal/core/policy"
	"github.com/leadhub/lead-tracker/internal/core/ports"
)

// ActivityService orchestrates user-authored activities. Mutation rights
// are author-or-admin, a narrower rule than the lead policy.
type ActivityService struct {
	activities  ports.ActivityRepository
	leads       ports.LeadRepository
	users       ports.UserRepository
	notify      ports.NotificationDispatcher
	broadcaster ports.Broadcaster
	logger      zerolog.Logger
}

func NewActivityService(
	activities ports.ActivityRepository,
	leads ports.LeadRepository,
	users ports.UserRepository,
	notify ports.NotificationDispatcher,
	broadcaster ports.Broadcaster,
	logger zerolog.Logger,
) *ActivityService {
	return &ActivityService{
		activities:  activities,
		leads:       leads,
		users:       users,
		notify:      notify,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

func (s *ActivityService) Create(ctx context.Context, actor *domain.User, input ports.CreateActivityInput) (*domain.Activity, error) {
	if input.Title == "" {
		return nil, domain.NewValidationError("title", "is required")
	}
	if !input.Type.IsValid() {
		return nil, domain.NewValidationError("type", "is not a valid activity type")
	}

	lead, err := s.leads.FindByID(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}
	// Attaching an activity to a lead requires the lead mutation right.
	if !policy.CanMutateLead(actor, lead) {
		return nil, domain.ErrForbidden
	}

	metadata := input.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	now := time.Now().UTC()
	created, err := s.activities.Create(ctx, &domain.Activity{
		ID:          uuid.New(),
		Type:        input.Type,
		Title:       input.Title,
		Description: input.Description,
		LeadID:      lead.ID,
		UserID:      actor.ID,
		Metadata:    metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("lead_id", lead.ID.String()).Msg("failed to create activity")
		return nil, err
	}

	// Tell the assignee someone else touched their lead.
	if lead.AssignedTo != nil && *lead.AssignedTo != actor.ID {
		s.notifyUser(ctx, *lead.AssignedTo, lead,
			"New activity on lead "+lead.Name,
			"<p>"+actor.Name+" added a "+string(created.Type)+" activity to <strong>"+lead.Name+"</strong>: "+created.Title+"</p>")
	}

	s.publish(ctx, domain.EventActivityCreated, lead, created)
	return created, nil
}

func (s *ActivityService) Update(ctx context.Context, actor *domain.User, id uuid.UUID, input ports.UpdateActivityInput) (*domain.Activity, error) {
	if input.Type != nil && !input.Type.IsValid() {
		return nil, domain.NewValidationError("type", "is not a valid activity type")
	}
	if input.Title != nil && *input.Title == "" {
		return nil, domain.NewValidationError("title", "must not be empty")
	}

	activity, err := s.activities.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutateActivity(actor, activity) {
		return nil, domain.ErrForbidden
	}

	if input.Type != nil {
		activity.Type = *input.Type
	}
	if input.Title != nil {
		activity.Title = *input.Title
	}
	if input.Description.Present {
		if input.Description.Valid {
			v := input.Description.Value
			activity.Description = &v
		} else {
			activity.Description = nil
		}
	}
	if input.Metadata != nil {
		activity.Metadata = input.Metadata
	}
	activity.UpdatedAt = time.Now().UTC()

	updated, err := s.activities.Update(ctx, activity)
	if err != nil {
		s.logger.Error().Err(err).Str("activity_id", id.String()).Msg("failed to update activity")
		return nil, err
	}

	if lead, err := s.leads.FindByID(ctx, updated.LeadID); err == nil {
		s.publish(ctx, domain.EventActivityUpdated, lead, updated)
	}
	return updated, nil
}

func (s *ActivityService) Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	activity, err := s.activities.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanMutateActivity(actor, activity) {
		return domain.ErrForbidden
	}

	if err := s.activities.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("activity_id", id.String()).Msg("failed to delete activity")
		return err
	}

	if lead, err := s.leads.FindByID(ctx, activity.LeadID); err == nil {
		s.publish(ctx, domain.EventActivityDeleted, lead, map[string]any{"id": id})
	}
	return nil
}

func (s *ActivityService) ListByLead(ctx context.Context, actor *domain.User, leadID uuid.UUID) ([]domain.Activity, error) {
	lead, err := s.leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutateLead(actor, lead) {
		return nil, domain.ErrForbidden
	}
	return s.activities.ListByLead(ctx, leadID)
}

func (s *ActivityService) notifyUser(ctx context.Context, userID uuid.UUID, lead *domain.Lead, subject, body string) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("skipping notification: user lookup failed")
		return
	}
	s.notify.Enqueue(ports.NotificationJob{
		LeadID:  lead.ID,
		To:      user.Email,
		Subject: subject,
		Body:    body,
	})
}

func (s *ActivityService) publish(ctx context.Context, typ domain.EventType, lead *domain.Lead, payload any) {
	if err := s.broadcaster.Publish(ctx, domain.Event{
		Type:    typ,
		LeadID:  lead.ID,
		Rooms:   leadRooms(lead),
		Payload: payload,
	}); err != nil {
		s.logger.Warn().Err(err).Str("event", string(typ)).Msg("broadcast failed")
	}
}
