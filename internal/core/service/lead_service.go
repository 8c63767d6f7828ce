package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/leadhub/lead-tracker/internal/core/domain"
	"github.com/leadhub/lead-tracker/internal/core/policy"
	"github.com/leadhub/lead-tracker/internal/core/ports"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// LeadService orchestrates the lead mutation pipeline:
// validate → fetch → authorize → persist → derive side effects → broadcast.
// Audit, notification, and broadcast failures never fail the mutation.
type LeadService struct {
	leads       ports.LeadRepository
	activities  ports.ActivityRepository
	users       ports.UserRepository
	notify      ports.NotificationDispatcher
	broadcaster ports.Broadcaster
	logger      zerolog.Logger
}

func NewLeadService(
	leads ports.LeadRepository,
	activities ports.ActivityRepository,
	users ports.UserRepository,
	notify ports.NotificationDispatcher,
	broadcaster ports.Broadcaster,
	logger zerolog.Logger,
) *LeadService {
	return &LeadService{
		leads:       leads,
		activities:  activities,
		users:       users,
		notify:      notify,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

func (s *LeadService) Create(ctx context.Context, actor *domain.User, input ports.CreateLeadInput) (*domain.Lead, error) {
	if input.Name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	if input.Email == "" {
		return nil, domain.NewValidationError("email", "is required")
	}
	status := input.Status
	if status == "" {
		status = domain.StatusNew
	}
	if !status.IsValid() {
		return nil, domain.NewValidationError("status", "is not a valid pipeline stage")
	}
	if input.EstimatedValue < 0 {
		return nil, domain.NewValidationError("estimated_value", "must not be negative")
	}

	assignedTo := input.AssignedTo
	if assignedTo == nil {
		id := actor.ID
		assignedTo = &id
	}

	now := time.Now().UTC()
	lead := &domain.Lead{
		ID:             uuid.New(),
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		Company:        input.Company,
		Status:         status,
		Source:         input.Source,
		EstimatedValue: input.EstimatedValue,
		AssignedTo:     assignedTo,
		CreatedBy:      actor.ID,
		Notes:          input.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.leads.Create(ctx, lead)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create lead")
		return nil, err
	}

	s.recordAudit(ctx, created, actor, domain.ActivityNote, domain.AuditTitleLeadCreated, nil)
	s.publish(ctx, domain.EventLeadCreated, created, created)

	s.logger.Info().
		Str("lead_id", created.ID.String()).
		Str("created_by", actor.ID.String()).
		Msg("lead created")

	return created, nil
}

func (s *LeadService) Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Lead, error) {
	lead, err := s.leads.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Authorization runs after the fetch; a denied caller gets 403, not
	// 404, so record existence is observable.
	if !policy.CanMutateLead(actor, lead) {
		return nil, domain.ErrForbidden
	}
	return lead, nil
}

func (s *LeadService) Update(ctx context.Context, actor *domain.User, id uuid.UUID, input ports.UpdateLeadInput) (*domain.Lead, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, domain.NewValidationError("status", "is not a valid pipeline stage")
	}
	if input.Name != nil && *input.Name == "" {
		return nil, domain.NewValidationError("name", "must not be empty")
	}
	if input.Email != nil && *input.Email == "" {
		return nil, domain.NewValidationError("email", "must not be empty")
	}
	if input.EstimatedValue != nil && *input.EstimatedValue < 0 {
		return nil, domain.NewValidationError("estimated_value", "must not be negative")
	}

	lead, err := s.leads.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutateLead(actor, lead) {
		return nil, domain.ErrForbidden
	}

	oldStatus := lead.Status
	oldAssignee := lead.AssignedTo

	applyLeadPatch(lead, input)
	lead.UpdatedAt = time.Now().UTC()

	updated, err := s.leads.Update(ctx, lead)
	if err != nil {
		s.logger.Error().Err(err).Str("lead_id", id.String()).Msg("failed to update lead")
		return nil, err
	}

	if updated.Status != oldStatus {
		s.recordAudit(ctx, updated, actor, domain.ActivityStatusChange, domain.AuditTitleStatusChanged, map[string]any{
			"oldStatus": string(oldStatus),
			"newStatus": string(updated.Status),
		})
		s.notifyAssignee(ctx, updated, fmt.Sprintf("Lead %q moved to %s", updated.Name, updated.Status),
			fmt.Sprintf("<p>The lead <strong>%s</strong> changed status from %s to %s.</p>", updated.Name, oldStatus, updated.Status))
	}

	if !uuidPtrEqual(oldAssignee, updated.AssignedTo) {
		s.recordAudit(ctx, updated, actor, domain.ActivityNote, domain.AuditTitleLeadReassigned, nil)
		s.notifyAssignee(ctx, updated, fmt.Sprintf("Lead %q assigned to you", updated.Name),
			fmt.Sprintf("<p>The lead <strong>%s</strong> has been assigned to you.</p>", updated.Name))
	}

	s.publish(ctx, domain.EventLeadUpdated, updated, updated)
	return updated, nil
}

func (s *LeadService) Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	// Delete permission is role-only and checked before the fetch.
	if !policy.CanDeleteLead(actor) {
		return domain.ErrForbidden
	}

	lead, err := s.leads.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// Activities cascade at the storage level.
	if err := s.leads.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("lead_id", id.String()).Msg("failed to delete lead")
		return err
	}

	s.publish(ctx, domain.EventLeadDeleted, lead, map[string]any{"id": id})
	s.logger.Info().Str("lead_id", id.String()).Str("deleted_by", actor.ID.String()).Msg("lead deleted")
	return nil
}

func (s *LeadService) List(ctx context.Context, actor *domain.User, filter ports.ListLeadsFilter) (*ports.ListLeadsResult, error) {
	filter.Scope = policy.VisibilityScope(actor)

	// Clamp pathological paging values instead of rejecting them.
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	items, total, err := s.leads.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list leads")
		return nil, err
	}

	return &ports.ListLeadsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// recordAudit writes one system-generated activity. Failures are logged
// and swallowed: the lead mutation has already been committed and the
// audit write is not transactional with it.
func (s *LeadService) recordAudit(ctx context.Context, lead *domain.Lead, actor *domain.User, typ domain.ActivityType, title string, metadata map[string]any) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	now := time.Now().UTC()
	_, err := s.activities.Create(ctx, &domain.Activity{
		ID:        uuid.New(),
		Type:      typ,
		Title:     title,
		LeadID:    lead.ID,
		UserID:    actor.ID,
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("lead_id", lead.ID.String()).Str("title", title).Msg("failed to record audit activity")
	}
}

// notifyAssignee enqueues a best-effort email to the lead's current
// assignee, if any. A missing or unloadable assignee is logged and
// skipped; the mutation result is unaffected.
func (s *LeadService) notifyAssignee(ctx context.Context, lead *domain.Lead, subject, body string) {
	if lead.AssignedTo == nil {
		return
	}
	assignee, err := s.users.FindByID(ctx, *lead.AssignedTo)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", lead.AssignedTo.String()).Msg("skipping notification: assignee lookup failed")
		return
	}
	s.notify.Enqueue(ports.NotificationJob{
		LeadID:  lead.ID,
		To:      assignee.Email,
		Subject: subject,
		Body:    body,
	})
}

// publish broadcasts one event to the rooms interested in the lead.
// Fire-and-forget: failures are logged and never affect the response.
func (s *LeadService) publish(ctx context.Context, typ domain.EventType, lead *domain.Lead, payload any) {
	if err := s.broadcaster.Publish(ctx, domain.Event{
		Type:    typ,
		LeadID:  lead.ID,
		Rooms:   leadRooms(lead),
		Payload: payload,
	}); err != nil {
		s.logger.Warn().Err(err).Str("event", string(typ)).Msg("broadcast failed")
	}
}

// leadRooms lists the subscription groups an event about lead fans out to:
// both unrestricted roles, the lead's own room, and the users who can see
// it under the executive scope.
func leadRooms(lead *domain.Lead) []string {
	rooms := []string{
		domain.RoomRole(domain.RoleAdmin),
		domain.RoomRole(domain.RoleManager),
		domain.RoomLead(lead.ID),
		domain.RoomUser(lead.CreatedBy),
	}
	if lead.AssignedTo != nil && *lead.AssignedTo != lead.CreatedBy {
		rooms = append(rooms, domain.RoomUser(*lead.AssignedTo))
	}
	return rooms
}

// applyLeadPatch mutates lead in place. Nil pointers leave fields
// untouched; Nullable fields distinguish "absent" from "explicit null",
// where null clears the stored value.
func applyLeadPatch(lead *domain.Lead, in ports.UpdateLeadInput) {
	if in.Name != nil {
		lead.Name = *in.Name
	}
	if in.Email != nil {
		lead.Email = *in.Email
	}
	if in.Status != nil {
		lead.Status = *in.Status
	}
	if in.EstimatedValue != nil {
		lead.EstimatedValue = *in.EstimatedValue
	}
	if in.Phone.Present {
		lead.Phone = nullableString(in.Phone)
	}
	if in.Company.Present {
		lead.Company = nullableString(in.Company)
	}
	if in.Source.Present {
		lead.Source = nullableString(in.Source)
	}
	if in.Notes.Present {
		lead.Notes = nullableString(in.Notes)
	}
	if in.AssignedTo.Present {
		if in.AssignedTo.Valid {
			id := in.AssignedTo.Value
			lead.AssignedTo = &id
		} else {
			lead.AssignedTo = nil
		}
	}
}

func nullableString(n ports.Nullable[string]) *string {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
