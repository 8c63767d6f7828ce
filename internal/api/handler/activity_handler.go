package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/leadhub/lead-tracker/internal/api/metrics"
	"github.com/leadhub/lead-tracker/internal/core/domain"
	"github.com/leadhub/lead-tracker/internal/core/ports"
)

// ActivityHandler handles HTTP requests for activity operations.
type ActivityHandler struct {
	service ports.ActivityService
}

func NewActivityHandler(service ports.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

type createActivityRequest struct {
	Type        string         `json:"type" validate:"required,oneof=note call meeting email status_change"`
	Title       string         `json:"title" validate:"required"`
	Description *string        `json:"description"`
	LeadID      uuid.UUID      `json:"lead_id" validate:"required"`
	Metadata    map[string]any `json:"metadata"`
}

type updateActivityRequest struct {
	Type        *string          `json:"type" validate:"omitempty,oneof=note call meeting email status_change"`
	Title       *string          `json:"title"`
	Description Optional[string] `json:"description"`
	Metadata    map[string]any   `json:"metadata"`
}

// Create handles POST /v1/activities.
//
// @Summary      Record an activity on a lead
// @Tags         activities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createActivityRequest  true  "Activity details"
// @Success      201   {object}  domain.Activity
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /v1/activities [post]
func (h *ActivityHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createActivityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	activity, err := h.service.Create(c.Request().Context(), actor, ports.CreateActivityInput{
		Type:        domain.ActivityType(req.Type),
		Title:       req.Title,
		Description: req.Description,
		LeadID:      req.LeadID,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return err
	}

	metrics.ActivitiesCreatedTotal.WithLabelValues(string(activity.Type)).Inc()
	return respond(c, http.StatusCreated, activity)
}

// Update handles PATCH /v1/activities/:id.
//
// @Summary      Update an activity
// @Tags         activities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Activity id"
// @Param        body  body      updateActivityRequest  true  "Fields to change"
// @Success      200   {object}  domain.Activity
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /v1/activities/{id} [patch]
func (h *ActivityHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateActivityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := ports.UpdateActivityInput{
		Title:       req.Title,
		Description: req.Description.Nullable(),
		Metadata:    req.Metadata,
	}
	if req.Type != nil {
		t := domain.ActivityType(*req.Type)
		input.Type = &t
	}

	activity, err := h.service.Update(c.Request().Context(), actor, id, input)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, activity)
}

// Delete handles DELETE /v1/activities/:id.
//
// @Summary      Delete an activity
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Activity id"
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /v1/activities/{id} [delete]
func (h *ActivityHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "activity deleted")
}

// ListByLead handles GET /v1/leads/:id/activities.
//
// @Summary      List the activities of a lead
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Lead id"
// @Success      200  {array}   domain.Activity
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /v1/leads/{id}/activities [get]
func (h *ActivityHandler) ListByLead(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	leadID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	activities, err := h.service.ListByLead(c.Request().Context(), actor, leadID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, activities)
}
