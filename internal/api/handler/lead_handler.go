package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadhub/lead-tracker/internal/api/metrics"
	"github.com/leadhub/lead-tracker/internal/core/ports"
)

// LeadHandler handles HTTP requests for lead operations.
type LeadHandler struct {
	service ports.LeadService
}

func NewLeadHandler(service ports.LeadService) *LeadHandler {
	return &LeadHandler{service: service}
}

// Create handles POST /v1/leads.
//
// @Summary      Create a lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createLeadRequest  true  "Lead details"
// @Success      201   {object}  domain.Lead
// @Failure      400   {object}  map[string]any
// @Router       /v1/leads [post]
func (h *LeadHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createLeadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	lead, err := h.service.Create(c.Request().Context(), actor, toCreateLeadInput(req))
	if err != nil {
		return err
	}

	source := "unknown"
	if lead.Source != nil {
		source = *lead.Source
	}
	metrics.LeadsCreatedTotal.WithLabelValues(source).Inc()

	return respond(c, http.StatusCreated, lead)
}

// Get handles GET /v1/leads/:id.
//
// @Summary      Get a lead
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Lead id"
// @Success      200  {object}  domain.Lead
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /v1/leads/{id} [get]
func (h *LeadHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	lead, err := h.service.Get(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, lead)
}

// Update handles PATCH /v1/leads/:id.
//
// @Summary      Update a lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Lead id"
// @Param        body  body      updateLeadRequest  true  "Fields to change"
// @Success      200   {object}  domain.Lead
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /v1/leads/{id} [patch]
func (h *LeadHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateLeadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	lead, err := h.service.Update(c.Request().Context(), actor, id, toUpdateLeadInput(req))
	if err != nil {
		return err
	}

	if req.Status != nil {
		metrics.LeadStatusChangesTotal.WithLabelValues(string(lead.Status)).Inc()
	}
	return respond(c, http.StatusOK, lead)
}

// Delete handles DELETE /v1/leads/:id.
//
// @Summary      Delete a lead and its activities
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Lead id"
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /v1/leads/{id} [delete]
func (h *LeadHandler) Delete(c echo.Context) error {
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
	return respondMessage(c, http.StatusOK, "lead deleted")
}

// List handles GET /v1/leads.
//
// @Summary      List leads
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        status       query     string  false  "Filter by pipeline status"
// @Param        assigned_to  query     string  false  "Filter by assignee id"
// @Param        search       query     string  false  "Match on name, email, or company"
// @Param        sort_by      query     string  false  "Sort column (default created_at)"
// @Param        sort_order   query     string  false  "asc or desc (default desc)"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Page size (default 10, max 100)"
// @Success      200  {object}  leadListResponse
// @Router       /v1/leads [get]
func (h *LeadHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req listLeadsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.service.List(c.Request().Context(), actor, toListLeadsFilter(req))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, leadListResponse{
		Items:      result.Items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}
