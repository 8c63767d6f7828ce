package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadhub/lead-tracker/internal/core/ports"
)

// StatsHandler handles HTTP requests for dashboard aggregations.
type StatsHandler struct {
	service ports.StatsService
}

func NewStatsHandler(service ports.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// Dashboard handles GET /v1/stats/dashboard.
//
// @Summary      Dashboard statistics over the caller's visible leads
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.DashboardStats
// @Router       /v1/stats/dashboard [get]
func (h *StatsHandler) Dashboard(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Dashboard(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, stats)
}

// Performance handles GET /v1/stats/performance.
//
// @Summary      Per-executive performance over assigned leads
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.UserPerformance
// @Failure      403  {object}  map[string]any
// @Router       /v1/stats/performance [get]
func (h *StatsHandler) Performance(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	rows, err := h.service.PerformanceByUser(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, rows)
}
