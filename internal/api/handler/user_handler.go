package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadhub/lead-tracker/internal/core/domain"
	"github.com/leadhub/lead-tracker/internal/core/ports"
)

// UserHandler exposes the user directory used to populate assignee
// pickers.
type UserHandler struct {
	users ports.UserRepository
}

func NewUserHandler(users ports.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

type listUsersRequest struct {
	Role string `query:"role" validate:"omitempty,oneof=admin manager sales_executive"`
}

// List handles GET /v1/users.
//
// @Summary      List active users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        role  query     string  false  "Restrict to one role"
// @Success      200   {array}   domain.User
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	if _, err := ctxActor(c); err != nil {
		return err
	}

	var req listUsersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	users, err := h.users.ListActive(c.Request().Context(), domain.Role(req.Role))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, users)
}

// Me handles GET /v1/users/me.
//
// @Summary      The authenticated user's own record
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Router       /v1/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, actor)
}
