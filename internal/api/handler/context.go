package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/leadhub/lead-tracker/internal/core/domain"
)

// actorKey is the context key the Auth middleware stores the resolved
// user under.
const actorKey = "actor"

// SetActor stores the authenticated user on the request context.
func SetActor(c echo.Context, user *domain.User) {
	c.Set(actorKey, user)
}

// Actor returns the authenticated user, or nil when the Auth middleware
// has not run.
func Actor(c echo.Context) *domain.User {
	user, _ := c.Get(actorKey).(*domain.User)
	return user
}

// ctxActor extracts the authenticated user injected by the Auth
// middleware. Presence proves the middleware ran; a missing actor on a
// protected route is a wiring bug surfaced as 401.
func ctxActor(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(actorKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}

// pathID parses the named path parameter as a UUID.
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
