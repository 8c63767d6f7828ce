package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadhub/lead-tracker/internal/api/handler"
	"github.com/leadhub/lead-tracker/internal/core/domain"
)

// RequireRole restricts a route to the given roles. It runs after Auth
// and reads the injected actor.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := handler.Actor(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if _, ok := allowed[user.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
