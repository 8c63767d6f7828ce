package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/leadhub/lead-tracker/internal/api/handler"
	"github.com/leadhub/lead-tracker/internal/core/domain"
	"github.com/leadhub/lead-tracker/internal/core/ports"
)

// Auth resolves the bearer token to its stored user and injects it into
// the request context. Resolution re-reads the user record, so role
// changes and deactivation take effect on the next request rather than
// at token expiry.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := extractToken(c)
			if err != nil {
				return err
			}

			user, err := auth.Identify(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUserInactive) {
					return echo.NewHTTPError(http.StatusUnauthorized, "account is inactive")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			handler.SetActor(c, user)
			return next(c)
		}
	}
}

// extractToken reads the bearer token from the Authorization header, or
// from the token query parameter for websocket clients that cannot set
// headers.
func extractToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		if token := c.QueryParam("token"); token != "" {
			return token, nil
		}
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}
