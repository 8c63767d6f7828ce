package handler

import "github.com/labstack/echo/v4"

// envelope is the canonical success wrapper. Errors render through the
// central HTTP error handler with success=false.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func respond(c echo.Context, code int, data any) error {
	return c.JSON(code, envelope{Success: true, Data: data})
}

func respondMessage(c echo.Context, code int, message string) error {
	return c.JSON(code, envelope{Success: true, Message: message})
}
