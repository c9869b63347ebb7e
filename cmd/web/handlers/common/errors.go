package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// MessageResponse is the body of every JSON reply that carries only text.
type MessageResponse struct {
	Message string `json:"message"`
}

// Message writes {"message": msg} with the given status.
func Message(c echo.Context, status int, msg string) error {
	return c.JSON(status, MessageResponse{Message: msg})
}

// ErrBadRequest returns a 400 Bad Request error.
func ErrBadRequest(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

// ErrNotFound returns a 404 Not Found error.
func ErrNotFound(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusNotFound, msg)
}

// ErrUnauthorized returns a 401 Unauthorized error.
func ErrUnauthorized(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}

// ErrInternal returns a 500 Internal Server Error.
func ErrInternal(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusInternalServerError, msg)
}

// HTTPErrorHandler renders every error as {"message": ...} so clients only
// ever parse one error shape.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := http.StatusText(status)
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		default:
			msg = http.StatusText(status)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = Message(c, status, msg)
}
