package common

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"thirdcoast.systems/openvidreview/cmd/web/auth"
)

// RequireIDParam extracts a positive integer route parameter or returns a
// 400 error.
func RequireIDParam(c echo.Context, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+param)
	}
	return id, nil
}

// RequireBrowserID returns the browser session id, issuing the session
// cookie on first contact.
func RequireBrowserID(c echo.Context, sm *auth.SessionManager) (string, error) {
	id, err := sm.EnsureBrowserID(c.Response().Writer, c.Request())
	if err != nil {
		return "", echo.NewHTTPError(http.StatusInternalServerError, "could not establish session")
	}
	return id, nil
}
