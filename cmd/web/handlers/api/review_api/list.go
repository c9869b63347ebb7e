package review_api

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"thirdcoast.systems/openvidreview/cmd/web/handlers/common"
)

// HandleList returns every review for the admin page.
func HandleList(store ReviewStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		reviews, err := store.List(c.Request().Context())
		if err != nil {
			slog.Error("failed to list reviews", "error", err)
			return common.ErrInternal("Database error.")
		}
		return c.JSON(http.StatusOK, reviews)
	}
}
