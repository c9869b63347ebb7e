package upload

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"thirdcoast.systems/openvidreview/cmd/web/handlers/common"
	"thirdcoast.systems/openvidreview/internal/ingest"
)

type checkNameRequest struct {
	Name string `json:"name" form:"name"`
}

// HandleCheckReviewName tells the client whether a review name is free
// before it starts sending the file.
func HandleCheckReviewName(p *ingest.Pipeline) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req checkNameRequest
		if err := c.Bind(&req); err != nil {
			return common.ErrBadRequest("invalid request body")
		}

		if err := p.CheckName(c.Request().Context(), req.Name); err != nil {
			return writeAbort(c, err)
		}
		return common.Message(c, http.StatusOK, ingest.MsgNameAvailable)
	}
}

// HandleTest is a connectivity probe used by the upload page.
func HandleTest() echo.HandlerFunc {
	return func(c echo.Context) error {
		return common.Message(c, http.StatusOK, "Test route works!")
	}
}
