package upload

import (
	"github.com/labstack/echo/v4"

	"thirdcoast.systems/openvidreview/cmd/web/auth"
	"thirdcoast.systems/openvidreview/cmd/web/handlers/common"
	"thirdcoast.systems/openvidreview/cmd/web/templates"
)

// HandlePage renders the upload form and issues the browser session cookie
// so the progress channel can be opened before the first upload.
func HandlePage(sm *auth.SessionManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := common.RequireBrowserID(c, sm); err != nil {
			return err
		}
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
		return templates.UploadPage().Render(c.Request().Context(), c.Response().Writer)
	}
}
