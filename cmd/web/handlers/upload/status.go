package upload

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"thirdcoast.systems/openvidreview/cmd/web/handlers/common"
	"thirdcoast.systems/openvidreview/internal/ingest"
)

// StatusFor maps an abort kind to the HTTP status sent to the client.
func StatusFor(kind ingest.Kind) int {
	switch kind {
	case ingest.KindDuplicateName, ingest.KindInvalidInput:
		return http.StatusBadRequest
	case ingest.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeAbort(c echo.Context, err error) error {
	var ae *ingest.AbortError
	if !errors.As(err, &ae) {
		slog.Error("unexpected ingest error", "error", err)
		return common.Message(c, http.StatusInternalServerError, ingest.MsgDatabase)
	}
	return common.Message(c, StatusFor(ae.Kind), ae.Message)
}
