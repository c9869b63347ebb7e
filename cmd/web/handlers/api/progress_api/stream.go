package progress_api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/starfederation/datastar-go/datastar"

	"thirdcoast.systems/openvidreview/cmd/web/auth"
	"thirdcoast.systems/openvidreview/cmd/web/handlers/common"
	"thirdcoast.systems/openvidreview/cmd/web/templates"
	"thirdcoast.systems/openvidreview/internal/progress"
)

type progressSignals struct {
	UploadProgress float64 `json:"uploadProgress"`
	UploadAttempt  string  `json:"uploadAttempt"`
}

// HandleStream is the SSE flavour of the progress channel for pages driven
// by datastar. Each event patches the uploadProgress signal and replaces
// the #upload-progress element.
func HandleStream(hub *progress.Hub, sm *auth.SessionManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		browserID, err := common.RequireBrowserID(c, sm)
		if err != nil {
			return err
		}

		events, unsubscribe, err := hub.Subscribe(browserID)
		if err != nil {
			slog.Warn("progress subscription refused", "error", err, "browser_id", browserID)
			return common.Message(c, http.StatusTooManyRequests, "too many open progress channels")
		}
		defer unsubscribe()

		resp := c.Response()
		flusher, ok := resp.Writer.(http.Flusher)
		if !ok {
			return c.String(500, "streaming unsupported")
		}

		common.SetSSEHeaders(c)

		sse := datastar.NewSSE(resp, c.Request())

		// Keep-alive comments so proxies/browsers keep the stream open.
		_, _ = fmt.Fprintf(resp, ": connected\n\n")
		flusher.Flush()

		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-c.Request().Context().Done():
				return nil
			case evt, ok := <-events:
				if !ok {
					return nil
				}
				signals, err := json.Marshal(progressSignals{
					UploadProgress: evt.Progress,
					UploadAttempt:  evt.AttemptID,
				})
				if err != nil {
					return err
				}
				if err := sse.PatchSignals(signals); err != nil {
					slog.Debug("progress stream closed", "error", err)
					return nil
				}
				if err := sse.PatchElementTempl(templates.ProgressBar(evt.Progress),
					datastar.WithSelectorID("upload-progress"), datastar.WithModeReplace()); err != nil {
					slog.Debug("progress stream closed", "error", err)
					return nil
				}
			case <-ticker.C:
				_, _ = fmt.Fprintf(resp, ": keepalive\n\n")
				flusher.Flush()
			}
		}
	}
}
