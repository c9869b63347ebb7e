package progress_api

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"thirdcoast.systems/openvidreview/cmd/web/auth"
	"thirdcoast.systems/openvidreview/cmd/web/handlers/common"
	"thirdcoast.systems/openvidreview/internal/progress"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     sameOrigin,
}

// sameOrigin accepts requests without an Origin header (non-browser
// clients) and browser requests from the serving host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

// HandleWebsocket streams uploadProgress events for the caller's browser
// session. The socket is push only; anything the client sends is ignored.
func HandleWebsocket(hub *progress.Hub, sm *auth.SessionManager) echo.HandlerFunc {
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

		// The handshake response is written by the upgrader, so a freshly
		// issued session cookie has to be handed over explicitly.
		var respHeader http.Header
		if cookies := c.Response().Header().Values("Set-Cookie"); len(cookies) > 0 {
			respHeader = http.Header{"Set-Cookie": cookies}
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), respHeader)
		if err != nil {
			slog.Warn("websocket upgrade failed", "error", err)
			return nil
		}
		defer conn.Close()

		closed := make(chan struct{})
		go readPump(conn, closed)

		writePump(conn, events, closed)
		return nil
	}
}

// readPump drains client frames so control messages are processed, and
// closes done when the connection goes away.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("progress websocket closed", "error", err)
			}
			return
		}
	}
}

func writePump(conn *websocket.Conn, events <-chan progress.Event, closed <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case evt, ok := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(evt); err != nil {
				slog.Debug("progress websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
