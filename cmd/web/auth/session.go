package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	SessionName  = "openvidreview_session"
	BrowserIDKey = "browser_id"
)

var (
	ErrNoBrowserSession = errors.New("no browser session")
)

// SessionManager issues the cookie that ties an upload to the progress
// channel of the browser that started it.
type SessionManager struct {
	store *sessions.CookieStore
}

func NewSessionManager(secret string) *SessionManager {
	if secret == "" {
		slog.Warn("SESSION_SECRET not set, generating an ephemeral one")
		secret = generateSecret()
	}
	return &SessionManager{
		store: sessions.NewCookieStore([]byte(secret)),
	}
}

func generateSecret() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.StdEncoding.EncodeToString(b)
}

// BrowserID returns the id stored in the session cookie.
func (sm *SessionManager) BrowserID(r *http.Request) (string, error) {
	session, err := sm.store.Get(r, SessionName)
	if err != nil {
		_, cookieErr := r.Cookie(SessionName)
		slog.Warn("failed to decode session", "error", err, "host", r.Host, "has_cookie", cookieErr == nil)
		return "", err
	}

	val, ok := session.Values[BrowserIDKey]
	if !ok {
		return "", ErrNoBrowserSession
	}
	id, ok := val.(string)
	if !ok || id == "" {
		return "", ErrNoBrowserSession
	}
	return id, nil
}

// EnsureBrowserID returns the caller's browser id, issuing a new session
// cookie when the request carries none (or an unreadable one).
func (sm *SessionManager) EnsureBrowserID(w http.ResponseWriter, r *http.Request) (string, error) {
	if id, err := sm.BrowserID(r); err == nil {
		return id, nil
	}

	// Get returns a fresh session alongside any decode error.
	session, _ := sm.store.Get(r, SessionName)
	id := uuid.NewString()
	session.Values[BrowserIDKey] = id

	// Determine if we're on HTTPS
	isHTTPS := r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"

	session.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   isHTTPS,
	}

	if err := session.Save(r, w); err != nil {
		return "", err
	}
	return id, nil
}
