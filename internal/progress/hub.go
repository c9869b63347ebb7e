// Package progress fans byte-level upload progress out to the browser
// session that started the upload.
package progress

import (
	"errors"
	"sync"

	"thirdcoast.systems/openvidreview/internal/metrics"
)

const (
	EventUploadProgress = "uploadProgress"

	// Hard caps to keep the web process responsive even if someone opens
	// a silly number of tabs.
	maxSubscribersPerSession = 10
	maxTotalSubscribers      = 500

	subscriberBuffer = 32
)

var ErrTooManySubscribers = errors.New("too many progress subscribers")

// Event is broadcast to every subscriber of a session.
type Event struct {
	Type      string  `json:"type"`
	AttemptID string  `json:"attemptId,omitempty"`
	Progress  float64 `json:"progress"`
}

// Hub keeps per-session subscriber sets. Publishing never blocks: a slow
// subscriber misses events instead of stalling an upload.
type Hub struct {
	mu sync.Mutex

	sessions map[string]*session

	totalSubs int
}

type session struct {
	subs map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string]*session),
	}
}

func (h *Hub) getOrCreateSession(id string) *session {
	s, ok := h.sessions[id]
	if ok {
		return s
	}

	s = &session{
		subs: make(map[chan Event]struct{}),
	}
	h.sessions[id] = s
	return s
}

// Subscribe registers a listener for the session and returns its channel
// and an unsubscribe function. The channel is closed on unsubscribe.
func (h *Hub) Subscribe(sessionID string) (<-chan Event, func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.totalSubs >= maxTotalSubscribers {
		return nil, nil, ErrTooManySubscribers
	}
	s := h.getOrCreateSession(sessionID)
	if len(s.subs) >= maxSubscribersPerSession {
		return nil, nil, ErrTooManySubscribers
	}

	ch := make(chan Event, subscriberBuffer)
	s.subs[ch] = struct{}{}
	h.totalSubs++
	metrics.ProgressSubscribers.Inc()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			s, ok := h.sessions[sessionID]
			if !ok {
				return
			}
			if _, ok := s.subs[ch]; !ok {
				return
			}
			delete(s.subs, ch)
			close(ch)
			h.totalSubs--
			metrics.ProgressSubscribers.Dec()
			if len(s.subs) == 0 {
				delete(h.sessions, sessionID)
			}
		})
	}

	return ch, unsubscribe, nil
}

// Subscribers reports how many listeners a session has.
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		return 0
	}
	return len(s.subs)
}

// Publish delivers evt to every current subscriber of the session. Events
// for sessions with no listeners are discarded.
func (h *Hub) Publish(sessionID string, evt Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	for sub := range s.subs {
		select {
		case sub <- evt:
		default:
			// Drop rather than block the upload.
		}
	}
}

// Tracker returns a reporter for one upload attempt of a session.
func (h *Hub) Tracker(sessionID, attemptID string) *Tracker {
	return &Tracker{
		hub:       h,
		sessionID: sessionID,
		attemptID: attemptID,
		last:      -1,
	}
}
