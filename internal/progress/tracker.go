package progress

import (
	"math"
	"sync"
)

// Tracker converts byte counts for a single upload attempt into
// percentage events. Percentages never decrease for an attempt.
type Tracker struct {
	hub       *Hub
	sessionID string
	attemptID string

	mu       sync.Mutex
	last     float64
	complete bool
}

// Report publishes the whole-percent progress of sent out of total bytes.
// Values that would not advance the attempt are suppressed.
func (t *Tracker) Report(sent, total int64) {
	if t == nil || total <= 0 {
		return
	}
	pct := Percent(sent, total)

	t.mu.Lock()
	if t.complete || pct <= t.last {
		t.mu.Unlock()
		return
	}
	t.last = pct
	if pct >= 100 {
		t.complete = true
	}
	t.mu.Unlock()

	t.publish(pct)
}

// Complete publishes 100 unless it was already reached.
func (t *Tracker) Complete() {
	if t == nil {
		return
	}

	t.mu.Lock()
	if t.complete {
		t.mu.Unlock()
		return
	}
	t.complete = true
	t.last = 100
	t.mu.Unlock()

	t.publish(100)
}

// Last returns the highest percentage published so far, or -1.
func (t *Tracker) Last() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

func (t *Tracker) publish(pct float64) {
	if t.hub == nil || t.sessionID == "" {
		return
	}
	t.hub.Publish(t.sessionID, Event{
		Type:      EventUploadProgress,
		AttemptID: t.attemptID,
		Progress:  pct,
	})
}

// Percent is floor(sent/total*100) clamped to [0, 100].
func Percent(sent, total int64) float64 {
	if total <= 0 || sent <= 0 {
		return 0
	}
	if sent >= total {
		return 100
	}
	return math.Floor(float64(sent) * 100 / float64(total))
}
