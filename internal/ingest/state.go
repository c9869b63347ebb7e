package ingest

import (
	"log/slog"
	"time"

	"thirdcoast.systems/openvidreview/internal/metrics"
)

// State is a step of the ingest lifecycle.
type State string

const (
	StateReceived    State = "received"
	StateNameChecked State = "name_checked"
	StateUploading   State = "uploading"
	StateUploaded    State = "uploaded"
	StateProbing     State = "probing"
	StatePersisting  State = "persisting"
	StateDone        State = "done"
	StateAborted     State = "aborted"
)

func (s State) Terminal() bool {
	return s == StateDone || s == StateAborted
}

// attempt tracks one request through the pipeline. Each transition logs
// and records how long the previous state took.
type attempt struct {
	reviewName string
	state      State
	entered    time.Time
	now        func() time.Time
	attrs      []any
}

func newAttempt(reviewName string, now func() time.Time) *attempt {
	a := &attempt{
		reviewName: reviewName,
		state:      StateReceived,
		now:        now,
	}
	a.entered = now()
	return a
}

// with adds log attributes carried by all later transitions.
func (a *attempt) with(attrs ...any) {
	a.attrs = append(a.attrs, attrs...)
}

func (a *attempt) to(next State) {
	if a.state.Terminal() {
		return
	}
	at := a.now()
	metrics.IngestStageSeconds.WithLabelValues(string(a.state)).Observe(at.Sub(a.entered).Seconds())

	a.state, a.entered = next, at
	slog.Info("Ingest state changed", append([]any{"review_name", a.reviewName, "state", next}, a.attrs...)...)
	if next == StateDone {
		metrics.IngestTotal.WithLabelValues("done").Inc()
	}
}

// abort moves to StateAborted and returns the error describing why.
func (a *attempt) abort(kind Kind, msg string, err error) error {
	from := a.state
	a.to(StateAborted)
	metrics.IngestTotal.WithLabelValues(string(kind)).Inc()

	args := append([]any{"review_name", a.reviewName, "state", from, "kind", kind, "error", err}, a.attrs...)
	if kind == KindDuplicateName || kind == KindInvalidInput {
		slog.Info("Ingest aborted", args...)
	} else {
		slog.Error("Ingest aborted", args...)
	}
	return &AbortError{Kind: kind, State: from, Message: msg, Err: err}
}
