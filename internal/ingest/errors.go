package ingest

import (
	"errors"
	"fmt"
)

// Kind classifies why an ingest attempt was aborted.
type Kind string

const (
	KindDuplicateName      Kind = "DuplicateName"
	KindInvalidInput       Kind = "InvalidInput"
	KindUploadFailure      Kind = "UploadFailure"
	KindPersistenceFailure Kind = "PersistenceFailure"
	KindTimeout            Kind = "Timeout"
)

// Client-facing messages.
const (
	MsgNameTaken     = "Review name already exists."
	MsgNameAvailable = "Review name is available."
	MsgNoFile        = "No file uploaded."
	MsgUploaded      = "File uploaded successfully."
	MsgUploadFailed  = "Error uploading file."
	MsgUploadTimeout = "Upload timed out."
	MsgDatabase      = "Database error."
)

// AbortError is returned by every failed ingest. Message is safe to send
// to the client.
type AbortError struct {
	Kind    Kind
	State   State
	Message string
	Err     error
}

func (e *AbortError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("ingest aborted in %s (%s): %s", e.State, e.Kind, e.Message)
	}
	return fmt.Sprintf("ingest aborted in %s (%s): %s: %v", e.State, e.Kind, e.Message, e.Err)
}

func (e *AbortError) Unwrap() error {
	return e.Err
}

// KindOf returns the abort kind of err, or "" if err is not an AbortError.
func KindOf(err error) Kind {
	var ae *AbortError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}
