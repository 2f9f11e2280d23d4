package strand

import (
	"errors"
	"fmt"
)

// ErrRunActive is returned when a prompt is submitted while a prior run
// is still unresolved. The UI is expected to disable input during this
// window, so hitting this indicates a caller contract violation.
var ErrRunActive = errors.New("a run is already in progress")

// MalformedEventError indicates a protocol envelope that could not be
// decoded: the payload after framing removal is not well-formed JSON or
// lacks an event tag. Unrecoverable for the current run.
type MalformedEventError struct {
	Raw   string
	Cause error
}

// Error returns the error message.
func (e *MalformedEventError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed protocol event: %v", e.Cause)
	}
	return "malformed protocol event"
}

// Unwrap returns the underlying error.
func (e *MalformedEventError) Unwrap() error {
	return e.Cause
}

// InvalidStateTransitionError indicates a programming-contract violation
// in the state machine, such as a text delta arriving with no in-progress
// assistant turn. It should not occur in correct operation and is never
// silently dropped.
type InvalidStateTransitionError struct {
	Op     string
	Reason string
}

// Error returns the error message.
func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid state transition in %s: %s", e.Op, e.Reason)
}

// UnexpectedEventShapeError indicates a protocol violation during
// rehydration: the snapshot envelope decoded to something other than a
// messages snapshot.
type UnexpectedEventShapeError struct {
	Got string
}

// Error returns the error message.
func (e *UnexpectedEventShapeError) Error() string {
	return fmt.Sprintf("expected messages snapshot, got %s event", e.Got)
}

// RehydrationError indicates that reconstructing a persisted
// conversation failed. The prior session is preserved untouched; the
// operation requires explicit user re-initiation.
type RehydrationError struct {
	ThreadID string
	Cause    error
}

// Error returns the error message.
func (e *RehydrationError) Error() string {
	return fmt.Sprintf("rehydrating %s: %v", e.ThreadID, e.Cause)
}

// Unwrap returns the underlying error.
func (e *RehydrationError) Unwrap() error {
	return e.Cause
}

// NetworkError indicates a transport-level failure talking to the
// backend. During a live run it surfaces as a Failed run state with an
// inline error marker; there is no automatic retry.
type NetworkError struct {
	Op    string
	Cause error
}

// Error returns the error message.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Cause
}
