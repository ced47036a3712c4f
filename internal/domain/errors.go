package domain

import "errors"

var (
	// ErrEmptyMessage rejects a submission whose text is empty after trimming.
	ErrEmptyMessage = errors.New("message text is empty")

	// ErrTurnInFlight rejects a submission while another turn is unresolved.
	ErrTurnInFlight = errors.New("a turn is already in flight")

	// ErrNotInitialized signals a send before the session was established.
	ErrNotInitialized = errors.New("conversation session not initialized")

	// ErrAlreadyInitialized signals a second Initialize on the same client.
	ErrAlreadyInitialized = errors.New("conversation session already initialized")

	// ErrCorrelationMismatch signals a tool result whose correlation token
	// does not match the invocation the service is waiting on.
	ErrCorrelationMismatch = errors.New("tool result does not match the outstanding invocation")

	// ErrPendingExists rejects a second pending entry (or an append behind one).
	ErrPendingExists = errors.New("a pending message already exists")

	// ErrNoPending signals a resolution with nothing in flight.
	ErrNoPending = errors.New("no pending message to resolve")
)
