package core

import "fmt"

var (
	// ErrSessionNotFound is returned when a session id does not exist in the
	// store, either because it was never created or because the reaper
	// removed it after the idle TTL elapsed.
	ErrSessionNotFound = fmt.Errorf("session not found")

	// ErrModeMismatch is returned when a caller reuses a session id with a
	// different interaction mode than the one it was created with. Sessions
	// are committed to one mode at creation to keep the priming pair and the
	// subsequent context consistent.
	ErrModeMismatch = fmt.Errorf("session mode mismatch")

	// ErrModelUnavailable is returned when the model backend call fails
	// (transport error, timeout, rejection). The session is left untouched;
	// the caller decides whether to resubmit.
	ErrModelUnavailable = fmt.Errorf("model backend unavailable")

	// ErrStructuredOutputInvalid is returned when the backend reply violates
	// the enforced extraction shape. The offending turn is never committed so
	// the session stays replayable for a retry.
	ErrStructuredOutputInvalid = fmt.Errorf("structured output invalid")
)
