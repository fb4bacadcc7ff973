package session

import "errors"

var (
	// ErrInvalidPhase is returned when a command is not legal in the
	// session's current phase.
	ErrInvalidPhase = errors.New("command not allowed in current phase")
	// ErrNoUser is returned when recording is started before a user has
	// been selected.
	ErrNoUser = errors.New("no user selected")
	// ErrNotCancellable is returned when a stop request arrives after
	// processing has begun; the session is committed to producing a
	// result at that point.
	ErrNotCancellable = errors.New("session is no longer cancellable")
	// ErrCaptureUnavailable is returned by a Capture that cannot provide
	// a live feed.
	ErrCaptureUnavailable = errors.New("capture device unavailable")
)
