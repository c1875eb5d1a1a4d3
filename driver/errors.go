package driver

import "errors"

var (
	// ErrStopped is returned when the driver loop has already exited.
	ErrStopped = errors.New("driver stopped")

	// ErrNoOriginator is returned by Submit for events without an
	// originator; nil-originator events arise only from fired suspended
	// events, never from submission.
	ErrNoOriginator = errors.New("submitted event has no originator")
)
