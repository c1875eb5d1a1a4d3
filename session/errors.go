package session

import "errors"

var (
	// ErrNotFound is returned for session ids the manager does not track.
	ErrNotFound = errors.New("session not found")

	// ErrClosed is returned by Create after CloseAll.
	ErrClosed = errors.New("session manager closed")
)
