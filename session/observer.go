package session

import "github.com/stateroom/stateroom/observability"

// Session lifecycle event types.
const (
	EventCreate observability.EventType = "session.create"
	EventClose  observability.EventType = "session.close"
)
