package driver

import "github.com/stateroom/stateroom/observability"

// Driver event types emitted during the runtime loop.
const (
	EventStart          observability.EventType = "driver.start"
	EventStop           observability.EventType = "driver.stop"
	EventApply          observability.EventType = "driver.apply"
	EventSuspend        observability.EventType = "driver.suspend"
	EventSuspendClear   observability.EventType = "driver.suspend.clear"
	EventFire           observability.EventType = "driver.fire"
	EventSubscriberDrop observability.EventType = "driver.subscriber.drop"
)
