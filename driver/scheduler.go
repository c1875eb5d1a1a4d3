package driver

import (
	"time"

	"github.com/stateroom/stateroom/program"
)

// Scheduler decides how far in the future a suspended event fires. The
// program only ever declares what should fire next; when it fires is a
// domain decision held outside the state machine, so it stays pure and
// serializable.
type Scheduler[T any] interface {
	Delay(event program.TransitionEvent[T]) time.Duration
}

// FixedDelay fires every suspended event after a constant delay.
type FixedDelay[T any] time.Duration

func (f FixedDelay[T]) Delay(program.TransitionEvent[T]) time.Duration {
	return time.Duration(f)
}

// DelayFunc adapts a function into a Scheduler.
type DelayFunc[T any] func(event program.TransitionEvent[T]) time.Duration

func (f DelayFunc[T]) Delay(event program.TransitionEvent[T]) time.Duration {
	return f(event)
}
