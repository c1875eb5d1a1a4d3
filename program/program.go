package program

// StateProgram is a StateMachine whose transition type is TransitionEvent[T],
// making it directly drivable by the authoritative server loop and by client
// replicas consuming the replicated stream.
//
// Beyond Apply it adds a single scheduling query, SuspendedEvent. A program
// may "suspend" one event to be applied at some future moment regardless of
// whether a player acts before then — a countdown expiring, a turn timing
// out. The authoritative driver calls SuspendedEvent exactly once after every
// Apply, including after applying a previously suspended event that just
// fired:
//
//   - A false second result clears any previously scheduled event; nothing
//     is pending.
//   - A true second result replaces any previously scheduled event with the
//     returned one. Previous answers carry no residual effect.
//
// Only one event is pending at a time. A program that wants to be woken at
// several future points must track internally which is chronologically next
// and return that one on each call. SuspendedEvent is a pure query over
// current state: calling it twice without an intervening Apply must yield the
// same answer, and it must not mutate state or perform I/O.
//
// Only the authoritative instance ever has SuspendedEvent invoked. When the
// driver fires a suspended event it re-enters Apply wrapped in a
// TransitionEvent with a nil Originator, and client replicas receive it
// through the ordered stream like any other event.
type StateProgram[T any] interface {
	StateMachine[TransitionEvent[T]]

	// SuspendedEvent reports the one event, if any, that should be applied
	// automatically at a future moment. The program never decides when —
	// timing is owned by the driver's scheduler.
	SuspendedEvent() (TransitionEvent[T], bool)
}

// NoSuspend provides the default SuspendedEvent for programs with no
// scheduling needs: embed it and the program never suspends an event.
type NoSuspend[T any] struct{}

func (NoSuspend[T]) SuspendedEvent() (TransitionEvent[T], bool) {
	var zero TransitionEvent[T]
	return zero, false
}
