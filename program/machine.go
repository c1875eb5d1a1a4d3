// Package program defines the contracts for deterministic, replicable state
// machines: a state type that mutates in place under an ordered stream of
// transitions, and converges to identical state on every replica that applies
// the same stream.
//
// The package is split into two capabilities. StateMachine is the minimal
// apply-in-place contract for application state. StateProgram narrows it to
// replication-aware machines whose transitions carry originator metadata and
// which may declare a single pending future event via SuspendedEvent. Plain
// machines are lifted into programs with ContainerProgram, so they never need
// to know about metadata or scheduling.
package program

// StateMachine is the minimal contract for replicable application state.
//
// Apply must be a pure, deterministic function of the current state and the
// transition: the same state and the same transition produce the same
// resulting state on every replica, every time. Apply has no error return —
// once a transition is in the replicated stream it cannot be rejected, so a
// domain-invalid transition must resolve to a defined outcome (typically a
// no-op, or an error marker recorded in state). Validation belongs upstream,
// before a transition is admitted into the ordered stream.
type StateMachine[T any] interface {
	// Apply mutates the state in place. It must not block, perform I/O, or
	// have any observable effect beyond the state mutation.
	Apply(transition T)
}

// PlayerID identifies the external actor that originated a transition.
type PlayerID string

// TransitionEvent wraps a transition with replication metadata: which
// originator, if any, produced it. A nil Originator means the event was
// synthesized by the state machine itself — a fired suspended event — and
// this is the only way nil-originator events arise. Apply implementations
// never interpret or mutate the originator; it exists for the driver and for
// application logic that distinguishes "a player did this" from "the clock
// did this".
type TransitionEvent[T any] struct {
	Transition T         `json:"transition"`
	Originator *PlayerID `json:"originator,omitempty"`
}

// PlayerEvent builds a TransitionEvent originated by the given player.
func PlayerEvent[T any](player PlayerID, transition T) TransitionEvent[T] {
	return TransitionEvent[T]{Transition: transition, Originator: &player}
}

// MachineEvent builds a machine-originated TransitionEvent, as produced when
// a suspended event fires.
func MachineEvent[T any](transition T) TransitionEvent[T] {
	return TransitionEvent[T]{Transition: transition}
}
