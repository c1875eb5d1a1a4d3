package program

// ContainerProgram lifts any plain StateMachine into a StateProgram. Apply is
// a pure metadata-stripping pass-through: the originator is discarded and the
// bare transition is forwarded to the inner machine, which never observes who
// caused a change. A container never suspends an event — this is the
// deliberate boundary between plain machines (no timers) and programs that
// opt into scheduling.
type ContainerProgram[T any, SM StateMachine[T]] struct {
	NoSuspend[T]

	Inner SM
}

// Contain wraps a state machine in a ContainerProgram.
func Contain[T any, SM StateMachine[T]](inner SM) *ContainerProgram[T, SM] {
	return &ContainerProgram[T, SM]{Inner: inner}
}

func (c *ContainerProgram[T, SM]) Apply(event TransitionEvent[T]) {
	c.Inner.Apply(event.Transition)
}

// ContainerFactory produces ContainerPrograms from a state machine
// constructor, so session-creation code can be generic over whether an
// application needs scheduling or not.
type ContainerFactory[T any, SM StateMachine[T]] struct {
	newMachine func() SM
}

// NewContainerFactory creates a factory that wraps each machine produced by
// newMachine in a fresh ContainerProgram.
func NewContainerFactory[T any, SM StateMachine[T]](newMachine func() SM) *ContainerFactory[T, SM] {
	return &ContainerFactory[T, SM]{newMachine: newMachine}
}

func (f *ContainerFactory[T, SM]) Create() StateProgram[T] {
	return Contain[T](f.newMachine())
}
