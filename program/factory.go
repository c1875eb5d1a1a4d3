package program

// Factory produces fresh, independent StateProgram instances, one per logical
// session. Create is infallible and must be safely callable repeatedly over
// the process lifetime; instances it returns share no mutable state with each
// other. The pointer receiver convention allows stateful factories (for
// example a monotonically increasing session counter), but a factory must not
// depend on shared mutable state beyond what it owns.
type Factory[T any] interface {
	Create() StateProgram[T]
}

// FactoryFunc adapts a constructor function into a Factory. It is the
// pass-through factory for programs that need no construction parameters.
type FactoryFunc[T any] func() StateProgram[T]

func (f FactoryFunc[T]) Create() StateProgram[T] {
	return f()
}
