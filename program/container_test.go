package program_test

import (
	"testing"

	"github.com/stateroom/stateroom/program"
	"github.com/stateroom/stateroom/programs/counter"
)

func TestContainer_StripsOriginator(t *testing.T) {
	direct := &counter.Counter{}
	wrapped := program.Contain[counter.Op](&counter.Counter{})

	ops := []counter.Op{{Add: 4}, {Add: -2}, {Reset: true}, {Add: 9}}
	originators := []program.TransitionEvent[counter.Op]{
		program.PlayerEvent("p1", ops[0]),
		program.PlayerEvent("", ops[1]),
		program.MachineEvent(ops[2]),
		program.PlayerEvent("p2", ops[3]),
	}

	for i, op := range ops {
		direct.Apply(op)
		wrapped.Apply(originators[i])
	}

	if wrapped.Inner.Value != direct.Value {
		t.Errorf("originator metadata leaked into inner state: %d vs %d",
			wrapped.Inner.Value, direct.Value)
	}
}

func TestContainer_NeverSuspends(t *testing.T) {
	wrapped := program.Contain[counter.Op](&counter.Counter{})

	for i := 0; i < 5; i++ {
		wrapped.Apply(program.PlayerEvent("p1", counter.Op{Add: i}))
		if _, ok := wrapped.SuspendedEvent(); ok {
			t.Fatalf("container suspended an event after %d applies", i+1)
		}
	}
}

func TestContainerFactory_IndependentInstances(t *testing.T) {
	factory := program.NewContainerFactory[counter.Op](func() *counter.Counter {
		return &counter.Counter{}
	})

	first := factory.Create()
	second := factory.Create()

	first.Apply(program.PlayerEvent("p1", counter.Op{Add: 5}))
	first.Apply(program.PlayerEvent("p1", counter.Op{Add: 5}))
	second.Apply(program.PlayerEvent("p2", counter.Op{Add: 1}))

	firstValue := first.(*program.ContainerProgram[counter.Op, *counter.Counter]).Inner.Value
	secondValue := second.(*program.ContainerProgram[counter.Op, *counter.Counter]).Inner.Value

	if firstValue != 10 {
		t.Errorf("first instance value = %d, want 10", firstValue)
	}
	if secondValue != 1 {
		t.Errorf("second instance value = %d, want 1", secondValue)
	}
}
