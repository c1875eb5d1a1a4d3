package program_test

import (
	"testing"

	"github.com/stateroom/stateroom/program"
	"github.com/stateroom/stateroom/programs/counter"
)

func TestPlayerEvent(t *testing.T) {
	ev := program.PlayerEvent("p1", counter.Op{Add: 2})

	if ev.Originator == nil {
		t.Fatal("PlayerEvent produced nil originator")
	}
	if *ev.Originator != "p1" {
		t.Errorf("got originator %q, want %q", *ev.Originator, "p1")
	}
	if ev.Transition.Add != 2 {
		t.Errorf("got transition add %d, want 2", ev.Transition.Add)
	}
}

func TestMachineEvent(t *testing.T) {
	ev := program.MachineEvent(counter.Op{Add: 1})

	if ev.Originator != nil {
		t.Errorf("MachineEvent produced originator %q, want nil", *ev.Originator)
	}
}

func TestDeterminism(t *testing.T) {
	a := &counter.Counter{}
	b := &counter.Counter{}

	ops := []counter.Op{{Add: 3}, {Add: -1}, {Reset: true}, {Add: 7}}
	for _, op := range ops {
		a.Apply(op)
		b.Apply(op)
		if a.Value != b.Value {
			t.Fatalf("states diverged after %+v: %d vs %d", op, a.Value, b.Value)
		}
	}
}

func TestReplayEquivalence(t *testing.T) {
	ops := []counter.Op{{Add: 1}, {Add: 2}, {Reset: true}, {Add: 5}, {Add: -3}}

	allAtOnce := &counter.Counter{}
	for _, op := range ops {
		allAtOnce.Apply(op)
	}

	// Same stream, applied in chunks that preserve order.
	chunked := &counter.Counter{}
	for _, chunk := range [][]counter.Op{ops[:2], ops[2:3], ops[3:]} {
		for _, op := range chunk {
			chunked.Apply(op)
		}
	}

	if allAtOnce.Value != chunked.Value {
		t.Errorf("replay diverged: %d vs %d", allAtOnce.Value, chunked.Value)
	}
}

func TestNoSuspend(t *testing.T) {
	var ns program.NoSuspend[counter.Op]

	ev, ok := ns.SuspendedEvent()
	if ok {
		t.Fatalf("NoSuspend suspended event %+v, want none", ev)
	}
	if ev.Originator != nil {
		t.Error("NoSuspend zero event has non-nil originator")
	}
}

func TestFactoryFunc(t *testing.T) {
	factory := program.FactoryFunc[counter.Op](func() program.StateProgram[counter.Op] {
		return program.Contain[counter.Op](&counter.Counter{})
	})

	first := factory.Create()
	second := factory.Create()

	first.Apply(program.PlayerEvent("p1", counter.Op{Add: 10}))

	second.Apply(program.PlayerEvent("p1", counter.Op{Add: 1}))
	got := second.(*program.ContainerProgram[counter.Op, *counter.Counter]).Inner.Value
	if got != 1 {
		t.Errorf("instances share state: second counter = %d, want 1", got)
	}
}
