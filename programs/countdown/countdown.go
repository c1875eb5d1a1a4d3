// Package countdown implements a self-scheduling StateProgram: a counter that
// ticks itself down to zero through the suspended-event slot, with a
// player-originated reset that re-arms the countdown at any point.
package countdown

import (
	"github.com/stateroom/stateroom/program"
)

// Action names a countdown transition.
type Action string

const (
	// ActionTick decrements the remaining count. Ticks are normally
	// machine-originated, synthesized by the driver from the suspended slot.
	ActionTick Action = "tick"
	// ActionReset restores the remaining count to the configured start value.
	ActionReset Action = "reset"
)

// Transition is the countdown's transition type.
type Transition struct {
	Action Action `json:"action"`
}

// Countdown counts Remaining down from Start. While Remaining is positive it
// keeps exactly one tick suspended; at zero it suspends nothing. Unknown
// actions are deterministic no-ops.
type Countdown struct {
	Start     int `json:"start"`
	Remaining int `json:"remaining"`
}

// New creates a countdown with start ticks remaining.
func New(start int) *Countdown {
	return &Countdown{Start: start, Remaining: start}
}

func (c *Countdown) Apply(event program.TransitionEvent[Transition]) {
	switch event.Transition.Action {
	case ActionTick:
		if c.Remaining > 0 {
			c.Remaining--
		}
	case ActionReset:
		c.Remaining = c.Start
	}
}

// SuspendedEvent keeps one machine-originated tick pending while the
// countdown is running, recomputed from state on every call.
func (c *Countdown) SuspendedEvent() (program.TransitionEvent[Transition], bool) {
	if c.Remaining <= 0 {
		var zero program.TransitionEvent[Transition]
		return zero, false
	}
	return program.MachineEvent(Transition{Action: ActionTick}), true
}

// Factory creates independent countdown programs with a shared start value.
type Factory struct {
	Start int
}

func (f *Factory) Create() program.StateProgram[Transition] {
	return New(f.Start)
}
