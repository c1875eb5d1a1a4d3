// Package counter implements a plain additive counter StateMachine. It has no
// scheduling needs and is served through the container adapter, which strips
// replication metadata before it reaches Apply.
package counter

// Op is the counter's transition: either a reset to zero or a signed delta.
type Op struct {
	Add   int  `json:"add,omitempty"`
	Reset bool `json:"reset,omitempty"`
}

// Counter accumulates applied deltas. The zero value is ready to use.
type Counter struct {
	Value int `json:"value"`
}

func (c *Counter) Apply(op Op) {
	if op.Reset {
		c.Value = 0
		return
	}
	c.Value += op.Add
}
