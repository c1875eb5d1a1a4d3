package counter_test

import (
	"testing"

	"github.com/stateroom/stateroom/programs/counter"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		ops  []counter.Op
		want int
	}{
		{name: "zero value", ops: nil, want: 0},
		{name: "adds accumulate", ops: []counter.Op{{Add: 2}, {Add: 3}}, want: 5},
		{name: "negative delta", ops: []counter.Op{{Add: 2}, {Add: -5}}, want: -3},
		{name: "reset clears", ops: []counter.Op{{Add: 7}, {Reset: true}}, want: 0},
		{name: "reset then add", ops: []counter.Op{{Add: 7}, {Reset: true}, {Add: 1}}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &counter.Counter{}
			for _, op := range tt.ops {
				c.Apply(op)
			}
			if c.Value != tt.want {
				t.Errorf("got %d, want %d", c.Value, tt.want)
			}
		})
	}
}
