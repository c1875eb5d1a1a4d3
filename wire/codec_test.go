package wire_test

import (
	"bytes"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/stateroom/stateroom/program"
	"github.com/stateroom/stateroom/programs/countdown"
	"github.com/stateroom/stateroom/wire"
)

func TestEncodeDecode_PlayerEvent(t *testing.T) {
	codec := wire.JSON[countdown.Transition]{}
	event := program.PlayerEvent("p1", countdown.Transition{Action: countdown.ActionReset})

	data, err := wire.EncodeEvent(codec, 42, event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	seq, decoded, err := wire.DecodeEvent(codec, data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if seq != 42 {
		t.Errorf("got seq %d, want 42", seq)
	}
	if decoded.Originator == nil || *decoded.Originator != "p1" {
		t.Errorf("got originator %v, want p1", decoded.Originator)
	}
	if decoded.Transition != event.Transition {
		t.Errorf("got transition %+v, want %+v", decoded.Transition, event.Transition)
	}
}

func TestEncodeDecode_MachineEvent(t *testing.T) {
	codec := wire.JSON[countdown.Transition]{}
	event := program.MachineEvent(countdown.Transition{Action: countdown.ActionTick})

	data, err := wire.EncodeEvent(codec, 7, event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	_, decoded, err := wire.DecodeEvent(codec, data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.Originator != nil {
		t.Errorf("machine event decoded with originator %q, want nil", *decoded.Originator)
	}
}

func TestFrame_EmptyPlayerIDKeepsPresence(t *testing.T) {
	empty := program.PlayerID("")
	data := wire.AppendFrame(nil, wire.Frame{
		Seq:        1,
		Originator: &empty,
		Transition: []byte(`{}`),
	})

	f, err := wire.ParseFrame(data)
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}

	if f.Originator == nil {
		t.Fatal("empty player id decoded as machine-originated")
	}
	if *f.Originator != "" {
		t.Errorf("got originator %q, want empty", *f.Originator)
	}
}

func TestParseFrame_SkipsUnknownFields(t *testing.T) {
	data := wire.AppendFrame(nil, wire.Frame{Seq: 3, Transition: []byte(`{"action":"tick"}`)})

	// Append a field this envelope version does not define.
	data = protowire.AppendTag(data, 9, protowire.BytesType)
	data = protowire.AppendBytes(data, []byte("future"))

	f, err := wire.ParseFrame(data)
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}
	if f.Seq != 3 {
		t.Errorf("got seq %d, want 3", f.Seq)
	}
	if !bytes.Equal(f.Transition, []byte(`{"action":"tick"}`)) {
		t.Errorf("got transition %q", f.Transition)
	}
}

func TestParseFrame_Truncated(t *testing.T) {
	data := wire.AppendFrame(nil, wire.Frame{Seq: 3, Transition: []byte(`{"action":"tick"}`)})

	if _, err := wire.ParseFrame(data[:len(data)-1]); err == nil {
		t.Error("ParseFrame accepted truncated envelope")
	}
}

func TestDecodeEvent_BadTransitionBody(t *testing.T) {
	codec := wire.JSON[countdown.Transition]{}
	data := wire.AppendFrame(nil, wire.Frame{Seq: 1, Transition: []byte(`not json`)})

	if _, _, err := wire.DecodeEvent(codec, data); err == nil {
		t.Error("DecodeEvent accepted malformed transition body")
	}
}

func TestEncode_Deterministic(t *testing.T) {
	codec := wire.JSON[countdown.Transition]{}
	event := program.PlayerEvent("p2", countdown.Transition{Action: countdown.ActionTick})

	first, err := wire.EncodeEvent(codec, 5, event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	second, err := wire.EncodeEvent(codec, 5, event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("identical events encoded differently")
	}
}
