// Package wire defines the replication wire format: a protobuf envelope
// carrying one sequenced TransitionEvent, with the transition body itself
// encoded by an application-supplied codec. The envelope is hand-framed with
// protowire because the body is opaque bytes — there is no schema to generate
// code from.
//
// Envelope fields:
//
//	1 (bytes)  transition body
//	2 (bytes)  originator player id; present only for player-originated events
//	3 (varint) sequence number assigned by the authoritative driver
//
// Field 2 presence distinguishes player events from machine-originated ones,
// so an empty player id round-trips without ambiguity.
package wire

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/stateroom/stateroom/program"
)

const (
	fieldTransition = 1
	fieldOriginator = 2
	fieldSeq        = 3
)

// TransitionCodec translates the application's transition type to and from
// bytes. Encodings must be deterministic enough for transport; replicas never
// compare encodings, only the decoded transitions they apply.
type TransitionCodec[T any] interface {
	Marshal(transition T) ([]byte, error)
	Unmarshal(data []byte) (T, error)
}

// JSON is the default TransitionCodec, encoding transitions with
// encoding/json.
type JSON[T any] struct{}

func (JSON[T]) Marshal(transition T) ([]byte, error) {
	return json.Marshal(transition)
}

func (JSON[T]) Unmarshal(data []byte) (T, error) {
	var transition T
	if err := json.Unmarshal(data, &transition); err != nil {
		return transition, err
	}
	return transition, nil
}

// Frame is a decoded envelope: the raw transition body plus replication
// metadata. It is the transport-level view of a sequenced TransitionEvent.
type Frame struct {
	Seq        uint64
	Originator *program.PlayerID
	Transition []byte
}

// AppendFrame appends the envelope encoding of f to buf and returns the
// extended buffer.
func AppendFrame(buf []byte, f Frame) []byte {
	buf = protowire.AppendTag(buf, fieldTransition, protowire.BytesType)
	buf = protowire.AppendBytes(buf, f.Transition)
	if f.Originator != nil {
		buf = protowire.AppendTag(buf, fieldOriginator, protowire.BytesType)
		buf = protowire.AppendBytes(buf, []byte(*f.Originator))
	}
	buf = protowire.AppendTag(buf, fieldSeq, protowire.VarintType)
	buf = protowire.AppendVarint(buf, f.Seq)
	return buf
}

// ParseFrame decodes one envelope. Unknown fields are skipped per protobuf
// convention; repeated fields take the last value.
func ParseFrame(data []byte) (Frame, error) {
	var f Frame
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return Frame{}, fmt.Errorf("wire: invalid tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == fieldTransition && typ == protowire.BytesType:
			body, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return Frame{}, fmt.Errorf("wire: invalid transition field: %w", protowire.ParseError(n))
			}
			f.Transition = append([]byte(nil), body...)
			data = data[n:]
		case num == fieldOriginator && typ == protowire.BytesType:
			id, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return Frame{}, fmt.Errorf("wire: invalid originator field: %w", protowire.ParseError(n))
			}
			player := program.PlayerID(id)
			f.Originator = &player
			data = data[n:]
		case num == fieldSeq && typ == protowire.VarintType:
			seq, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return Frame{}, fmt.Errorf("wire: invalid sequence field: %w", protowire.ParseError(n))
			}
			f.Seq = seq
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return Frame{}, fmt.Errorf("wire: invalid field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return f, nil
}

// EncodeEvent frames a sequenced TransitionEvent, encoding the transition
// body with codec.
func EncodeEvent[T any](codec TransitionCodec[T], seq uint64, event program.TransitionEvent[T]) ([]byte, error) {
	body, err := codec.Marshal(event.Transition)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal transition: %w", err)
	}
	return AppendFrame(nil, Frame{
		Seq:        seq,
		Originator: event.Originator,
		Transition: body,
	}), nil
}

// DecodeEvent parses a frame and decodes its transition body with codec.
func DecodeEvent[T any](codec TransitionCodec[T], data []byte) (uint64, program.TransitionEvent[T], error) {
	var event program.TransitionEvent[T]

	f, err := ParseFrame(data)
	if err != nil {
		return 0, event, err
	}

	transition, err := codec.Unmarshal(f.Transition)
	if err != nil {
		return 0, event, fmt.Errorf("wire: unmarshal transition: %w", err)
	}

	event.Transition = transition
	event.Originator = f.Originator
	return f.Seq, event, nil
}
