package transport

import (
	"context"
	"fmt"

	"connectrpc.com/connect"

	"github.com/stateroom/stateroom/driver"
	"github.com/stateroom/stateroom/program"
	"github.com/stateroom/stateroom/wire"
)

// Client is a replica-side SyncService client. It submits player events and
// consumes the ordered replication stream; it never consults the suspended
// slot — fired events arrive through the stream like any other event.
type Client[T any] struct {
	codec wire.TransitionCodec[T]

	create    *connect.Client[CreateSessionRequest, CreateSessionResponse]
	list      *connect.Client[ListSessionsRequest, ListSessionsResponse]
	submit    *connect.Client[SubmitRequest, SubmitResponse]
	subscribe *connect.Client[SubscribeRequest, SubscribeResponse]
}

// NewClient creates a Client for the SyncService at baseURL. A nil codec
// defaults to the JSON transition codec.
func NewClient[T any](httpClient connect.HTTPClient, baseURL string, codec wire.TransitionCodec[T], opts ...connect.ClientOption) *Client[T] {
	if codec == nil {
		codec = wire.JSON[T]{}
	}
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)

	return &Client[T]{
		codec: codec,
		create: connect.NewClient[CreateSessionRequest, CreateSessionResponse](
			httpClient, baseURL+CreateSessionProcedure, opts...,
		),
		list: connect.NewClient[ListSessionsRequest, ListSessionsResponse](
			httpClient, baseURL+ListSessionsProcedure, opts...,
		),
		submit: connect.NewClient[SubmitRequest, SubmitResponse](
			httpClient, baseURL+SubmitProcedure, opts...,
		),
		subscribe: connect.NewClient[SubscribeRequest, SubscribeResponse](
			httpClient, baseURL+SubscribeProcedure, opts...,
		),
	}
}

// CreateSession starts a new session on the server and returns its id.
func (c *Client[T]) CreateSession(ctx context.Context) (string, error) {
	resp, err := c.create.CallUnary(ctx, connect.NewRequest(&CreateSessionRequest{}))
	if err != nil {
		return "", err
	}
	return resp.Msg.SessionID, nil
}

// ListSessions returns the ids of all live sessions on the server.
func (c *Client[T]) ListSessions(ctx context.Context) ([]string, error) {
	resp, err := c.list.CallUnary(ctx, connect.NewRequest(&ListSessionsRequest{}))
	if err != nil {
		return nil, err
	}
	return resp.Msg.SessionIDs, nil
}

// Submit sends one player-originated event and returns the sequence number
// the authoritative driver assigned to it.
func (c *Client[T]) Submit(ctx context.Context, sessionID string, event program.TransitionEvent[T]) (uint64, error) {
	frame, err := wire.EncodeEvent(c.codec, 0, event)
	if err != nil {
		return 0, fmt.Errorf("transport: encode event: %w", err)
	}

	resp, err := c.submit.CallUnary(ctx, connect.NewRequest(&SubmitRequest{
		SessionID: sessionID,
		Frame:     frame,
	}))
	if err != nil {
		return 0, err
	}
	return resp.Msg.Seq, nil
}

// Subscription is a client-side replication stream yielding sequenced
// records in total order.
type Subscription[T any] struct {
	codec  wire.TransitionCodec[T]
	stream *connect.ServerStreamForClient[SubscribeResponse]
	err    error
}

// Subscribe opens a replication stream for the session, replaying from
// fromSeq and then following live.
func (c *Client[T]) Subscribe(ctx context.Context, sessionID string, fromSeq uint64) (*Subscription[T], error) {
	stream, err := c.subscribe.CallServerStream(ctx, connect.NewRequest(&SubscribeRequest{
		SessionID: sessionID,
		FromSeq:   fromSeq,
	}))
	if err != nil {
		return nil, err
	}
	return &Subscription[T]{codec: c.codec, stream: stream}, nil
}

// Recv returns the next record. ok is false when the stream has ended;
// check Err afterwards.
func (s *Subscription[T]) Recv() (rec driver.Record[T], ok bool) {
	if !s.stream.Receive() {
		return rec, false
	}

	seq, event, err := wire.DecodeEvent(s.codec, s.stream.Msg().Frame)
	if err != nil {
		s.err = err
		return rec, false
	}

	return driver.Record[T]{Seq: seq, Event: event}, true
}

// Err returns the error that ended the stream, if any.
func (s *Subscription[T]) Err() error {
	if s.err != nil {
		return s.err
	}
	return s.stream.Err()
}

// Close discards the stream.
func (s *Subscription[T]) Close() error {
	return s.stream.Close()
}

// Sync applies the session's replication stream to a local replica in order,
// starting at fromSeq, until the stream ends or ctx is cancelled. It returns
// the last applied sequence number, which the caller passes back as fromSeq
// when re-subscribing. The replica's suspended slot is never consulted.
func (c *Client[T]) Sync(ctx context.Context, sessionID string, fromSeq uint64, replica program.StateProgram[T]) (uint64, error) {
	sub, err := c.Subscribe(ctx, sessionID, fromSeq)
	if err != nil {
		return 0, err
	}
	defer sub.Close()

	last := uint64(0)
	for {
		rec, ok := sub.Recv()
		if !ok {
			return last, sub.Err()
		}
		replica.Apply(rec.Event)
		last = rec.Seq
	}
}
