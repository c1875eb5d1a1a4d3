package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"connectrpc.com/connect"

	"github.com/stateroom/stateroom/session"
	"github.com/stateroom/stateroom/wire"
)

// Service serves the SyncService procedures for one session manager. The
// transition codec decodes submitted envelopes before they enter the ordered
// stream and re-encodes applied records for subscribers.
type Service[T any] struct {
	manager *session.Manager[T]
	codec   wire.TransitionCodec[T]
}

// NewService creates a Service backed by manager. A nil codec defaults to
// the JSON transition codec.
func NewService[T any](manager *session.Manager[T], codec wire.TransitionCodec[T]) *Service[T] {
	if codec == nil {
		codec = wire.JSON[T]{}
	}
	return &Service[T]{manager: manager, codec: codec}
}

// NewSyncServiceHandler returns the path prefix and handler to mount on an
// http.ServeMux, mirroring the shape of generated Connect service handlers.
func NewSyncServiceHandler[T any](svc *Service[T], opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(CreateSessionProcedure, connect.NewUnaryHandler(
		CreateSessionProcedure, svc.createSession, opts...,
	))
	mux.Handle(ListSessionsProcedure, connect.NewUnaryHandler(
		ListSessionsProcedure, svc.listSessions, opts...,
	))
	mux.Handle(SubmitProcedure, connect.NewUnaryHandler(
		SubmitProcedure, svc.submit, opts...,
	))
	mux.Handle(SubscribeProcedure, connect.NewServerStreamHandler(
		SubscribeProcedure, svc.subscribe, opts...,
	))

	return "/" + SyncServiceName + "/", mux
}

func (s *Service[T]) createSession(ctx context.Context, _ *connect.Request[CreateSessionRequest]) (*connect.Response[CreateSessionResponse], error) {
	sess, err := s.manager.Create(context.WithoutCancel(ctx))
	if err != nil {
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}
	return connect.NewResponse(&CreateSessionResponse{SessionID: sess.ID()}), nil
}

func (s *Service[T]) listSessions(ctx context.Context, _ *connect.Request[ListSessionsRequest]) (*connect.Response[ListSessionsResponse], error) {
	return connect.NewResponse(&ListSessionsResponse{SessionIDs: s.manager.List()}), nil
}

func (s *Service[T]) submit(ctx context.Context, req *connect.Request[SubmitRequest]) (*connect.Response[SubmitResponse], error) {
	sess, err := s.manager.Get(req.Msg.SessionID)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}

	_, event, err := wire.DecodeEvent(s.codec, req.Msg.Frame)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if event.Originator == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			errors.New("submitted event has no originator"))
	}

	seq, err := sess.Driver().Submit(ctx, event)
	if err != nil {
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}

	return connect.NewResponse(&SubmitResponse{Seq: seq}), nil
}

func (s *Service[T]) subscribe(ctx context.Context, req *connect.Request[SubscribeRequest], stream *connect.ServerStream[SubscribeResponse]) error {
	sess, err := s.manager.Get(req.Msg.SessionID)
	if err != nil {
		return connect.NewError(connect.CodeNotFound, err)
	}

	records, cancel, err := sess.Driver().Subscribe(ctx, req.Msg.FromSeq)
	if err != nil {
		return connect.NewError(connect.CodeUnavailable, err)
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case rec, ok := <-records:
			if !ok {
				// Driver closed the subscription: session shut down or this
				// consumer lagged. Either way the client re-subscribes from
				// its last applied sequence.
				return nil
			}
			frame, err := wire.EncodeEvent(s.codec, rec.Seq, rec.Event)
			if err != nil {
				return connect.NewError(connect.CodeInternal,
					fmt.Errorf("encode record %d: %w", rec.Seq, err))
			}
			if err := stream.Send(&SubscribeResponse{Frame: frame}); err != nil {
				return err
			}
		}
	}
}
