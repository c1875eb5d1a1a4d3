// Package transport exposes the replication boundary over Connect RPC:
// session creation, player-event submission, and a server-streamed
// subscription that replays a session's ordered log and then follows it
// live. Events travel as wire envelopes inside JSON-framed Connect messages;
// the transition body stays opaque to the transport.
package transport

import "encoding/json"

// SyncServiceName is the fully qualified Connect service name.
const SyncServiceName = "stateroom.v1.SyncService"

// Procedure paths for the SyncService, relative to the server root.
const (
	CreateSessionProcedure = "/stateroom.v1.SyncService/CreateSession"
	ListSessionsProcedure  = "/stateroom.v1.SyncService/ListSessions"
	SubmitProcedure        = "/stateroom.v1.SyncService/Submit"
	SubscribeProcedure     = "/stateroom.v1.SyncService/Subscribe"
)

type CreateSessionRequest struct{}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

type ListSessionsRequest struct{}

type ListSessionsResponse struct {
	SessionIDs []string `json:"session_ids"`
}

// SubmitRequest carries one player-originated event as a wire envelope. The
// envelope's sequence field is ignored on submission; the authoritative
// driver assigns the real sequence.
type SubmitRequest struct {
	SessionID string `json:"session_id"`
	Frame     []byte `json:"frame"`
}

type SubmitResponse struct {
	Seq uint64 `json:"seq"`
}

// SubscribeRequest opens a replication stream. Records with sequence numbers
// >= FromSeq are replayed before live records; pass 0 (or 1) for the full
// session history.
type SubscribeRequest struct {
	SessionID string `json:"session_id"`
	FromSeq   uint64 `json:"from_seq"`
}

// SubscribeResponse is one sequenced event as a wire envelope.
type SubscribeResponse struct {
	Frame []byte `json:"frame"`
}

// jsonCodec is a Connect codec for the plain structs above. It registers
// under the standard "json" name, replacing the proto-backed default, since
// these message shapes are generic over the application transition type and
// have no generated proto form.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(message any) ([]byte, error) {
	return json.Marshal(message)
}

func (jsonCodec) Unmarshal(data []byte, message any) error {
	return json.Unmarshal(data, message)
}
