package sse

import "github.com/go-go-golems/inkline/pkg/turns"

// EventType discriminates the stream-event union.
type EventType string

const (
	EventMessageStart EventType = "message_start"
	EventBlockStart   EventType = "block_start"
	EventTextDelta    EventType = "text_delta"
	EventMessageMeta  EventType = "message_meta"
	EventStreamError  EventType = "stream_error"
	EventDone         EventType = "done"
)

// Usage carries provider token accounting.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Event is one incremental protocol event, emitted only during an in-flight
// streaming call and discarded after accumulation.
type Event struct {
	Type       EventType
	Index      int             // BlockStart, TextDelta
	BlockType  turns.BlockKind // BlockStart
	Text       string          // TextDelta
	StopReason string          // MessageMeta
	Usage      *Usage          // MessageMeta
	Message    string          // StreamError
}

// ProtocolError is a malformed or provider-reported mid-stream error. The
// partial text accumulated before the error is preserved by the accumulator.
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string {
	return "stream protocol error: " + e.Message
}
