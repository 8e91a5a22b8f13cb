package responses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/inkline/pkg/sse"
	"github.com/go-go-golems/inkline/pkg/turns"
)

func TestDecodeFrameLifecycle(t *testing.T) {
	frames := []sse.Frame{
		{Event: "response.created", Data: `{"response":{}}`},
		{Event: "response.output_item.added", Data: `{"output_index":0,"item":{"type":"reasoning"}}`},
		{Event: "response.reasoning_summary_text.delta", Data: `{"output_index":0,"delta":"thinking"}`},
		{Event: "response.output_item.added", Data: `{"output_index":1,"item":{"type":"message"}}`},
		{Event: "response.output_text.delta", Data: `{"output_index":1,"delta":"Hel"}`},
		{Event: "response.output_text.delta", Data: `{"output_index":1,"delta":"lo"}`},
		{Event: "response.completed", Data: `{"response":{"status":"completed","usage":{"input_tokens":7,"output_tokens":2}}}`},
	}

	acc := sse.NewAccumulator(nil)
	for _, f := range frames {
		for _, ev := range DecodeFrame(f) {
			require.NoError(t, acc.Apply(ev))
		}
	}

	assert.Equal(t, "Hello", acc.Text())
	assert.Equal(t, []string{"thinking"}, acc.ReasoningBlocks())
	assert.Equal(t, "completed", acc.StopReason())
	require.NotNil(t, acc.Usage())
	assert.Equal(t, 7, acc.Usage().InputTokens)
	assert.True(t, acc.Finished())
}

func TestDecodeFrameBlockTypes(t *testing.T) {
	evs := DecodeFrame(sse.Frame{Event: "response.output_item.added", Data: `{"output_index":2,"item":{"type":"message"}}`})
	require.Len(t, evs, 1)
	assert.Equal(t, sse.EventBlockStart, evs[0].Type)
	assert.Equal(t, 2, evs[0].Index)
	assert.Equal(t, turns.BlockKindText, evs[0].BlockType)

	// Tool call items have no block representation.
	evs = DecodeFrame(sse.Frame{Event: "response.output_item.added", Data: `{"output_index":3,"item":{"type":"web_search_call"}}`})
	assert.Empty(t, evs)
}

func TestDecodeFrameFailure(t *testing.T) {
	evs := DecodeFrame(sse.Frame{Event: "response.failed", Data: `{"response":{"error":{"message":"quota exceeded"}}}`})
	require.Len(t, evs, 1)
	assert.Equal(t, sse.EventStreamError, evs[0].Type)
	assert.Equal(t, "quota exceeded", evs[0].Message)
}

func TestDecodeFrameIgnoresUnknownEvents(t *testing.T) {
	assert.Empty(t, DecodeFrame(sse.Frame{Event: "response.in_progress", Data: `{}`}))
	assert.Empty(t, DecodeFrame(sse.Frame{Event: "response.output_text.done", Data: `{}`}))
}
