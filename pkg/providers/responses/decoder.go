package responses

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/inkline/pkg/sse"
	"github.com/go-go-golems/inkline/pkg/turns"
)

// DecodeFrame maps one Responses API stream frame to canonical stream
// events. Item types without a block representation (tool calls) and
// unknown event names decode to nothing.
func DecodeFrame(f sse.Frame) []sse.Event {
	switch f.Event {
	case "response.created":
		return []sse.Event{{Type: sse.EventMessageStart}}

	case "response.output_item.added":
		var payload struct {
			OutputIndex int `json:"output_index"`
			Item        struct {
				Type string `json:"type"`
			} `json:"item"`
		}
		if err := json.Unmarshal([]byte(f.Data), &payload); err != nil {
			log.Debug().Err(err).Msg("failed to parse output_item.added")
			return nil
		}
		switch payload.Item.Type {
		case "message":
			return []sse.Event{{Type: sse.EventBlockStart, Index: payload.OutputIndex, BlockType: turns.BlockKindText}}
		case "reasoning":
			return []sse.Event{{Type: sse.EventBlockStart, Index: payload.OutputIndex, BlockType: turns.BlockKindReasoning}}
		}
		return nil

	case "response.output_text.delta", "response.reasoning_summary_text.delta":
		var payload struct {
			OutputIndex int    `json:"output_index"`
			Delta       string `json:"delta"`
		}
		if err := json.Unmarshal([]byte(f.Data), &payload); err != nil {
			log.Debug().Err(err).Msg("failed to parse text delta")
			return nil
		}
		return []sse.Event{{Type: sse.EventTextDelta, Index: payload.OutputIndex, Text: payload.Delta}}

	case "response.completed":
		var payload struct {
			Response struct {
				Status string `json:"status"`
				Usage  struct {
					InputTokens  int `json:"input_tokens"`
					OutputTokens int `json:"output_tokens"`
				} `json:"usage"`
			} `json:"response"`
		}
		if err := json.Unmarshal([]byte(f.Data), &payload); err != nil {
			log.Debug().Err(err).Msg("failed to parse response.completed")
			return []sse.Event{{Type: sse.EventDone}}
		}
		return []sse.Event{
			{
				Type:       sse.EventMessageMeta,
				StopReason: payload.Response.Status,
				Usage: &sse.Usage{
					InputTokens:  payload.Response.Usage.InputTokens,
					OutputTokens: payload.Response.Usage.OutputTokens,
				},
			},
			{Type: sse.EventDone},
		}

	case "response.failed":
		var payload struct {
			Response struct {
				Error struct {
					Message string `json:"message"`
				} `json:"error"`
			} `json:"response"`
		}
		_ = json.Unmarshal([]byte(f.Data), &payload)
		return []sse.Event{{Type: sse.EventStreamError, Message: payload.Response.Error.Message}}

	case "error":
		var payload struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal([]byte(f.Data), &payload)
		return []sse.Event{{Type: sse.EventStreamError, Message: payload.Message}}
	}

	return nil
}
