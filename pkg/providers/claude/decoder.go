package claude

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/inkline/pkg/sse"
	"github.com/go-go-golems/inkline/pkg/turns"
)

// DecodeFrame maps one Messages API stream frame to canonical stream events.
// Unknown event names and pings decode to nothing.
func DecodeFrame(f sse.Frame) []sse.Event {
	switch f.Event {
	case "message_start":
		return []sse.Event{{Type: sse.EventMessageStart}}

	case "content_block_start":
		var payload struct {
			Index        int `json:"index"`
			ContentBlock struct {
				Type string `json:"type"`
			} `json:"content_block"`
		}
		if err := json.Unmarshal([]byte(f.Data), &payload); err != nil {
			log.Debug().Err(err).Msg("failed to parse content_block_start")
			return nil
		}
		blockType := turns.BlockKindText
		if payload.ContentBlock.Type == "thinking" {
			blockType = turns.BlockKindReasoning
		}
		return []sse.Event{{Type: sse.EventBlockStart, Index: payload.Index, BlockType: blockType}}

	case "content_block_delta":
		var payload struct {
			Index int `json:"index"`
			Delta struct {
				Type     string `json:"type"`
				Text     string `json:"text"`
				Thinking string `json:"thinking"`
			} `json:"delta"`
		}
		if err := json.Unmarshal([]byte(f.Data), &payload); err != nil {
			log.Debug().Err(err).Msg("failed to parse content_block_delta")
			return nil
		}
		switch payload.Delta.Type {
		case "text_delta":
			return []sse.Event{{Type: sse.EventTextDelta, Index: payload.Index, Text: payload.Delta.Text}}
		case "thinking_delta":
			return []sse.Event{{Type: sse.EventTextDelta, Index: payload.Index, Text: payload.Delta.Thinking}}
		}
		return nil

	case "message_delta":
		var payload struct {
			Delta struct {
				StopReason string `json:"stop_reason"`
			} `json:"delta"`
			Usage struct {
				OutputTokens int `json:"output_tokens"`
			} `json:"usage"`
		}
		if err := json.Unmarshal([]byte(f.Data), &payload); err != nil {
			log.Debug().Err(err).Msg("failed to parse message_delta")
			return nil
		}
		return []sse.Event{{
			Type:       sse.EventMessageMeta,
			StopReason: payload.Delta.StopReason,
			Usage:      &sse.Usage{OutputTokens: payload.Usage.OutputTokens},
		}}

	case "message_stop":
		return []sse.Event{{Type: sse.EventDone}}

	case "error":
		var payload ErrorResponse
		_ = json.Unmarshal([]byte(f.Data), &payload)
		return []sse.Event{{Type: sse.EventStreamError, Message: payload.Error.Message}}
	}

	return nil
}
