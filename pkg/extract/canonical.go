package extract

import (
	"encoding/json"

	"github.com/go-go-golems/inkline/pkg/turns"
)

// CanonicalMeta carries the provider-agnostic metadata kept alongside a
// canonical message.
type CanonicalMeta struct {
	UsedWebSearch          bool     `json:"usedWebSearch,omitempty"`
	Effort                 string   `json:"effort,omitempty"`
	Verbosity              string   `json:"verbosity,omitempty"`
	ReasoningSummaryBlocks []string `json:"reasoningSummaryBlocks,omitempty"`
}

// CanonicalMessage is the provider-agnostic reduction of an assistant reply.
// It is created once per exchange, immutable, and reused as context on later
// requests so the raw provider payload never needs re-parsing.
type CanonicalMessage struct {
	Role turns.Role    `json:"role"`
	Text string        `json:"text"`
	Meta CanonicalMeta `json:"meta,omitempty"`
}

// Extract reduces a raw provider reply to a canonical message, trying the
// provider text shapes in fixed priority order and falling back to the
// caller-supplied text (typically the locally accumulated streaming text).
// It returns nil when both the reply and the fallback are empty.
func Extract(raw json.RawMessage, fallback string) *CanonicalMessage {
	text := TextFromRaw(raw)
	if text == "" {
		text = fallback
	}
	if text == "" {
		return nil
	}
	return &CanonicalMessage{Role: turns.RoleAssistant, Text: text}
}

// TextFromRaw pulls the main text out of any provider's raw reply. The
// probes run in a fixed priority order:
//  1. a single top-level string field ("completion", "text")
//  2. the first text-typed block inside a nested output array ("output",
//     "content")
//  3. the first candidate's first part (Gemini)
func TextFromRaw(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return ""
	}

	for _, field := range []string{"completion", "text"} {
		if s, ok := m[field].(string); ok && s != "" {
			return s
		}
	}

	for _, field := range []string{"output", "content"} {
		if arr, ok := m[field].([]any); ok {
			if s := firstTextBlock(arr); s != "" {
				return s
			}
		}
	}

	if cands, ok := m["candidates"].([]any); ok && len(cands) > 0 {
		if cand, ok := cands[0].(map[string]any); ok {
			if content, ok := cand["content"].(map[string]any); ok {
				if parts, ok := content["parts"].([]any); ok && len(parts) > 0 {
					if part, ok := parts[0].(map[string]any); ok {
						if s, ok := part["text"].(string); ok {
							return s
						}
					}
				}
			}
		}
	}

	// OpenAI chat completions: choices[0].message.content.
	if choices, ok := m["choices"].([]any); ok && len(choices) > 0 {
		if choice, ok := choices[0].(map[string]any); ok {
			if msg, ok := choice["message"].(map[string]any); ok {
				if s, ok := msg["content"].(string); ok {
					return s
				}
			}
		}
	}

	return ""
}

// firstTextBlock returns the text of the first text-typed block in a content
// array. Responses nests message items one level deeper; those are probed
// recursively.
func firstTextBlock(arr []any) string {
	for _, item := range arr {
		block, ok := item.(map[string]any)
		if !ok {
			continue
		}
		typ, _ := block["type"].(string)
		switch typ {
		case "text", "output_text":
			if s, ok := block["text"].(string); ok && s != "" {
				return s
			}
		case "message":
			if inner, ok := block["content"].([]any); ok {
				if s := firstTextBlock(inner); s != "" {
					return s
				}
			}
		}
	}
	return ""
}
