package openaichat

import (
	"fmt"

	go_openai "github.com/sashabaranov/go-openai"

	"github.com/go-go-golems/inkline/pkg/settings"
	"github.com/go-go-golems/inkline/pkg/turns"
)

// Build assembles a chat completion request from resolved turns. Images are
// embedded as base64 data URIs with the configured detail level. The chat
// protocol has no document part, so PDF attachments degrade to an omission
// marker in the text. The builder performs no I/O.
func Build(st *settings.StepSettings, ts []turns.Turn) go_openai.ChatCompletionRequest {
	req := go_openai.ChatCompletionRequest{
		Model:     st.Model,
		MaxTokens: st.MaxTokens,
	}
	if st.Temperature != nil {
		req.Temperature = float32(*st.Temperature)
	}

	if st.System != "" {
		req.Messages = append(req.Messages, go_openai.ChatCompletionMessage{
			Role:    go_openai.ChatMessageRoleSystem,
			Content: st.System,
		})
	}

	for _, t := range ts {
		msg := messageFor(st, t)
		if msg.Content == "" && len(msg.MultiContent) == 0 {
			continue
		}
		req.Messages = append(req.Messages, msg)
	}

	return req
}

func messageFor(st *settings.StepSettings, t turns.Turn) go_openai.ChatCompletionMessage {
	role := go_openai.ChatMessageRoleUser
	if t.Role == turns.RoleAssistant {
		role = go_openai.ChatMessageRoleAssistant
	}

	images := imageParts(st, t.Attachments)
	text := t.Text()
	if markers := omissionMarkers(t.Attachments); markers != "" {
		if text != "" {
			text += "\n\n"
		}
		text += markers
	}

	if len(images) == 0 {
		return go_openai.ChatCompletionMessage{Role: role, Content: text}
	}

	parts := make([]go_openai.ChatMessagePart, 0, len(images)+1)
	if text != "" {
		parts = append(parts, go_openai.ChatMessagePart{
			Type: go_openai.ChatMessagePartTypeText,
			Text: text,
		})
	}
	parts = append(parts, images...)
	return go_openai.ChatCompletionMessage{Role: role, MultiContent: parts}
}

func imageParts(st *settings.StepSettings, atts []turns.Attachment) []go_openai.ChatMessagePart {
	var parts []go_openai.ChatMessagePart
	for _, att := range atts {
		if att.Kind == turns.AttachmentPDF || att.Data == "" {
			continue
		}
		parts = append(parts, go_openai.ChatMessagePart{
			Type: go_openai.ChatMessagePartTypeImageURL,
			ImageURL: &go_openai.ChatMessageImageURL{
				URL:    fmt.Sprintf("data:%s;base64,%s", att.MimeType, att.Data),
				Detail: detailFor(st.ImageDetail),
			},
		})
	}
	return parts
}

// omissionMarkers renders one marker line per attachment the chat protocol
// cannot carry, so the model knows content was dropped.
func omissionMarkers(atts []turns.Attachment) string {
	var out string
	for _, att := range atts {
		if att.Kind != turns.AttachmentPDF {
			continue
		}
		label := att.Name
		if label == "" {
			label = att.MimeType
		}
		if out != "" {
			out += "\n"
		}
		out += fmt.Sprintf("[attachment omitted: %s]", label)
	}
	return out
}

func detailFor(d turns.ImageDetail) go_openai.ImageURLDetail {
	switch d {
	case turns.ImageDetailLow:
		return go_openai.ImageURLDetailLow
	case turns.ImageDetailHigh:
		return go_openai.ImageURLDetailHigh
	default:
		return go_openai.ImageURLDetailAuto
	}
}
