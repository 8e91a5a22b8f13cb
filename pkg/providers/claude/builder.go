package claude

import (
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/inkline/pkg/settings"
	"github.com/go-go-golems/inkline/pkg/turns"
)

// Role string constants used when building Claude messages
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// thinkingBudgets maps a reasoning effort level to an extended-thinking
// token budget.
var thinkingBudgets = map[settings.Effort]int{
	settings.EffortLow:    1024,
	settings.EffortMedium: 4096,
	settings.EffortHigh:   16384,
}

// Build assembles a Messages API request from resolved turns. Attachments
// must already be materialized inline; image attachments become image blocks
// and PDFs become document blocks. The builder performs no I/O.
func Build(st *settings.StepSettings, ts []turns.Turn) *MessageRequest {
	req := &MessageRequest{
		Model:     st.Model,
		MaxTokens: st.MaxTokens,
		Stream:    true,
		System:    st.System,
	}
	if st.Temperature != nil {
		req.Temperature = st.Temperature
	}
	if budget, ok := thinkingBudgets[st.Effort]; ok {
		caps := settings.CapabilitiesFor(st.Model)
		if caps.Thinking {
			req.Thinking = &Thinking{Type: "enabled", BudgetTokens: budget}
		} else {
			log.Debug().Str("model", st.Model).Msg("model does not support thinking, ignoring effort")
		}
	}

	for _, t := range ts {
		msg := Message{Role: roleFor(t.Role)}
		if text := t.Text(); text != "" {
			msg.Content = append(msg.Content, NewTextContent(text))
		}
		for _, att := range t.Attachments {
			block, ok := contentForAttachment(att)
			if !ok {
				continue
			}
			msg.Content = append(msg.Content, block)
		}
		if len(msg.Content) == 0 {
			continue
		}
		req.Messages = append(req.Messages, msg)
	}

	return req
}

func roleFor(r turns.Role) string {
	if r == turns.RoleAssistant {
		return RoleAssistant
	}
	return RoleUser
}

func contentForAttachment(att turns.Attachment) (Content, bool) {
	if att.Data == "" {
		return Content{}, false
	}
	switch att.Kind {
	case turns.AttachmentPDF:
		return NewDocumentContent(att.MimeType, att.Data), true
	default:
		return NewImageContent(att.MimeType, att.Data), true
	}
}
