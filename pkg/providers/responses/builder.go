package responses

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/inkline/pkg/settings"
	"github.com/go-go-golems/inkline/pkg/turns"
)

// Build assembles a Responses API request from resolved turns. The requested
// reasoning effort is mapped to the nearest level the model supports rather
// than failing the exchange, and the web search tool is attached only when
// the model's capability flag allows it. The builder performs no I/O.
func Build(st *settings.StepSettings, ts []turns.Turn) *Request {
	req := &Request{
		Model:        st.Model,
		Stream:       true,
		Instructions: st.System,
	}
	if st.MaxTokens > 0 {
		maxTokens := st.MaxTokens
		req.MaxOutputTokens = &maxTokens
	}
	if st.Temperature != nil {
		req.Temperature = st.Temperature
	}

	if effort := settings.EffortOrFallback(st.Model, st.Effort); effort != settings.EffortNone {
		if effort != st.Effort {
			log.Debug().
				Str("model", st.Model).
				Str("requested", string(st.Effort)).
				Str("using", string(effort)).
				Msg("adjusted reasoning effort to a supported level")
		}
		req.Reasoning = &Reasoning{Effort: string(effort)}
		if st.ReasoningSummary {
			req.Reasoning.Summary = "auto"
		}
	}

	if st.Verbosity != "" {
		req.Text = &Text{Verbosity: st.Verbosity}
	}

	if settings.AllowWebSearch(st.Model, st.WebSearch) {
		req.Tools = append(req.Tools, Tool{Type: "web_search"})
	}

	for _, t := range ts {
		in := inputFor(st, t)
		if len(in.Content) == 0 {
			continue
		}
		req.Input = append(req.Input, in)
	}

	return req
}

func inputFor(st *settings.StepSettings, t turns.Turn) Input {
	role := "user"
	textType := "input_text"
	if t.Role == turns.RoleAssistant {
		role = "assistant"
		textType = "output_text"
	}

	in := Input{Role: role}
	if text := t.Text(); text != "" {
		in.Content = append(in.Content, ContentPart{Type: textType, Text: text})
	}
	for _, att := range t.Attachments {
		if att.Data == "" {
			continue
		}
		dataURI := fmt.Sprintf("data:%s;base64,%s", att.MimeType, att.Data)
		if att.Kind == turns.AttachmentPDF {
			name := att.Name
			if name == "" {
				name = "document.pdf"
			}
			in.Content = append(in.Content, ContentPart{
				Type:     "input_file",
				Filename: name,
				FileData: dataURI,
			})
			continue
		}
		in.Content = append(in.Content, ContentPart{
			Type:     "input_image",
			ImageURL: dataURI,
			Detail:   string(st.ImageDetail),
		})
	}
	return in
}
