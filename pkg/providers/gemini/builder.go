package gemini

import (
	"github.com/go-go-golems/inkline/pkg/settings"
	"github.com/go-go-golems/inkline/pkg/turns"
)

// Build assembles a generateContent request from resolved turns. Attachments
// with a resolved file URI become fileData references; everything else is
// inlined as base64. Search grounding is attached only when the model's
// capability flag allows it. The builder performs no I/O.
func Build(st *settings.StepSettings, ts []turns.Turn) *GenerateContentRequest {
	req := &GenerateContentRequest{}

	if st.System != "" {
		req.SystemInstruction = &Content{Parts: []Part{{Text: st.System}}}
	}
	if st.MaxTokens > 0 || st.Temperature != nil {
		req.GenerationConfig = &GenerationConfig{
			MaxOutputTokens: st.MaxTokens,
			Temperature:     st.Temperature,
		}
	}
	if settings.AllowWebSearch(st.Model, st.WebSearch) {
		req.Tools = append(req.Tools, Tool{GoogleSearch: &GoogleSearch{}})
	}

	for _, t := range ts {
		c := contentFor(t)
		if len(c.Parts) == 0 {
			continue
		}
		req.Contents = append(req.Contents, c)
	}

	return req
}

func contentFor(t turns.Turn) Content {
	role := "user"
	if t.Role == turns.RoleAssistant {
		role = "model"
	}
	c := Content{Role: role}
	if text := t.Text(); text != "" {
		c.Parts = append(c.Parts, Part{Text: text})
	}
	for _, att := range t.Attachments {
		if att.FileURI != "" {
			c.Parts = append(c.Parts, Part{FileData: &FileData{
				MimeType: att.MimeType,
				FileURI:  att.FileURI,
			}})
			continue
		}
		if att.Data == "" {
			continue
		}
		c.Parts = append(c.Parts, Part{InlineData: &Blob{
			MimeType: att.MimeType,
			Data:     att.Data,
		}})
	}
	return c
}
