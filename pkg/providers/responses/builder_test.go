package responses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/inkline/pkg/settings"
	"github.com/go-go-golems/inkline/pkg/turns"
)

func responsesSettings() *settings.StepSettings {
	return &settings.StepSettings{
		Provider:    settings.ProviderResponses,
		Model:       "gpt-5",
		MaxTokens:   2048,
		ImageDetail: turns.ImageDetailAuto,
	}
}

func TestBuildRolesAndTextTypes(t *testing.T) {
	ts := []turns.Turn{
		{Role: turns.RoleUser, TextParts: []string{"question"}},
		{Role: turns.RoleAssistant, TextParts: []string{"answer"}},
	}
	req := Build(responsesSettings(), ts)

	assert.Equal(t, "gpt-5", req.Model)
	assert.True(t, req.Stream)
	require.NotNil(t, req.MaxOutputTokens)
	assert.Equal(t, 2048, *req.MaxOutputTokens)
	require.Len(t, req.Input, 2)
	assert.Equal(t, "user", req.Input[0].Role)
	assert.Equal(t, "input_text", req.Input[0].Content[0].Type)
	assert.Equal(t, "assistant", req.Input[1].Role)
	assert.Equal(t, "output_text", req.Input[1].Content[0].Type)
}

func TestBuildEffortAndSummary(t *testing.T) {
	st := responsesSettings()
	st.Effort = settings.EffortHigh
	st.ReasoningSummary = true
	req := Build(st, []turns.Turn{{Role: turns.RoleUser, TextParts: []string{"hi"}}})

	require.NotNil(t, req.Reasoning)
	assert.Equal(t, "high", req.Reasoning.Effort)
	assert.Equal(t, "auto", req.Reasoning.Summary)
}

func TestBuildEffortFallback(t *testing.T) {
	// gpt-5-pro only offers medium and high; minimal degrades upward.
	st := responsesSettings()
	st.Model = "gpt-5-pro"
	st.Effort = settings.EffortMinimal
	req := Build(st, []turns.Turn{{Role: turns.RoleUser, TextParts: []string{"hi"}}})

	require.NotNil(t, req.Reasoning)
	assert.Equal(t, "medium", req.Reasoning.Effort)
}

func TestBuildWebSearchGating(t *testing.T) {
	st := responsesSettings()
	st.WebSearch = true
	req := Build(st, []turns.Turn{{Role: turns.RoleUser, TextParts: []string{"hi"}}})
	require.Len(t, req.Tools, 1)
	assert.Equal(t, "web_search", req.Tools[0].Type)

	// gpt-4 has no web search capability; the request is silently dropped.
	st.Model = "gpt-4-turbo"
	req = Build(st, []turns.Turn{{Role: turns.RoleUser, TextParts: []string{"hi"}}})
	assert.Empty(t, req.Tools)
}

func TestBuildVerbosity(t *testing.T) {
	st := responsesSettings()
	st.Verbosity = "low"
	req := Build(st, []turns.Turn{{Role: turns.RoleUser, TextParts: []string{"hi"}}})
	require.NotNil(t, req.Text)
	assert.Equal(t, "low", req.Text.Verbosity)
}

func TestBuildAttachments(t *testing.T) {
	ts := []turns.Turn{
		{Role: turns.RoleUser, TextParts: []string{"see"}, Attachments: []turns.Attachment{
			{Kind: turns.AttachmentImage, MimeType: "image/png", Data: "aW1n"},
			{Kind: turns.AttachmentPDF, MimeType: "application/pdf", Data: "cGRm", Name: "doc.pdf"},
		}},
	}
	req := Build(responsesSettings(), ts)

	require.Len(t, req.Input, 1)
	content := req.Input[0].Content
	require.Len(t, content, 3)
	assert.Equal(t, "input_image", content[1].Type)
	assert.Equal(t, "data:image/png;base64,aW1n", content[1].ImageURL)
	assert.Equal(t, "input_file", content[2].Type)
	assert.Equal(t, "doc.pdf", content[2].Filename)
	assert.Equal(t, "data:application/pdf;base64,cGRm", content[2].FileData)
}
