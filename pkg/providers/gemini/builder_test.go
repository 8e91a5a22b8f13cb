package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/inkline/pkg/settings"
	"github.com/go-go-golems/inkline/pkg/turns"
)

func geminiSettings() *settings.StepSettings {
	return &settings.StepSettings{
		Provider:  settings.ProviderGemini,
		Model:     "gemini-2.5-pro",
		MaxTokens: 1024,
	}
}

func TestBuildContents(t *testing.T) {
	st := geminiSettings()
	st.System = "short answers"
	ts := []turns.Turn{
		{Role: turns.RoleUser, TextParts: []string{"hello"}},
		{Role: turns.RoleAssistant, TextParts: []string{"hi"}},
	}
	req := Build(st, ts)

	require.NotNil(t, req.SystemInstruction)
	assert.Equal(t, "short answers", req.SystemInstruction.Parts[0].Text)
	require.Len(t, req.Contents, 2)
	assert.Equal(t, "user", req.Contents[0].Role)
	assert.Equal(t, "model", req.Contents[1].Role)
	require.NotNil(t, req.GenerationConfig)
	assert.Equal(t, 1024, req.GenerationConfig.MaxOutputTokens)
}

func TestBuildFileURIPreferredOverInline(t *testing.T) {
	ts := []turns.Turn{
		{Role: turns.RoleUser, TextParts: []string{"read this"}, Attachments: []turns.Attachment{
			{Kind: turns.AttachmentPDF, MimeType: "application/pdf", FileURI: "https://files.example/abc"},
			{Kind: turns.AttachmentImage, MimeType: "image/png", Data: "aW1n"},
		}},
	}
	req := Build(geminiSettings(), ts)

	require.Len(t, req.Contents, 1)
	parts := req.Contents[0].Parts
	require.Len(t, parts, 3)
	require.NotNil(t, parts[1].FileData)
	assert.Equal(t, "https://files.example/abc", parts[1].FileData.FileURI)
	require.NotNil(t, parts[2].InlineData)
	assert.Equal(t, "aW1n", parts[2].InlineData.Data)
}

func TestBuildSearchGrounding(t *testing.T) {
	st := geminiSettings()
	st.WebSearch = true
	req := Build(st, []turns.Turn{{Role: turns.RoleUser, TextParts: []string{"hi"}}})
	require.Len(t, req.Tools, 1)
	assert.NotNil(t, req.Tools[0].GoogleSearch)

	st.WebSearch = false
	req = Build(st, []turns.Turn{{Role: turns.RoleUser, TextParts: []string{"hi"}}})
	assert.Empty(t, req.Tools)
}
