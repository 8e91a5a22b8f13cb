package claude

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/inkline/pkg/settings"
	"github.com/go-go-golems/inkline/pkg/turns"
)

func claudeSettings() *settings.StepSettings {
	return &settings.StepSettings{
		Provider:  settings.ProviderClaude,
		Model:     "claude-sonnet-4",
		MaxTokens: 1024,
		System:    "be brief",
	}
}

func TestBuildBasicConversation(t *testing.T) {
	ts := []turns.Turn{
		{Role: turns.RoleUser, TextParts: []string{"hello"}},
		{Role: turns.RoleAssistant, TextParts: []string{"hi there"}},
		{Role: turns.RoleUser, TextParts: []string{"and?"}},
	}
	req := Build(claudeSettings(), ts)

	assert.Equal(t, "claude-sonnet-4", req.Model)
	assert.Equal(t, 1024, req.MaxTokens)
	assert.Equal(t, "be brief", req.System)
	assert.True(t, req.Stream)
	require.Len(t, req.Messages, 3)
	assert.Equal(t, RoleUser, req.Messages[0].Role)
	assert.Equal(t, RoleAssistant, req.Messages[1].Role)
	require.Len(t, req.Messages[0].Content, 1)
	assert.Equal(t, "hello", *req.Messages[0].Content[0].Text)
}

func TestBuildAttachmentBlocks(t *testing.T) {
	ts := []turns.Turn{
		{Role: turns.RoleUser, TextParts: []string{"look at these"}, Attachments: []turns.Attachment{
			{Kind: turns.AttachmentImage, MimeType: "image/png", Data: "aW1n"},
			{Kind: turns.AttachmentPDF, MimeType: "application/pdf", Data: "cGRm", Name: "paper.pdf"},
		}},
	}
	req := Build(claudeSettings(), ts)

	require.Len(t, req.Messages, 1)
	content := req.Messages[0].Content
	require.Len(t, content, 3)
	assert.Equal(t, "text", content[0].Type)
	assert.Equal(t, "image", content[1].Type)
	assert.Equal(t, "image/png", content[1].Source.MediaType)
	assert.Equal(t, "aW1n", content[1].Source.Data)
	assert.Equal(t, "document", content[2].Type)
	assert.Equal(t, "application/pdf", content[2].Source.MediaType)
}

func TestBuildSkipsUnmaterializedAttachments(t *testing.T) {
	ts := []turns.Turn{
		{Role: turns.RoleUser, TextParts: []string{"hi"}, Attachments: []turns.Attachment{
			{Kind: turns.AttachmentImage, StorageKey: "never-resolved"},
		}},
	}
	req := Build(claudeSettings(), ts)
	require.Len(t, req.Messages, 1)
	assert.Len(t, req.Messages[0].Content, 1)
}

func TestBuildThinkingBudget(t *testing.T) {
	st := claudeSettings()
	st.Effort = settings.EffortMedium
	req := Build(st, []turns.Turn{{Role: turns.RoleUser, TextParts: []string{"hi"}}})

	require.NotNil(t, req.Thinking)
	assert.Equal(t, "enabled", req.Thinking.Type)
	assert.Equal(t, 4096, req.Thinking.BudgetTokens)
}

func TestBuildNoThinkingWithoutEffort(t *testing.T) {
	req := Build(claudeSettings(), []turns.Turn{{Role: turns.RoleUser, TextParts: []string{"hi"}}})
	assert.Nil(t, req.Thinking)
}
