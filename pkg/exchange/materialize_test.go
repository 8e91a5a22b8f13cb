package exchange

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/inkline/pkg/attachments"
	"github.com/go-go-golems/inkline/pkg/payloads"
	"github.com/go-go-golems/inkline/pkg/settings"
	"github.com/go-go-golems/inkline/pkg/turns"
)

func testExchanger(blobs attachments.Store) *Exchanger {
	st := &settings.StepSettings{Provider: settings.ProviderClaude, Model: "claude-sonnet-4"}
	return NewExchanger(st, blobs, payloads.NewMemStore())
}

func TestMaterializeTurnsInlinesStoreBytes(t *testing.T) {
	blobs := attachments.NewMemStore()
	blobs.Put("img-1", attachments.Blob{MimeType: "image/jpeg", Data: []byte("jpeg bytes")})
	ex := testExchanger(blobs)

	ts := []turns.Turn{
		{Role: turns.RoleUser, TextParts: []string{"see"}, Attachments: []turns.Attachment{
			{Kind: turns.AttachmentImage, StorageKey: "img-1"},
		}},
	}
	out, err := ex.materializeTurns(context.Background(), ts)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Len(t, out[0].Attachments, 1)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("jpeg bytes")), out[0].Attachments[0].Data)
	assert.Equal(t, "image/jpeg", out[0].Attachments[0].MimeType)
}

func TestMaterializeTurnsMissingAttachmentBecomesMarker(t *testing.T) {
	ex := testExchanger(attachments.NewMemStore())

	ts := []turns.Turn{
		{Role: turns.RoleUser, TextParts: []string{"see"}, Attachments: []turns.Attachment{
			{Kind: turns.AttachmentImage, StorageKey: "gone"},
		}},
	}
	out, err := ex.materializeTurns(context.Background(), ts)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Empty(t, out[0].Attachments)
	assert.Contains(t, out[0].Text(), "[attachment omitted: gone]")
}

func TestMaterializeTurnsInkBecomesImage(t *testing.T) {
	ex := testExchanger(attachments.NewMemStore())

	ts := []turns.Turn{
		{Role: turns.RoleUser, TextParts: []string{"drawing"}, Attachments: []turns.Attachment{
			{Kind: turns.AttachmentInk, Strokes: []turns.Stroke{
				{Points: []turns.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}},
			}},
		}},
	}
	out, err := ex.materializeTurns(context.Background(), ts)
	require.NoError(t, err)
	require.Len(t, out[0].Attachments, 1)
	assert.Equal(t, turns.AttachmentImage, out[0].Attachments[0].Kind)
	assert.Equal(t, "image/png", out[0].Attachments[0].MimeType)
	assert.NotEmpty(t, out[0].Attachments[0].Data)
}

func TestMaterializeTurnsLeafRasterizationFailureIsFatal(t *testing.T) {
	ex := testExchanger(attachments.NewMemStore())

	ts := []turns.Turn{
		{Role: turns.RoleUser, TextParts: []string{"drawing"}, Attachments: []turns.Attachment{
			{Kind: turns.AttachmentInk},
		}},
	}
	_, err := ex.materializeTurns(context.Background(), ts)
	require.Error(t, err)
	assert.True(t, attachments.IsRasterizationError(err))
}

func TestMaterializeTurnsAncestorRasterizationFailureDropsTurn(t *testing.T) {
	ex := testExchanger(attachments.NewMemStore())

	ts := []turns.Turn{
		{Role: turns.RoleUser, TextParts: []string{"broken ancestor"}, Attachments: []turns.Attachment{
			{Kind: turns.AttachmentInk},
		}},
		{Role: turns.RoleUser, TextParts: []string{"the leaf"}},
	}
	out, err := ex.materializeTurns(context.Background(), ts)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "the leaf", out[0].Text())
}
