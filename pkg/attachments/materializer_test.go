package attachments

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/inkline/pkg/turns"
)

func TestMaterializeInlineDataWins(t *testing.T) {
	store := NewMemStore()
	store.Put("key", Blob{MimeType: "image/jpeg", Data: []byte("from store")})
	m := NewMaterializer(store, RasterOptions{})

	att := turns.Attachment{
		Kind:       turns.AttachmentImage,
		MimeType:   "image/png",
		Data:       base64.StdEncoding.EncodeToString([]byte("inline bytes")),
		StorageKey: "key",
	}
	got, err := m.Materialize(context.Background(), att, "")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []byte("inline bytes"), got.Data)
	assert.Equal(t, "image/png", got.MimeType)
}

func TestMaterializeFromStore(t *testing.T) {
	store := NewMemStore()
	store.Put("paper.pdf", Blob{MimeType: "application/pdf", Data: []byte("%PDF-1.4")})
	m := NewMaterializer(store, RasterOptions{})

	att := turns.Attachment{Kind: turns.AttachmentPDF, StorageKey: "paper.pdf"}
	got, err := m.Materialize(context.Background(), att, "")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "application/pdf", got.MimeType)
	assert.Equal(t, []byte("%PDF-1.4"), got.Data)
}

func TestMaterializeMissingKeyIsNotAnError(t *testing.T) {
	m := NewMaterializer(NewMemStore(), RasterOptions{})

	att := turns.Attachment{Kind: turns.AttachmentImage, StorageKey: "gone"}
	got, err := m.Materialize(context.Background(), att, "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMaterializeInkInlineStrokes(t *testing.T) {
	m := NewMaterializer(NewMemStore(), RasterOptions{})

	att := turns.Attachment{
		Kind:    turns.AttachmentInk,
		Strokes: []turns.Stroke{{Points: []turns.Point{{X: 0, Y: 0}, {X: 20, Y: 20}}}},
	}
	got, err := m.Materialize(context.Background(), att, "")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "image/png", got.MimeType)
	assert.NotEmpty(t, got.Data)
}

func TestMaterializeInkStrokesFromStore(t *testing.T) {
	strokes := []turns.Stroke{{Points: []turns.Point{{X: 1, Y: 1}, {X: 30, Y: 10}}}}
	raw, err := json.Marshal(strokes)
	require.NoError(t, err)

	store := NewMemStore()
	store.Put("ink-1", Blob{MimeType: "application/json", Data: raw})
	m := NewMaterializer(store, RasterOptions{})

	att := turns.Attachment{Kind: turns.AttachmentInk, StorageKey: "ink-1"}
	got, err := m.Materialize(context.Background(), att, "")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "image/png", got.MimeType)
}

func TestMaterializeInkEmptyStrokesFails(t *testing.T) {
	m := NewMaterializer(NewMemStore(), RasterOptions{})

	att := turns.Attachment{
		Kind:    turns.AttachmentInk,
		Strokes: []turns.Stroke{},
	}
	_, err := m.Materialize(context.Background(), att, "")
	require.Error(t, err)
	assert.True(t, IsRasterizationError(err))
}
