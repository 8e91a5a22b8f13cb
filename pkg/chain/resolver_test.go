package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/inkline/pkg/turns"
)

func testArena() *Arena {
	return NewArena([]Node{
		{ID: "root", Kind: NodeKindText, Author: turns.RoleUser, Content: "What is this paper about?",
			Attachments: []turns.Attachment{
				{Kind: turns.AttachmentImage, StorageKey: "img-1"},
				{Kind: turns.AttachmentImage, StorageKey: "img-2"},
			}},
		{ID: "reply", ParentID: "root", Kind: NodeKindText, Author: turns.RoleAssistant, Content: "It is about birds."},
		{ID: "pdf", ParentID: "reply", Kind: NodeKindPDF,
			Attachments: []turns.Attachment{
				{Kind: turns.AttachmentPDF, StorageKey: "paper.pdf", Name: "paper.pdf"},
			}},
		{ID: "leaf", ParentID: "pdf", Kind: NodeKindText, Author: turns.RoleUser, Content: "Which birds?",
			SelectedAttachmentKeys: []string{"root:1"}},
		{ID: "ink-leaf", ParentID: "pdf", Kind: NodeKindInk,
			Strokes: []turns.Stroke{{Points: []turns.Point{{X: 0, Y: 0}, {X: 5, Y: 5}}}}},
	})
}

func TestResolveEndsAtLeaf(t *testing.T) {
	r := NewResolver(testArena(), nil)
	ts, err := r.Resolve("leaf")
	require.NoError(t, err)
	// The pdf node contributes nothing here (not selected), so its empty
	// turn is dropped and the sequence ends at the leaf.
	require.Len(t, ts, 3)

	assert.Equal(t, turns.RoleUser, ts[0].Role)
	assert.Contains(t, ts[0].Text(), "What is this paper about?")
	assert.Equal(t, turns.RoleAssistant, ts[1].Role)
	assert.Equal(t, turns.RoleUser, ts[2].Role)
	assert.Equal(t, "Which birds?", ts[2].Text())
}

func TestResolveUnknownLeaf(t *testing.T) {
	r := NewResolver(testArena(), nil)
	_, err := r.Resolve("nope")
	assert.Error(t, err)
}

func TestResolveTruncatesBrokenChain(t *testing.T) {
	arena := NewArena([]Node{
		{ID: "orphan", ParentID: "gone", Kind: NodeKindText, Author: turns.RoleUser, Content: "hello"},
		{ID: "child", ParentID: "orphan", Kind: NodeKindText, Author: turns.RoleUser, Content: "again"},
	})
	r := NewResolver(arena, nil)
	ts, err := r.Resolve("child")
	require.NoError(t, err)
	require.Len(t, ts, 2)
	assert.Equal(t, "hello", ts[0].Text())
	assert.Equal(t, "again", ts[1].Text())
}

func TestResolveAttachmentSelection(t *testing.T) {
	r := NewResolver(testArena(), nil)
	ts, err := r.Resolve("leaf")
	require.NoError(t, err)

	// Only the selected ancestor attachment ("root:1") travels; the pdf
	// node's turn disappears entirely because the leaf did not opt into it.
	require.Len(t, ts, 3)
	require.Len(t, ts[0].Attachments, 1)
	assert.Equal(t, "img-2", ts[0].Attachments[0].StorageKey)
}

func TestResolveInkLeafAutoIncludesAncestorPDFs(t *testing.T) {
	r := NewResolver(testArena(), nil)
	ts, err := r.Resolve("ink-leaf")
	require.NoError(t, err)
	require.Len(t, ts, 4)

	// The pdf travels even though the ink node selected nothing.
	pdfTurn := ts[2]
	require.Len(t, pdfTurn.Attachments, 1)
	assert.Equal(t, "paper.pdf", pdfTurn.Attachments[0].StorageKey)

	// The ink leaf carries the placeholder body plus a synthetic ink
	// attachment for its strokes.
	leafTurn := ts[3]
	assert.Contains(t, leafTurn.Text(), "drawing")
	require.Len(t, leafTurn.Attachments, 1)
	assert.Equal(t, turns.AttachmentInk, leafTurn.Attachments[0].Kind)
	assert.Len(t, leafTurn.Attachments[0].Strokes, 1)
}

func TestResolveSelectionIsStablePerResolution(t *testing.T) {
	r := NewResolver(testArena(), nil)
	first, err := r.Resolve("leaf")
	require.NoError(t, err)
	second, err := r.Resolve("leaf")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveSnippetLines(t *testing.T) {
	arena := NewArena([]Node{
		{ID: "a", Kind: NodeKindText, Author: turns.RoleUser, Content: "first"},
		{ID: "b", ParentID: "a", Kind: NodeKindText, Author: turns.RoleUser, Content: "question",
			ReplySnippet:    "a highlighted passage",
			ContextSnippets: []string{"nearby text", "more text"}},
	})
	r := NewResolver(arena, nil)
	ts, err := r.Resolve("b")
	require.NoError(t, err)

	text := ts[1].Text()
	assert.Contains(t, text, "Replying to: a highlighted passage")
	assert.Contains(t, text, "Context 1: nearby text")
	assert.Contains(t, text, "Context 2: more text")
	assert.Contains(t, text, "question")
}

func TestResolveAssistantTextFunc(t *testing.T) {
	arena := NewArena([]Node{
		{ID: "q", Kind: NodeKindText, Author: turns.RoleUser, Content: "hi"},
		{ID: "a", ParentID: "q", Kind: NodeKindText, Author: turns.RoleAssistant, Content: "stale copy", RawResponseKey: "k"},
		{ID: "q2", ParentID: "a", Kind: NodeKindText, Author: turns.RoleUser, Content: "and?"},
	})
	r := NewResolver(arena, func(n *Node) string {
		return "canonical text"
	})
	ts, err := r.Resolve("q2")
	require.NoError(t, err)
	assert.Equal(t, "canonical text", ts[1].Text())
}
