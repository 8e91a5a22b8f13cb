package chain

import (
	"fmt"

	"github.com/go-go-golems/inkline/pkg/turns"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// inkPlaceholder stands in for an ink node's body; the drawing itself travels
// as a rasterized image attachment.
const inkPlaceholder = "The content of this message is a drawing, attached as an image."

// AssistantTextFunc resolves the text of an assistant node, preferring a
// previously extracted canonical message over the raw persisted reply. A nil
// func falls back to the node's own Content field.
type AssistantTextFunc func(n *Node) string

// Resolver walks the arena from a leaf to its root and assembles the linear
// turn sequence sent to a provider.
type Resolver struct {
	arena         *Arena
	assistantText AssistantTextFunc
}

// NewResolver returns a resolver over the given arena.
func NewResolver(arena *Arena, assistantText AssistantTextFunc) *Resolver {
	return &Resolver{arena: arena, assistantText: assistantText}
}

// Resolve produces the ordered root-to-leaf turn sequence for the given leaf
// node. A parent id that is absent from the node set truncates the walk (the
// chain is used as collected); only an unknown leaf id is an error.
func (r *Resolver) Resolve(leafID string) ([]turns.Turn, error) {
	li, ok := r.arena.index[leafID]
	if !ok {
		return nil, errors.Errorf("unknown leaf node %s", leafID)
	}

	// Walk parent links backwards, then reverse.
	var idxs []int32
	for i := li; ; {
		idxs = append(idxs, i)
		n := &r.arena.nodes[i]
		p := r.arena.parent(i)
		if p == noParent {
			if n.ParentID != "" {
				log.Debug().
					Str("node_id", n.ID).
					Str("missing_parent", n.ParentID).
					Msg("broken chain, truncating walk")
			}
			break
		}
		i = p
	}
	for l, rgt := 0, len(idxs)-1; l < rgt; l, rgt = l+1, rgt-1 {
		idxs[l], idxs[rgt] = idxs[rgt], idxs[l]
	}

	leaf := &r.arena.nodes[li]
	selected := r.selectionSet(leaf, idxs)

	out := make([]turns.Turn, 0, len(idxs))
	for _, i := range idxs {
		n := &r.arena.nodes[i]
		t := r.assembleTurn(n, leaf, selected)
		// The leaf turn is always kept, even when empty, so the sequence
		// ends at the node actually being sent.
		if !t.HasContent() && n.ID != leaf.ID {
			log.Debug().Str("node_id", n.ID).Msg("skipping empty turn")
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// selectionSet computes the attachment-selection key set once per resolution.
// The keys come from the leaf; when the leaf is an ink node, every ancestor
// pdf node's synthetic "pdf:{id}" key is auto-included, since ink annotations
// reference the document they were drawn over.
func (r *Resolver) selectionSet(leaf *Node, idxs []int32) map[string]struct{} {
	sel := make(map[string]struct{}, len(leaf.SelectedAttachmentKeys))
	for _, k := range leaf.SelectedAttachmentKeys {
		sel[k] = struct{}{}
	}
	if leaf.Kind == NodeKindInk {
		for _, i := range idxs {
			if n := &r.arena.nodes[i]; n.Kind == NodeKindPDF && n.ID != leaf.ID {
				sel["pdf:"+n.ID] = struct{}{}
			}
		}
	}
	return sel
}

func (r *Resolver) includeAttachment(n *Node, i int, leaf *Node, sel map[string]struct{}) bool {
	if n.ID == leaf.ID {
		// A turn always includes all of its own attachments.
		return true
	}
	if _, ok := sel[fmt.Sprintf("%s:%d", n.ID, i)]; ok {
		return true
	}
	if n.Kind == NodeKindPDF {
		if _, ok := sel["pdf:"+n.ID]; ok {
			return true
		}
	}
	return false
}

func (r *Resolver) assembleTurn(n *Node, leaf *Node, sel map[string]struct{}) turns.Turn {
	role := turns.RoleUser
	if n.Kind == NodeKindText && n.Author == turns.RoleAssistant {
		role = turns.RoleAssistant
	}
	t := turns.Turn{Role: role}

	if n.ReplySnippet != "" {
		t.AppendText("Replying to: " + n.ReplySnippet)
	}
	for i, cs := range n.ContextSnippets {
		t.AppendText(fmt.Sprintf("Context %d: %s", i+1, cs))
	}

	switch n.Kind {
	case NodeKindText:
		body := n.Content
		if role == turns.RoleAssistant && r.assistantText != nil {
			body = r.assistantText(n)
		}
		t.AppendText(body)
	case NodeKindInk:
		t.AppendText(inkPlaceholder)
	case NodeKindPDF:
		// The document travels as an attachment; no body.
	}

	for i, att := range n.Attachments {
		if r.includeAttachment(n, i, leaf, sel) {
			t.Attachments = append(t.Attachments, att)
		}
	}
	if n.Kind == NodeKindInk && len(n.Strokes) > 0 {
		t.Attachments = append(t.Attachments, turns.Attachment{
			Kind:    turns.AttachmentInk,
			Strokes: n.Strokes,
		})
	}
	return t
}
