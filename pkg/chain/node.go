package chain

import (
	"encoding/json"
	"os"

	"github.com/go-go-golems/inkline/pkg/turns"
)

// NodeKind identifies the kind of a conversation node.
type NodeKind string

const (
	NodeKindText NodeKind = "text"
	NodeKindPDF  NodeKind = "pdf"
	NodeKindInk  NodeKind = "ink"
)

// Node is one entry in the parent-pointer conversation tree. A node with an
// empty ParentID is a root; ParentID chains must terminate in a root.
type Node struct {
	ID       string     `json:"id"`
	ParentID string     `json:"parentId,omitempty"`
	Kind     NodeKind   `json:"kind"`
	Author   turns.Role `json:"author,omitempty"` // text nodes only

	Content string         `json:"content,omitempty"` // text nodes
	Strokes []turns.Stroke `json:"strokes,omitempty"` // ink nodes

	Attachments []turns.Attachment `json:"attachments,omitempty"`

	// SelectedAttachmentKeys lists the ancestor attachments this node opts
	// into, as composite "{nodeId}:{i}" keys (or "pdf:{nodeId}" for whole
	// documents). Only meaningful on text and ink nodes.
	SelectedAttachmentKeys []string `json:"selectedAttachmentKeys,omitempty"`

	// RawResponseKey points at the persisted provider reply for assistant
	// text nodes.
	RawResponseKey string `json:"rawResponseKey,omitempty"`

	ReplySnippet    string   `json:"replySnippet,omitempty"`
	ContextSnippets []string `json:"contextSnippets,omitempty"`
}

// Document is the on-disk JSON form of a conversation graph.
type Document struct {
	ChatID string `json:"chatId"`
	Nodes  []Node `json:"nodes"`
}

// LoadDocument reads a conversation document from a JSON file.
func LoadDocument(filename string) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Save writes the document to a JSON file.
func (d *Document) Save(filename string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}
