package turns

// BlockKind discriminates the content-block union used when reconstructing a
// provider reply.
type BlockKind string

const (
	BlockKindText      BlockKind = "text"
	BlockKindImageRef  BlockKind = "image-ref"
	BlockKindFileRef   BlockKind = "file-ref"
	BlockKindReasoning BlockKind = "reasoning"
)

// ContentBlock is one unit of streamed or structured reply content, addressed
// by position index during streaming.
type ContentBlock struct {
	Kind     BlockKind `json:"kind"`
	Text     string    `json:"text,omitempty"`
	Ref      string    `json:"ref,omitempty"`
	MimeType string    `json:"mimeType,omitempty"`
}

// NewTextBlock returns a text content block.
func NewTextBlock(text string) ContentBlock {
	return ContentBlock{Kind: BlockKindText, Text: text}
}

// NewReasoningBlock returns a reasoning content block.
func NewReasoningBlock(text string) ContentBlock {
	return ContentBlock{Kind: BlockKindReasoning, Text: text}
}
