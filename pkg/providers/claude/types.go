package claude

// MessageRequest represents the Messages API request payload.
type MessageRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Stream      bool      `json:"stream"`
	System      string    `json:"system,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
	Thinking    *Thinking `json:"thinking,omitempty"`
}

// Thinking enables extended thinking with a token budget.
type Thinking struct {
	Type         string `json:"type"`
	BudgetTokens int    `json:"budget_tokens"`
}

// Message represents a single message in the conversation.
type Message struct {
	Role    string    `json:"role"`
	Content []Content `json:"content"`
}

// Content represents a single block of content, which can be of various types.
type Content struct {
	Type   string  `json:"type"`
	Text   *string `json:"text,omitempty"`
	Source *Source `json:"source,omitempty"`
}

// Source carries base64-encoded data for image and document blocks.
type Source struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// NewTextContent creates a new text content block.
func NewTextContent(text string) Content {
	return Content{Type: "text", Text: &text}
}

// NewImageContent creates a new image content block with base64-encoded data.
func NewImageContent(mediaType, base64Data string) Content {
	return Content{
		Type: "image",
		Source: &Source{
			Type:      "base64",
			MediaType: mediaType,
			Data:      base64Data,
		},
	}
}

// NewDocumentContent creates a new document content block, used for PDFs.
func NewDocumentContent(mediaType, base64Data string) Content {
	return Content{
		Type: "document",
		Source: &Source{
			Type:      "base64",
			MediaType: mediaType,
			Data:      base64Data,
		},
	}
}

// MessageResponse represents the Messages API response payload.
type MessageResponse struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Role       string    `json:"role"`
	Content    []Content `json:"content"`
	Model      string    `json:"model"`
	StopReason string    `json:"stop_reason,omitempty"`
	Usage      Usage     `json:"usage"`
}

// Usage represents the billing and rate-limit usage information.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ErrorResponse represents the API's error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
