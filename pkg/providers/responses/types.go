package responses

// Request is the Responses API request payload, restricted to the surface
// this client uses: text and attachment input, reasoning, verbosity, and
// the web search tool.
type Request struct {
	Model           string     `json:"model"`
	Input           []Input    `json:"input"`
	Stream          bool       `json:"stream,omitempty"`
	MaxOutputTokens *int       `json:"max_output_tokens,omitempty"`
	Temperature     *float64   `json:"temperature,omitempty"`
	Instructions    string     `json:"instructions,omitempty"`
	Reasoning       *Reasoning `json:"reasoning,omitempty"`
	Text            *Text      `json:"text,omitempty"`
	Tools           []Tool     `json:"tools,omitempty"`
}

// Reasoning configures effort and summary emission for reasoning models.
type Reasoning struct {
	Effort  string `json:"effort,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// Text configures output shaping.
type Text struct {
	Verbosity string `json:"verbosity,omitempty"`
}

// Tool is a provider-hosted tool declaration.
type Tool struct {
	Type string `json:"type"`
}

// Input is one message-style input item.
type Input struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart is one part of a message's content.
type ContentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Filename string `json:"filename,omitempty"`
	FileData string `json:"file_data,omitempty"`
}

// ErrorResponse is the non-2xx error body.
type ErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
