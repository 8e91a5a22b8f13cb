package turns

import "strings"

// Role identifies the author of a resolved turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one linearized conversation entry, ready for provider-specific
// encoding. Turns are ephemeral: they are recomputed for every request and
// never persisted.
type Turn struct {
	Role        Role
	TextParts   []string
	Attachments []Attachment
}

// Text joins the turn's text parts into the single prompt body used by
// providers that take a flat string per message.
func (t *Turn) Text() string {
	return strings.Join(t.TextParts, "\n\n")
}

// AppendText adds a non-empty text part to the turn.
func (t *Turn) AppendText(s string) {
	if s == "" {
		return
	}
	t.TextParts = append(t.TextParts, s)
}

// HasContent reports whether the turn carries any text or attachments.
func (t *Turn) HasContent() bool {
	return len(t.TextParts) > 0 || len(t.Attachments) > 0
}
