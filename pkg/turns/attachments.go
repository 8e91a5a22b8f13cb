package turns

// AttachmentKind discriminates the attachment union.
type AttachmentKind string

const (
	AttachmentImage AttachmentKind = "image"
	AttachmentPDF   AttachmentKind = "pdf"
	AttachmentInk   AttachmentKind = "ink"
)

// ImageDetail is the resolution hint forwarded to providers that accept one.
type ImageDetail string

const (
	ImageDetailLow  ImageDetail = "low"
	ImageDetailHigh ImageDetail = "high"
	ImageDetailAuto ImageDetail = "auto"
)

// Point is a single sample of an ink stroke, in canvas coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one pen stroke of an ink drawing.
type Stroke struct {
	Points []Point `json:"points"`
	Width  float64 `json:"width,omitempty"`
}

// Attachment is a tagged union over the three attachment kinds. Exactly one
// of Data, StorageKey or Strokes is populated at a time; Data wins when both
// an inline and an indirect form are present.
//
// FileURI is only set after a provider-side upload: it carries the opaque
// handle returned by a file-upload indirection (see the gemini package) and
// is never persisted with the conversation.
type Attachment struct {
	Kind       AttachmentKind `json:"kind"`
	MimeType   string         `json:"mimeType,omitempty"`
	Data       string         `json:"data,omitempty"` // inline base64
	StorageKey string         `json:"storageKey,omitempty"`
	Detail     ImageDetail    `json:"detail,omitempty"` // images only
	Name       string         `json:"name,omitempty"`   // pdfs only
	Strokes    []Stroke       `json:"strokes,omitempty"`

	FileURI string `json:"-"`
}

// IsInline reports whether the attachment carries its bytes directly.
func (a Attachment) IsInline() bool {
	return a.Data != ""
}

// NewImageAttachment returns an inline image attachment.
func NewImageAttachment(mimeType, base64Data string, detail ImageDetail) Attachment {
	return Attachment{
		Kind:     AttachmentImage,
		MimeType: mimeType,
		Data:     base64Data,
		Detail:   detail,
	}
}

// NewPDFAttachment returns an inline pdf attachment.
func NewPDFAttachment(name, base64Data string) Attachment {
	return Attachment{
		Kind:     AttachmentPDF,
		MimeType: "application/pdf",
		Data:     base64Data,
		Name:     name,
	}
}

// NewInkAttachment returns an ink attachment referencing persisted strokes.
func NewInkAttachment(storageKey string) Attachment {
	return Attachment{Kind: AttachmentInk, StorageKey: storageKey}
}
