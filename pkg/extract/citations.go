package extract

import (
	"fmt"
	"sort"
	"strings"
)

// GroundingChunk is one web source referenced by grounded text.
type GroundingChunk struct {
	URI   string `json:"uri"`
	Title string `json:"title,omitempty"`
}

// GroundingSupport ties a span of generated text to the chunks that support
// it. EndIndex is a byte offset into the text as originally generated; Text
// is the supported snippet, used to relocate the span when the surrounding
// text has shifted.
type GroundingSupport struct {
	EndIndex     int    `json:"endIndex"`
	Text         string `json:"text,omitempty"`
	ChunkIndices []int  `json:"chunkIndices"`
}

// InsertCitations splices citation markers into text at each support's end
// offset. Markers look like [n](<uri>) with n being the 1-based chunk index.
// Supports are applied in descending offset order so earlier insertions do
// not invalidate later offsets. When a support carries its snippet and the
// snippet is found in the text, the marker goes after the snippet's actual
// location rather than the recorded offset.
func InsertCitations(text string, supports []GroundingSupport, chunks []GroundingChunk) string {
	if len(supports) == 0 || len(chunks) == 0 {
		return text
	}

	ordered := make([]GroundingSupport, len(supports))
	copy(ordered, supports)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].EndIndex > ordered[j].EndIndex
	})

	for _, sup := range ordered {
		marker := markerFor(sup.ChunkIndices, chunks)
		if marker == "" {
			continue
		}
		pos := sup.EndIndex
		if sup.Text != "" {
			if idx := strings.Index(text, sup.Text); idx >= 0 {
				pos = idx + len(sup.Text)
			}
		}
		if pos < 0 || pos > len(text) {
			continue
		}
		text = text[:pos] + marker + text[pos:]
	}
	return text
}

func markerFor(indices []int, chunks []GroundingChunk) string {
	var b strings.Builder
	for _, ci := range indices {
		if ci < 0 || ci >= len(chunks) {
			continue
		}
		uri := chunks[ci].URI
		if uri == "" {
			continue
		}
		fmt.Fprintf(&b, "[%d](<%s>)", ci+1, uri)
	}
	return b.String()
}
