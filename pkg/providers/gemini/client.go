package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/inkline/pkg/extract"
	"github.com/go-go-golems/inkline/pkg/providers"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Client represents the generateContent API client.
type Client struct {
	httpClient *http.Client
	APIKey     string
	BaseURL    string
}

// NewClient initializes and returns a new API client.
func NewClient(apiKey string, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{},
		APIKey:     apiKey,
		BaseURL:    baseURL,
	}
}

// GenerateContent performs one synchronous generation. It returns the raw
// reply payload for archival alongside the decoded response.
func (c *Client) GenerateContent(ctx context.Context, model string, req *GenerateContentRequest) (json.RawMessage, *GenerateContentResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, nil, errors.Wrap(err, "marshal generateContent request")
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.BaseURL, model, c.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, nil, errors.Wrap(err, "create generateContent request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	log.Debug().Str("model", model).Int("contents", len(req.Contents)).Msg("sending generateContent")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, nil, errors.Wrap(err, "send generateContent request")
	}
	defer func(b io.ReadCloser) {
		_ = b.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, nil, providers.ErrorFromResponse(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, errors.Wrap(err, "read generateContent response")
	}
	var decoded GenerateContentResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, nil, errors.Wrap(err, "decode generateContent response")
	}
	return raw, &decoded, nil
}

// ReplyText concatenates the text parts of the first candidate.
func ReplyText(resp *GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	var out string
	for _, p := range resp.Candidates[0].Content.Parts {
		out += p.Text
	}
	return out
}

// Citations extracts the grounding metadata of the first candidate in the
// form the citation inserter consumes. Both slices are nil when the reply
// was not grounded.
func Citations(resp *GenerateContentResponse) ([]extract.GroundingSupport, []extract.GroundingChunk) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, nil
	}
	gm := resp.Candidates[0].GroundingMetadata
	if gm == nil {
		return nil, nil
	}

	chunks := make([]extract.GroundingChunk, len(gm.GroundingChunks))
	for i, c := range gm.GroundingChunks {
		if c.Web != nil {
			chunks[i] = extract.GroundingChunk{URI: c.Web.URI, Title: c.Web.Title}
		}
	}

	var supports []extract.GroundingSupport
	for _, s := range gm.GroundingSupports {
		if s.Segment == nil || len(s.GroundingChunkIndices) == 0 {
			continue
		}
		supports = append(supports, extract.GroundingSupport{
			EndIndex:     s.Segment.EndIndex,
			Text:         s.Segment.Text,
			ChunkIndices: s.GroundingChunkIndices,
		})
	}
	return supports, chunks
}
