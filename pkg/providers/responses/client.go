package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/inkline/pkg/providers"
	"github.com/go-go-golems/inkline/pkg/sse"
)

const defaultBaseURL = "https://api.openai.com"

// Client represents the Responses API client.
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

// StreamResponse sends a streaming request and folds the SSE frames into acc
// until the stream finishes, fails, or the context is cancelled.
func (c *Client) StreamResponse(ctx context.Context, req *Request, acc *sse.Accumulator) error {
	req.Stream = true
	body, err := json.Marshal(req)
	if err != nil {
		return errors.Wrap(err, "marshal responses request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/responses", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "create responses request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	log.Debug().Str("model", req.Model).Int("inputs", len(req.Input)).Msg("starting responses stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(err, "send responses request")
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return providers.ErrorFromResponse(resp)
	}

	return sse.ReadLoop(ctx, resp.Body, DecodeFrame, acc)
}
