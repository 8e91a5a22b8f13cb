package claude

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

const (
	defaultBaseURL    = "https://api.anthropic.com"
	defaultAPIVersion = "2023-06-01"
)

// Client represents the Claude Messages API client.
type Client struct {
	httpClient *http.Client
	APIKey     string
	BaseURL    string
	APIVersion string
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
		APIVersion: defaultAPIVersion,
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", c.APIVersion)
	req.Header.Set("Content-Type", "application/json")
}

// StreamMessage sends a streaming message request and folds the SSE frames
// into acc until the stream finishes, fails, or the context is cancelled.
func (c *Client) StreamMessage(ctx context.Context, req *MessageRequest, acc *sse.Accumulator) error {
	req.Stream = true
	body, err := json.Marshal(req)
	if err != nil {
		return errors.Wrap(err, "marshal message request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "create message request")
	}
	c.setHeaders(httpReq)
	httpReq.Header.Set("Accept", "text/event-stream")

	log.Debug().Str("model", req.Model).Int("messages", len(req.Messages)).Msg("starting claude stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(err, "send message request")
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return providers.ErrorFromResponse(resp)
	}

	return sse.ReadLoop(ctx, resp.Body, DecodeFrame, acc)
}
