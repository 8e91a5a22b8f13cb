package openaichat

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	go_openai "github.com/sashabaranov/go-openai"

	"github.com/go-go-golems/inkline/pkg/providers"
)

// Client wraps the chat completions API for synchronous exchanges.
type Client struct {
	api *go_openai.Client
}

// NewClient initializes and returns a new API client.
func NewClient(apiKey string, baseURL string) *Client {
	cfg := go_openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{api: go_openai.NewClientWithConfig(cfg)}
}

// Send performs one synchronous chat completion. It returns the raw reply
// payload for archival alongside the extracted reply text.
func (c *Client) Send(ctx context.Context, req go_openai.ChatCompletionRequest) (json.RawMessage, string, error) {
	log.Debug().Str("model", req.Model).Int("messages", len(req.Messages)).Msg("sending chat completion")

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		var apiErr *go_openai.APIError
		if errors.As(err, &apiErr) {
			return nil, "", &providers.TransportError{Status: apiErr.HTTPStatusCode, Message: apiErr.Message}
		}
		return nil, "", errors.Wrap(err, "create chat completion")
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, "", errors.Wrap(err, "marshal chat completion response")
	}

	text := ""
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}
	return raw, text, nil
}
