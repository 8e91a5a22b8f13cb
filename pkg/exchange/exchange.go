package exchange

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/inkline/pkg/attachments"
	"github.com/go-go-golems/inkline/pkg/chain"
	"github.com/go-go-golems/inkline/pkg/extract"
	"github.com/go-go-golems/inkline/pkg/payloads"
	"github.com/go-go-golems/inkline/pkg/providers/claude"
	"github.com/go-go-golems/inkline/pkg/providers/gemini"
	"github.com/go-go-golems/inkline/pkg/providers/openaichat"
	"github.com/go-go-golems/inkline/pkg/providers/responses"
	"github.com/go-go-golems/inkline/pkg/settings"
	"github.com/go-go-golems/inkline/pkg/sse"
	"github.com/go-go-golems/inkline/pkg/turns"
)

// Status is the terminal state of one exchange.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusFailure   Status = "failure"
	StatusCancelled Status = "cancelled"
)

// Result is the outcome of one exchange. PartialText carries whatever reply
// text had been accumulated when a stream failed or was cancelled.
type Result struct {
	Status      Status
	Message     *extract.CanonicalMessage
	PartialText string
	Err         error
}

// Exchanger drives one full request cycle: resolve the chain, materialize
// attachments, build and send the provider request, and reduce the reply to
// a canonical message. Request and reply payloads are archived per node.
type Exchanger struct {
	settings     *settings.StepSettings
	payloads     payloads.Store
	materializer *attachments.Materializer
}

// NewExchanger returns an exchanger over the given stores.
func NewExchanger(st *settings.StepSettings, blobs attachments.Store, pay payloads.Store) *Exchanger {
	return &Exchanger{
		settings:     st,
		payloads:     pay,
		materializer: attachments.NewMaterializer(blobs, attachments.RasterOptions{}),
	}
}

// Send performs one exchange for the given leaf node. onDelta may be nil;
// for streaming providers it observes each text delta, for synchronous
// providers it fires once with the full reply.
func (e *Exchanger) Send(ctx context.Context, arena *chain.Arena, chatID, leafID string, onDelta sse.DeltaFunc) *Result {
	st := e.settings

	apiKey, err := st.APIKey()
	if err != nil {
		return failure(err)
	}

	resolver := chain.NewResolver(arena, e.assistantTextFunc(ctx, chatID))
	ts, err := resolver.Resolve(leafID)
	if err != nil {
		return failure(err)
	}

	ts, err = e.materializeTurns(ctx, ts)
	if err != nil {
		if ctx.Err() != nil {
			return &Result{Status: StatusCancelled, Err: ctx.Err()}
		}
		return failure(err)
	}

	log.Debug().
		Str("provider", string(st.Provider)).
		Str("chat_id", chatID).
		Str("leaf_id", leafID).
		Int("turns", len(ts)).
		Msg("sending exchange")

	switch st.Provider {
	case settings.ProviderClaude:
		return e.sendClaude(ctx, apiKey, chatID, leafID, ts, onDelta)
	case settings.ProviderOpenAI:
		return e.sendOpenAI(ctx, apiKey, chatID, leafID, ts, onDelta)
	case settings.ProviderResponses:
		return e.sendResponses(ctx, apiKey, chatID, leafID, ts, onDelta)
	case settings.ProviderGemini:
		return e.sendGemini(ctx, apiKey, chatID, leafID, ts, onDelta)
	default:
		return failure(errors.Errorf("unknown provider %s", st.Provider))
	}
}

// assistantTextFunc prefers the canonical extraction of a previous reply,
// then the archived raw reply, then the node's own content.
func (e *Exchanger) assistantTextFunc(ctx context.Context, chatID string) chain.AssistantTextFunc {
	return func(n *chain.Node) string {
		if raw, err := e.payloads.Get(ctx, CanonicalKey(chatID, n.ID)); err == nil && raw != nil {
			var cm extract.CanonicalMessage
			if json.Unmarshal(raw, &cm) == nil && cm.Text != "" {
				return cm.Text
			}
		}
		if n.RawResponseKey != "" {
			if raw, err := e.payloads.Get(ctx, n.RawResponseKey); err == nil && raw != nil {
				if s := extract.TextFromRaw(raw); s != "" {
					return s
				}
			}
		}
		return n.Content
	}
}

func (e *Exchanger) sendClaude(ctx context.Context, apiKey, chatID, leafID string, ts []turns.Turn, onDelta sse.DeltaFunc) *Result {
	st := e.settings
	req := claude.Build(st, ts)
	e.archive(ctx, RequestKey(chatID, leafID), req)

	client := claude.NewClient(apiKey, st.BaseURL(""))
	acc := sse.NewAccumulator(onDelta)
	if err := client.StreamMessage(ctx, req, acc); err != nil {
		return streamFailure(ctx, err, acc.Text())
	}

	raw := claudeRaw(acc)
	return e.finish(ctx, chatID, leafID, raw, acc.Text(), extract.CanonicalMeta{
		Effort:                 string(st.Effort),
		ReasoningSummaryBlocks: acc.ReasoningBlocks(),
	})
}

func (e *Exchanger) sendOpenAI(ctx context.Context, apiKey, chatID, leafID string, ts []turns.Turn, onDelta sse.DeltaFunc) *Result {
	st := e.settings
	req := openaichat.Build(st, ts)
	e.archive(ctx, RequestKey(chatID, leafID), req)

	client := openaichat.NewClient(apiKey, st.BaseURL(""))
	raw, text, err := client.Send(ctx, req)
	if err != nil {
		return streamFailure(ctx, err, "")
	}
	if onDelta != nil && text != "" {
		onDelta(text, text)
	}
	return e.finish(ctx, chatID, leafID, raw, text, extract.CanonicalMeta{})
}

func (e *Exchanger) sendResponses(ctx context.Context, apiKey, chatID, leafID string, ts []turns.Turn, onDelta sse.DeltaFunc) *Result {
	st := e.settings
	req := responses.Build(st, ts)
	e.archive(ctx, RequestKey(chatID, leafID), req)

	client := responses.NewClient(apiKey, st.BaseURL(""))
	acc := sse.NewAccumulator(onDelta)
	if err := client.StreamResponse(ctx, req, acc); err != nil {
		return streamFailure(ctx, err, acc.Text())
	}

	raw := responsesRaw(acc)
	usedSearch := len(req.Tools) > 0
	effort := ""
	if req.Reasoning != nil {
		effort = req.Reasoning.Effort
	}
	return e.finish(ctx, chatID, leafID, raw, acc.Text(), extract.CanonicalMeta{
		UsedWebSearch:          usedSearch,
		Effort:                 effort,
		Verbosity:              st.Verbosity,
		ReasoningSummaryBlocks: acc.ReasoningBlocks(),
	})
}

func (e *Exchanger) sendGemini(ctx context.Context, apiKey, chatID, leafID string, ts []turns.Turn, onDelta sse.DeltaFunc) *Result {
	st := e.settings
	baseURL := st.BaseURL("")

	up := gemini.NewUploader(apiKey, baseURL, e.payloads)
	if err := e.resolveFileURIs(ctx, up, ts); err != nil {
		return streamFailure(ctx, err, "")
	}

	req := gemini.Build(st, ts)
	e.archive(ctx, RequestKey(chatID, leafID), req)

	client := gemini.NewClient(apiKey, baseURL)
	raw, resp, err := client.GenerateContent(ctx, st.Model, req)
	if err != nil {
		return streamFailure(ctx, err, "")
	}

	text := gemini.ReplyText(resp)
	supports, chunks := gemini.Citations(resp)
	text = extract.InsertCitations(text, supports, chunks)
	if onDelta != nil && text != "" {
		onDelta(text, text)
	}
	return e.finish(ctx, chatID, leafID, raw, text, extract.CanonicalMeta{
		UsedWebSearch: len(chunks) > 0,
	})
}

// finish archives the raw reply, reduces it to a canonical message, and
// archives the canonical form alongside it.
func (e *Exchanger) finish(ctx context.Context, chatID, leafID string, raw json.RawMessage, text string, meta extract.CanonicalMeta) *Result {
	if err := e.payloads.Put(ctx, ResponseKey(chatID, leafID), raw); err != nil {
		log.Warn().Err(err).Msg("failed to archive raw reply")
	}

	msg := extract.Extract(raw, text)
	if msg == nil {
		return failure(errors.New("provider returned an empty reply"))
	}
	msg.Meta = meta

	if data, err := json.Marshal(msg); err == nil {
		if err := e.payloads.Put(ctx, CanonicalKey(chatID, leafID), data); err != nil {
			log.Warn().Err(err).Msg("failed to archive canonical message")
		}
	}

	return &Result{Status: StatusSuccess, Message: msg}
}

// archive stores a request payload; archival failures never abort the
// exchange.
func (e *Exchanger) archive(ctx context.Context, key string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to marshal payload for archival")
		return
	}
	if err := e.payloads.Put(ctx, key, data); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to archive payload")
	}
}

func failure(err error) *Result {
	return &Result{Status: StatusFailure, Err: err}
}

// streamFailure classifies a provider error, preserving partial text and
// mapping context cancellation to the cancelled status.
func streamFailure(ctx context.Context, err error, partial string) *Result {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return &Result{Status: StatusCancelled, PartialText: partial, Err: err}
	}
	return &Result{Status: StatusFailure, PartialText: partial, Err: err}
}

// claudeRaw synthesizes a Messages-shaped reply payload from the accumulated
// stream, so streamed and synchronous replies archive in the same shape.
func claudeRaw(acc *sse.Accumulator) json.RawMessage {
	type contentBlock struct {
		Type string `json:"type"`
		Text string `json:"text,omitempty"`
	}
	var content []contentBlock
	for _, b := range acc.Blocks() {
		switch b.Kind {
		case turns.BlockKindText:
			content = append(content, contentBlock{Type: "text", Text: b.Text})
		case turns.BlockKindReasoning:
			content = append(content, contentBlock{Type: "thinking", Text: b.Text})
		}
	}
	payload := map[string]any{
		"type":        "message",
		"role":        "assistant",
		"content":     content,
		"stop_reason": acc.StopReason(),
	}
	if u := acc.Usage(); u != nil {
		payload["usage"] = u
	}
	raw, _ := json.Marshal(payload)
	return raw
}

// responsesRaw synthesizes a Responses-shaped reply payload from the
// accumulated stream.
func responsesRaw(acc *sse.Accumulator) json.RawMessage {
	type contentPart struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	type outputItem struct {
		Type    string        `json:"type"`
		Content []contentPart `json:"content,omitempty"`
		Summary []contentPart `json:"summary,omitempty"`
	}
	var output []outputItem
	for _, b := range acc.Blocks() {
		switch b.Kind {
		case turns.BlockKindText:
			output = append(output, outputItem{
				Type:    "message",
				Content: []contentPart{{Type: "output_text", Text: b.Text}},
			})
		case turns.BlockKindReasoning:
			output = append(output, outputItem{
				Type:    "reasoning",
				Summary: []contentPart{{Type: "summary_text", Text: b.Text}},
			})
		}
	}
	payload := map[string]any{
		"output": output,
		"status": acc.StopReason(),
	}
	if u := acc.Usage(); u != nil {
		payload["usage"] = map[string]int{
			"input_tokens":  u.InputTokens,
			"output_tokens": u.OutputTokens,
		}
	}
	raw, _ := json.Marshal(payload)
	return raw
}
